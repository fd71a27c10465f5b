package lltrace

// This file implements the Writer capability set against *core. Both
// BufferedWriter and StreamingWriter embed *core, so every method here
// is available on both without duplication — the two writers differ
// only in how core.sink stores an emitted event, per §9's design note.

func (c *core) EnsurePathID(path string) PathID { return c.ensurePathID(path) }

func (c *core) EnsureFunctionID(name, path string, line int64) FunctionID {
	return c.ensureFunctionID(name, path, line)
}

func (c *core) EnsureVariableID(name string) VariableID { return c.ensureVariableID(name) }

func (c *core) EnsureTypeID(kind TypeKind, langType string) TypeID {
	return c.ensureTypeID(kind, langType)
}

func (c *core) EnsureRawTypeID(t TypeRecord) TypeID { return c.ensureRawTypeID(t) }

// RegisterPath is an explicit, idempotent declaration helper: it is a
// no-op on repeat since ensurePathID already deduplicates by identity.
func (c *core) RegisterPath(path string) { c.ensurePathID(path) }

func (c *core) RegisterFunction(name, path string, line int64) {
	c.ensureFunctionID(name, path, line)
}

func (c *core) RegisterType(kind TypeKind, langType string) { c.ensureTypeID(kind, langType) }

func (c *core) RegisterRawType(t TypeRecord) { c.ensureRawTypeID(t) }

func (c *core) RegisterStep(path string, line int64) {
	pathID := c.ensurePathID(path)
	c.emit(newStepEvent(StepRecord{PathID: pathID, Line: line}))
}

func (c *core) RegisterCall(functionID FunctionID, args []FullValueRecord) {
	registerCallOn(c, functionID, args)
}

func (c *core) RegisterReturn(value ValueRecord) {
	c.emit(newReturnEvent(ReturnRecord{ReturnValue: value}))
}

func (c *core) RegisterSpecialEvent(kind EventLogKind, content string) StepID {
	return c.emit(newLogEvent(RecordEvent{Kind: kind, Metadata: "", Content: content}))
}

func (c *core) RegisterAsm(instructions []string) { c.emit(newAsmEvent(instructions)) }

func (c *core) RegisterVariableWithFullValue(name string, value ValueRecord) {
	id := c.ensureVariableID(name)
	c.emit(newValueEvent(FullValueRecord{VariableID: id, Value: value}))
}

func (c *core) RegisterVariableName(name string) VariableID {
	return c.ensureVariableID(name)
}

func (c *core) RegisterFullValue(variableID VariableID, value ValueRecord) {
	c.emit(newValueEvent(FullValueRecord{VariableID: variableID, Value: value}))
}

func (c *core) RegisterCompoundValue(place Place, value ValueRecord) {
	c.emit(newCompoundValueEvent(CompoundValueRecord{Place: place, Value: value}))
}

func (c *core) RegisterCellValue(place Place, value ValueRecord) {
	c.emit(newCellValueEvent(CellValueRecord{Place: place, Value: value}))
}

func (c *core) AssignCompoundItem(place Place, index int, itemPlace Place) {
	c.emit(newAssignCompoundItemEvent(AssignCompoundItemRecord{Place: place, Index: index, ItemPlace: itemPlace}))
}

func (c *core) AssignCell(place Place, newValue ValueRecord) {
	c.emit(newAssignCellEvent(AssignCellRecord{Place: place, NewValue: newValue}))
}

func (c *core) BindVariable(name string, place Place) {
	id := c.ensureVariableID(name)
	c.emit(newBindVariableEvent(BindVariableRecord{VariableID: id, Place: place}))
}

func (c *core) RegisterVariable(name string, place Place) {
	id := c.ensureVariableID(name)
	c.emit(newVariableCellEvent(VariableCellRecord{VariableID: id, Place: place}))
}

func (c *core) DropVariable(name string) {
	id := c.ensureVariableID(name)
	c.emit(newDropVariableEvent(id))
}

func (c *core) DropVariables(names []string) {
	ids := make([]VariableID, len(names))
	for i, n := range names {
		ids[i] = c.ensureVariableID(n)
	}
	c.emit(newDropVariablesEvent(ids))
}

func (c *core) Assign(name string, rvalue RValue, passBy PassBy) {
	to := c.ensureVariableID(name)
	c.emit(newAssignmentEvent(AssignmentRecord{To: to, PassBy: passBy, From: rvalue}))
}

func (c *core) SimpleRValue(name string) RValue {
	return SimpleRValueOf(c.ensureVariableID(name))
}

func (c *core) CompoundRValue(names []string) RValue {
	ids := make([]VariableID, len(names))
	for i, n := range names {
		ids[i] = c.ensureVariableID(n)
	}
	return CompoundRValueOf(ids)
}

func (c *core) Arg(name string, value ValueRecord) FullValueRecord {
	return FullValueRecord{VariableID: c.ensureVariableID(name), Value: value}
}

func (c *core) DropLastStep() { c.emit(newDropLastStepEvent()) }

func (c *core) AddEvent(e LowLevelEvent) { c.emit(e) }

func (c *core) AppendEvents(events []LowLevelEvent) {
	for _, e := range events {
		c.emit(e)
	}
}
