package lltrace

import "fmt"

// EventKind discriminates LowLevelEvent's closed variant set, one
// member per row of the base spec's §6.2 JSON encoding table.
type EventKind uint8

const (
	EventPath EventKind = iota
	EventVariableName
	EventType
	EventValue
	EventFunction
	EventStep
	EventCall
	EventReturn
	EventLog
	EventAsm
	EventBindVariable
	EventAssignment
	EventDropVariables
	EventCompoundValue
	EventCellValue
	EventAssignCompoundItem
	EventAssignCell
	EventVariableCell
	EventDropVariable
	EventDropLastStep
)

// String returns the wire tag for this event kind, matching the
// externally-tagged JSON key from the base spec's §6.2 table.
func (k EventKind) String() string {
	switch k {
	case EventPath:
		return "Path"
	case EventVariableName:
		return "VariableName"
	case EventType:
		return "Type"
	case EventValue:
		return "Value"
	case EventFunction:
		return "Function"
	case EventStep:
		return "Step"
	case EventCall:
		return "Call"
	case EventReturn:
		return "Return"
	case EventLog:
		return "Event"
	case EventAsm:
		return "Asm"
	case EventBindVariable:
		return "BindVariable"
	case EventAssignment:
		return "Assignment"
	case EventDropVariables:
		return "DropVariables"
	case EventCompoundValue:
		return "CompoundValue"
	case EventCellValue:
		return "CellValue"
	case EventAssignCompoundItem:
		return "AssignCompoundItem"
	case EventAssignCell:
		return "AssignCell"
	case EventVariableCell:
		return "VariableCell"
	case EventDropVariable:
		return "DropVariable"
	case EventDropLastStep:
		return "DropLastStep"
	default:
		return fmt.Sprintf("EventKind(%d)", k)
	}
}

// LowLevelEvent is one element of the append-only trace stream. Like
// ValueRecord, it is a closed sum modeled as a Kind discriminator plus
// one field group per variant, so replayers pattern-match on Kind
// exactly as the base spec's design notes prescribe.
type LowLevelEvent struct {
	Kind EventKind

	Path         string             // EventPath
	VariableName string             // EventVariableName
	Type         TypeRecord         // EventType
	Value        FullValueRecord    // EventValue
	Function     FunctionRecord     // EventFunction
	Step         StepRecord         // EventStep
	Call         CallRecord         // EventCall
	Return       ReturnRecord       // EventReturn
	Log          RecordEvent        // EventLog
	Asm          []string           // EventAsm
	BindVariable BindVariableRecord // EventBindVariable
	Assignment   AssignmentRecord   // EventAssignment
	DropVariables []VariableID              // EventDropVariables
	CompoundValue CompoundValueRecord       // EventCompoundValue
	CellValue     CellValueRecord           // EventCellValue
	AssignCompoundItem AssignCompoundItemRecord // EventAssignCompoundItem
	AssignCell         AssignCellRecord         // EventAssignCell
	VariableCell       VariableCellRecord       // EventVariableCell
	DropVariable       VariableID               // EventDropVariable
	// EventDropLastStep carries no payload.
}

func newPathEvent(path string) LowLevelEvent { return LowLevelEvent{Kind: EventPath, Path: path} }

func newVariableNameEvent(name string) LowLevelEvent {
	return LowLevelEvent{Kind: EventVariableName, VariableName: name}
}

func newTypeEvent(t TypeRecord) LowLevelEvent { return LowLevelEvent{Kind: EventType, Type: t} }

func newValueEvent(v FullValueRecord) LowLevelEvent { return LowLevelEvent{Kind: EventValue, Value: v} }

func newFunctionEvent(f FunctionRecord) LowLevelEvent {
	return LowLevelEvent{Kind: EventFunction, Function: f}
}

func newStepEvent(s StepRecord) LowLevelEvent { return LowLevelEvent{Kind: EventStep, Step: s} }

func newCallEvent(c CallRecord) LowLevelEvent { return LowLevelEvent{Kind: EventCall, Call: c} }

func newReturnEvent(r ReturnRecord) LowLevelEvent { return LowLevelEvent{Kind: EventReturn, Return: r} }

func newLogEvent(l RecordEvent) LowLevelEvent { return LowLevelEvent{Kind: EventLog, Log: l} }

func newAsmEvent(instructions []string) LowLevelEvent {
	return LowLevelEvent{Kind: EventAsm, Asm: instructions}
}

func newBindVariableEvent(b BindVariableRecord) LowLevelEvent {
	return LowLevelEvent{Kind: EventBindVariable, BindVariable: b}
}

func newAssignmentEvent(a AssignmentRecord) LowLevelEvent {
	return LowLevelEvent{Kind: EventAssignment, Assignment: a}
}

func newDropVariablesEvent(ids []VariableID) LowLevelEvent {
	return LowLevelEvent{Kind: EventDropVariables, DropVariables: ids}
}

func newCompoundValueEvent(c CompoundValueRecord) LowLevelEvent {
	return LowLevelEvent{Kind: EventCompoundValue, CompoundValue: c}
}

func newCellValueEvent(c CellValueRecord) LowLevelEvent {
	return LowLevelEvent{Kind: EventCellValue, CellValue: c}
}

func newAssignCompoundItemEvent(a AssignCompoundItemRecord) LowLevelEvent {
	return LowLevelEvent{Kind: EventAssignCompoundItem, AssignCompoundItem: a}
}

func newAssignCellEvent(a AssignCellRecord) LowLevelEvent {
	return LowLevelEvent{Kind: EventAssignCell, AssignCell: a}
}

func newVariableCellEvent(v VariableCellRecord) LowLevelEvent {
	return LowLevelEvent{Kind: EventVariableCell, VariableCell: v}
}

func newDropVariableEvent(id VariableID) LowLevelEvent {
	return LowLevelEvent{Kind: EventDropVariable, DropVariable: id}
}

func newDropLastStepEvent() LowLevelEvent { return LowLevelEvent{Kind: EventDropLastStep} }
