package lltrace

import (
	"encoding/json"
	"fmt"
)

// This file gives the domain types their wire shapes for trace.json,
// following the same local-shadow-struct approach as
// internal/trace/format.go's formatNDJSON: no reflection tricks. Decoding
// uses one small json-tagged struct per shape; encoding of events and
// ValueRecords builds maps keyed by the wire field names.

// MarshalJSON gives ValueRecord the internally-tagged shape from §3/§6.2:
// a "kind" string discriminator plus the fields that variant carries.
func (v ValueRecord) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{"kind": v.Kind.String()}
	switch v.Kind {
	case KindInt:
		m["i"] = v.Int
		m["type_id"] = v.TypeID
	case KindInt128:
		m["i"] = v.I128.String()
		m["type_id"] = v.TypeID
	case KindFloat:
		m["f"] = v.Float
		m["type_id"] = v.TypeID
	case KindBool:
		m["b"] = v.Bool
		m["type_id"] = v.TypeID
	case KindString:
		m["text"] = v.Text
		m["type_id"] = v.TypeID
	case KindSequence:
		m["elements"] = v.Elements
		m["is_slice"] = v.IsSlice
		m["type_id"] = v.TypeID
	case KindTuple:
		m["elements"] = v.Elements
		m["type_id"] = v.TypeID
	case KindStruct:
		m["field_values"] = v.FieldValues
		m["type_id"] = v.TypeID
	case KindVariant:
		m["discriminator"] = v.Discriminator
		m["contents"] = v.Contents
		m["type_id"] = v.TypeID
	case KindReference:
		m["dereferenced"] = v.Dereferenced
		m["address"] = v.Address
		m["mutable"] = v.Mutable
		m["type_id"] = v.TypeID
	case KindRaw:
		m["r"] = v.Raw
		m["type_id"] = v.TypeID
	case KindError:
		m["msg"] = v.ErrorMessage
		m["type_id"] = v.TypeID
	case KindNone:
		m["type_id"] = v.TypeID
	case KindCell:
		m["place"] = v.Place
	case KindBigInt:
		m["magnitude"] = v.BigIntMagnitude
		m["negative"] = v.BigIntNegative
		m["type_id"] = v.TypeID
	default:
		return nil, fmt.Errorf("lltrace: unknown ValueKind %d", v.Kind)
	}
	return json.Marshal(m)
}

// valueWire mirrors every possible ValueRecord field so UnmarshalJSON can
// decode any variant with a single Unmarshal call.
type valueWire struct {
	Kind          string      `json:"kind"`
	Int           *int64      `json:"i"`
	Float         float64     `json:"f"`
	Bool          bool        `json:"b"`
	Text          string      `json:"text"`
	Elements      []ValueRecord `json:"elements"`
	IsSlice       bool        `json:"is_slice"`
	FieldValues   []ValueRecord `json:"field_values"`
	Discriminator string      `json:"discriminator"`
	Contents      *ValueRecord `json:"contents"`
	Dereferenced  *ValueRecord `json:"dereferenced"`
	Address       uint64      `json:"address"`
	Mutable       bool        `json:"mutable"`
	Raw           string      `json:"r"`
	ErrorMessage  string      `json:"msg"`
	Place         Place       `json:"place"`
	Magnitude     []byte      `json:"magnitude"`
	Negative      bool        `json:"negative"`
	TypeID        TypeID      `json:"type_id"`
}

func (v *ValueRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := valueKindFromString(raw.Kind)
	if err != nil {
		return err
	}

	// Int128 carries its magnitude as a decimal string, everything else
	// as a JSON number, so decode "i" polymorphically for that one case.
	if kind == KindInt128 {
		var w struct {
			I      string `json:"i"`
			TypeID TypeID `json:"type_id"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		i128, err := Int128FromString(w.I)
		if err != nil {
			return fmt.Errorf("lltrace: decode Int128: %w", err)
		}
		*v = ValueRecord{Kind: KindInt128, I128: i128, TypeID: w.TypeID}
		return nil
	}

	var w valueWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := ValueRecord{Kind: kind, TypeID: w.TypeID}
	switch kind {
	case KindInt:
		if w.Int != nil {
			out.Int = *w.Int
		}
	case KindFloat:
		out.Float = w.Float
	case KindBool:
		out.Bool = w.Bool
	case KindString:
		out.Text = w.Text
	case KindSequence:
		out.Elements = w.Elements
		out.IsSlice = w.IsSlice
	case KindTuple:
		out.Elements = w.Elements
	case KindStruct:
		out.FieldValues = w.FieldValues
	case KindVariant:
		out.Discriminator = w.Discriminator
		out.Contents = w.Contents
	case KindReference:
		out.Dereferenced = w.Dereferenced
		out.Address = w.Address
		out.Mutable = w.Mutable
	case KindRaw:
		out.Raw = w.Raw
	case KindError:
		out.ErrorMessage = w.ErrorMessage
	case KindNone:
		// type_id only
	case KindCell:
		out.Place = w.Place
	case KindBigInt:
		out.BigIntMagnitude = w.Magnitude
		out.BigIntNegative = w.Negative
	}
	*v = out
	return nil
}

func valueKindFromString(s string) (ValueKind, error) {
	for k := KindInt; k <= KindBigInt; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("lltrace: unknown value kind %q", s)
}

// MarshalJSON gives TypeRecord the §6.2 shape: a numeric kind ordinal
// (unlike ValueRecord's string tag), lang_type, and a nested
// internally-tagged specific_info.
func (t TypeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind         TypeKind         `json:"kind"`
		LangType     string           `json:"lang_type"`
		SpecificInfo TypeSpecificInfo `json:"specific_info"`
	}{t.Kind, t.LangType, t.SpecificInfo})
}

func (t *TypeRecord) UnmarshalJSON(data []byte) error {
	var w struct {
		Kind         TypeKind         `json:"kind"`
		LangType     string           `json:"lang_type"`
		SpecificInfo TypeSpecificInfo `json:"specific_info"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = TypeRecord{Kind: w.Kind, LangType: w.LangType, SpecificInfo: w.SpecificInfo}
	return nil
}

type fieldTypeWire struct {
	Name   string `json:"name"`
	TypeID TypeID `json:"type_id"`
}

func (i TypeSpecificInfo) MarshalJSON() ([]byte, error) {
	switch i.Kind {
	case TypeSpecificStruct:
		fields := make([]fieldTypeWire, len(i.Fields))
		for idx, f := range i.Fields {
			fields[idx] = fieldTypeWire{Name: f.Name, TypeID: f.TypeID}
		}
		return json.Marshal(struct {
			Kind   string          `json:"kind"`
			Fields []fieldTypeWire `json:"fields"`
		}{"Struct", fields})
	case TypeSpecificPointer:
		return json.Marshal(struct {
			Kind                string `json:"kind"`
			DereferenceTypeID   TypeID `json:"dereference_type_id"`
		}{"Pointer", i.DereferenceTypeID})
	default:
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{"None"})
	}
}

func (i *TypeSpecificInfo) UnmarshalJSON(data []byte) error {
	var w struct {
		Kind              string          `json:"kind"`
		Fields            []fieldTypeWire `json:"fields"`
		DereferenceTypeID TypeID          `json:"dereference_type_id"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "Struct":
		fields := make([]FieldType, len(w.Fields))
		for idx, f := range w.Fields {
			fields[idx] = FieldType{Name: f.Name, TypeID: f.TypeID}
		}
		*i = StructTypeInfo(fields)
	case "Pointer":
		*i = PointerTypeInfo(w.DereferenceTypeID)
	default:
		*i = NoTypeSpecificInfo
	}
	return nil
}

// MarshalJSON gives RValue the tuple-like shape from §6.2:
// {"kind":"Simple","0":variable_id} or {"kind":"Compound","0":[variable_id]}.
func (r RValue) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RValueSimple:
		return json.Marshal(struct {
			Kind string     `json:"kind"`
			Zero VariableID `json:"0"`
		}{"Simple", r.Simple})
	case RValueCompound:
		return json.Marshal(struct {
			Kind string       `json:"kind"`
			Zero []VariableID `json:"0"`
		}{"Compound", r.Compound})
	default:
		return nil, fmt.Errorf("lltrace: unknown RValue kind %d", r.Kind)
	}
}

func (r *RValue) UnmarshalJSON(data []byte) error {
	var w struct {
		Kind string          `json:"kind"`
		Zero json.RawMessage `json:"0"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "Simple":
		var id VariableID
		if err := json.Unmarshal(w.Zero, &id); err != nil {
			return err
		}
		*r = SimpleRValueOf(id)
	case "Compound":
		var ids []VariableID
		if err := json.Unmarshal(w.Zero, &ids); err != nil {
			return err
		}
		*r = CompoundRValueOf(ids)
	default:
		return fmt.Errorf("lltrace: unknown RValue kind %q", w.Kind)
	}
	return nil
}

// EncodeEventsJSON renders a stream as the pretty-printed, externally
// tagged array from §6.2.
func EncodeEventsJSON(events []LowLevelEvent) ([]byte, error) {
	out := make([]map[string]interface{}, len(events))
	for idx, e := range events {
		obj, err := eventToJSONObject(e)
		if err != nil {
			return nil, formatError("EncodeEventsJSON", err)
		}
		out[idx] = obj
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, formatError("EncodeEventsJSON", err)
	}
	return data, nil
}

func eventToJSONObject(e LowLevelEvent) (map[string]interface{}, error) {
	switch e.Kind {
	case EventPath:
		return map[string]interface{}{"Path": e.Path}, nil
	case EventVariableName:
		return map[string]interface{}{"VariableName": e.VariableName}, nil
	case EventType:
		return map[string]interface{}{"Type": e.Type}, nil
	case EventValue:
		return map[string]interface{}{"Value": fullValueWireOf(e.Value)}, nil
	case EventFunction:
		return map[string]interface{}{"Function": map[string]interface{}{
			"path_id": e.Function.PathID, "line": e.Function.Line, "name": e.Function.Name,
		}}, nil
	case EventStep:
		return map[string]interface{}{"Step": map[string]interface{}{
			"path_id": e.Step.PathID, "line": e.Step.Line,
		}}, nil
	case EventCall:
		var args []map[string]interface{}
		if len(e.Call.Args) > 0 {
			args = make([]map[string]interface{}, len(e.Call.Args))
			for i, a := range e.Call.Args {
				args[i] = fullValueWireOf(a)
			}
		}
		return map[string]interface{}{"Call": map[string]interface{}{
			"function_id": e.Call.FunctionID, "args": args,
		}}, nil
	case EventReturn:
		return map[string]interface{}{"Return": map[string]interface{}{
			"return_value": e.Return.ReturnValue,
		}}, nil
	case EventLog:
		return map[string]interface{}{"Event": map[string]interface{}{
			"kind": e.Log.Kind, "metadata": e.Log.Metadata, "content": e.Log.Content,
		}}, nil
	case EventAsm:
		return map[string]interface{}{"Asm": e.Asm}, nil
	case EventBindVariable:
		return map[string]interface{}{"BindVariable": map[string]interface{}{
			"variable_id": e.BindVariable.VariableID, "place": e.BindVariable.Place,
		}}, nil
	case EventAssignment:
		return map[string]interface{}{"Assignment": map[string]interface{}{
			"to": e.Assignment.To, "pass_by": e.Assignment.PassBy.String(), "from": e.Assignment.From,
		}}, nil
	case EventDropVariables:
		return map[string]interface{}{"DropVariables": e.DropVariables}, nil
	case EventCompoundValue:
		return map[string]interface{}{"CompoundValue": map[string]interface{}{
			"place": e.CompoundValue.Place, "value": e.CompoundValue.Value,
		}}, nil
	case EventCellValue:
		return map[string]interface{}{"CellValue": map[string]interface{}{
			"place": e.CellValue.Place, "value": e.CellValue.Value,
		}}, nil
	case EventAssignCompoundItem:
		return map[string]interface{}{"AssignCompoundItem": map[string]interface{}{
			"place": e.AssignCompoundItem.Place, "index": e.AssignCompoundItem.Index, "item_place": e.AssignCompoundItem.ItemPlace,
		}}, nil
	case EventAssignCell:
		return map[string]interface{}{"AssignCell": map[string]interface{}{
			"place": e.AssignCell.Place, "new_value": e.AssignCell.NewValue,
		}}, nil
	case EventVariableCell:
		return map[string]interface{}{"VariableCell": map[string]interface{}{
			"variable_id": e.VariableCell.VariableID, "place": e.VariableCell.Place,
		}}, nil
	case EventDropVariable:
		return map[string]interface{}{"DropVariable": e.DropVariable}, nil
	case EventDropLastStep:
		return map[string]interface{}{"DropLastStep": nil}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %d", e.Kind)
	}
}

func fullValueWireOf(v FullValueRecord) map[string]interface{} {
	return map[string]interface{}{"variable_id": v.VariableID, "value": v.Value}
}

// DecodeEventsJSON parses a §6.2 event array back into a stream.
func DecodeEventsJSON(data []byte) ([]LowLevelEvent, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, formatError("DecodeEventsJSON", err)
	}
	events := make([]LowLevelEvent, len(raw))
	for idx, obj := range raw {
		if len(obj) != 1 {
			return nil, formatError("DecodeEventsJSON", fmt.Errorf("event %d: expected a single-keyed object, got %d keys", idx, len(obj)))
		}
		var key string
		var payload json.RawMessage
		for k, v := range obj {
			key, payload = k, v
		}
		e, err := eventFromJSON(key, payload)
		if err != nil {
			return nil, formatError("DecodeEventsJSON", fmt.Errorf("event %d: %w", idx, err))
		}
		events[idx] = e
	}
	return events, nil
}

func eventFromJSON(key string, payload json.RawMessage) (LowLevelEvent, error) {
	switch key {
	case "Path":
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return LowLevelEvent{}, err
		}
		return newPathEvent(s), nil
	case "VariableName", "Variable":
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return LowLevelEvent{}, err
		}
		return newVariableNameEvent(s), nil
	case "Type":
		var t TypeRecord
		if err := json.Unmarshal(payload, &t); err != nil {
			return LowLevelEvent{}, err
		}
		return newTypeEvent(t), nil
	case "Value":
		var w fullValueWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newValueEvent(FullValueRecord{VariableID: w.VariableID, Value: w.Value}), nil
	case "Function":
		var w struct {
			PathID PathID `json:"path_id"`
			Line   int64  `json:"line"`
			Name   string `json:"name"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newFunctionEvent(FunctionRecord{PathID: w.PathID, Line: w.Line, Name: w.Name}), nil
	case "Step":
		var w struct {
			PathID PathID `json:"path_id"`
			Line   int64  `json:"line"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newStepEvent(StepRecord{PathID: w.PathID, Line: w.Line}), nil
	case "Call":
		var w struct {
			FunctionID FunctionID      `json:"function_id"`
			Args       []fullValueWire `json:"args"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		var args []FullValueRecord
		if len(w.Args) > 0 {
			args = make([]FullValueRecord, len(w.Args))
			for i, a := range w.Args {
				args[i] = FullValueRecord{VariableID: a.VariableID, Value: a.Value}
			}
		}
		return newCallEvent(CallRecord{FunctionID: w.FunctionID, Args: args}), nil
	case "Return":
		var w struct {
			ReturnValue ValueRecord `json:"return_value"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newReturnEvent(ReturnRecord{ReturnValue: w.ReturnValue}), nil
	case "Event":
		var w struct {
			Kind     EventLogKind `json:"kind"`
			Metadata string       `json:"metadata"`
			Content  string       `json:"content"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newLogEvent(RecordEvent{Kind: w.Kind, Metadata: w.Metadata, Content: w.Content}), nil
	case "Asm":
		var lines []string
		if err := json.Unmarshal(payload, &lines); err != nil {
			return LowLevelEvent{}, err
		}
		return newAsmEvent(lines), nil
	case "BindVariable":
		var w struct {
			VariableID VariableID `json:"variable_id"`
			Place      Place      `json:"place"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newBindVariableEvent(BindVariableRecord{VariableID: w.VariableID, Place: w.Place}), nil
	case "Assignment":
		var w struct {
			To     VariableID `json:"to"`
			PassBy string     `json:"pass_by"`
			From   RValue      `json:"from"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		pb := PassByValue
		if w.PassBy == "Reference" {
			pb = PassByReference
		}
		return newAssignmentEvent(AssignmentRecord{To: w.To, PassBy: pb, From: w.From}), nil
	case "DropVariables":
		var ids []VariableID
		if err := json.Unmarshal(payload, &ids); err != nil {
			return LowLevelEvent{}, err
		}
		return newDropVariablesEvent(ids), nil
	case "CompoundValue":
		var w struct {
			Place Place       `json:"place"`
			Value ValueRecord `json:"value"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newCompoundValueEvent(CompoundValueRecord{Place: w.Place, Value: w.Value}), nil
	case "CellValue":
		var w struct {
			Place Place       `json:"place"`
			Value ValueRecord `json:"value"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newCellValueEvent(CellValueRecord{Place: w.Place, Value: w.Value}), nil
	case "AssignCompoundItem":
		var w struct {
			Place     Place `json:"place"`
			Index     int   `json:"index"`
			ItemPlace Place `json:"item_place"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newAssignCompoundItemEvent(AssignCompoundItemRecord{Place: w.Place, Index: w.Index, ItemPlace: w.ItemPlace}), nil
	case "AssignCell":
		var w struct {
			Place    Place       `json:"place"`
			NewValue ValueRecord `json:"new_value"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newAssignCellEvent(AssignCellRecord{Place: w.Place, NewValue: w.NewValue}), nil
	case "VariableCell":
		var w struct {
			VariableID VariableID `json:"variable_id"`
			Place      Place      `json:"place"`
		}
		if err := json.Unmarshal(payload, &w); err != nil {
			return LowLevelEvent{}, err
		}
		return newVariableCellEvent(VariableCellRecord{VariableID: w.VariableID, Place: w.Place}), nil
	case "DropVariable":
		var id VariableID
		if err := json.Unmarshal(payload, &id); err != nil {
			return LowLevelEvent{}, err
		}
		return newDropVariableEvent(id), nil
	case "DropLastStep":
		return newDropLastStepEvent(), nil
	default:
		return LowLevelEvent{}, fmt.Errorf("unknown event tag %q", key)
	}
}

type fullValueWire struct {
	VariableID VariableID  `json:"variable_id"`
	Value      ValueRecord `json:"value"`
}
