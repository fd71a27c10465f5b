package lltrace

import (
	"bytes"
	"reflect"
	"testing"
)

func newTestBufferedWriter(t *testing.T, format Format) *BufferedWriter {
	t.Helper()
	w, err := New(Config{Format: format, Program: "prog", EntryPath: "main.rs", EntryLine: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bw, ok := w.(*BufferedWriter)
	if !ok {
		t.Fatalf("expected *BufferedWriter, got %T", w)
	}
	return bw
}

// tailEvents strips the bootstrap sequence (the entry Path, the entry
// Function/Call and the None Type declaration) so scenario assertions only see the events
// the test itself triggered.
func tailEvents(events []LowLevelEvent) []LowLevelEvent {
	for i, e := range events {
		if e.Kind == EventType && e.Type.Kind == TypeKindNone {
			return events[i+1:]
		}
	}
	return nil
}

func TestBootstrapAllocatesReservedIDs(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	if bw.functions[TopLevelFunctionID].Name != "" {
		t.Fatalf("top-level function should be anonymous")
	}
	if bw.types[NoneTypeID].Kind != TypeKindNone {
		t.Fatalf("type 0 must be None, got %v", bw.types[NoneTypeID].Kind)
	}
}

// TestHelloStepScenario is §8 scenario 1. main.rs is the writer's entry
// path, so bootstrap has already declared it as PathID 0: EnsurePathID
// adds no second Path event and only the Step follows the bootstrap.
func TestHelloStepScenario(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	bw.EnsurePathID("main.rs")
	bw.RegisterStep("main.rs", 1)

	if bw.events[0].Kind != EventPath || bw.events[0].Path != "main.rs" {
		t.Fatalf("expected Path(main.rs) first, got %+v", bw.events[0])
	}
	tail := tailEvents(bw.events)
	if len(tail) != 1 {
		t.Fatalf("expected 1 event after bootstrap, got %d", len(tail))
	}
	if tail[0].Kind != EventStep || tail[0].Step.PathID != 0 || tail[0].Step.Line != 1 {
		t.Fatalf("expected Step{path_id:0, line:1}, got %+v", tail[0].Step)
	}
}

// TestVariableWithIntValueScenario is §8 scenario 2.
func TestVariableWithIntValueScenario(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	bw.EnsureVariableID("x")
	typeID := bw.EnsureTypeID(TypeKindInt, "i32")
	bw.RegisterVariableWithFullValue("x", IntValue(42, typeID))

	tail := tailEvents(bw.events)
	if len(tail) != 3 {
		t.Fatalf("expected 3 events, got %d", len(tail))
	}
	if tail[0].Kind != EventVariableName || tail[0].VariableName != "x" {
		t.Fatalf("expected VariableName(x) first, got %+v", tail[0])
	}
	if tail[1].Kind != EventType || tail[1].Type.Kind != TypeKindInt || tail[1].Type.LangType != "i32" {
		t.Fatalf("expected Type{Int,i32}, got %+v", tail[1].Type)
	}
	v := tail[2].Value
	if v.VariableID != 0 || v.Value.Kind != KindInt || v.Value.Int != 42 || v.Value.TypeID != typeID {
		t.Fatalf("expected Value{variable_id:0, Int{42, type_id:%d}}, got %+v", typeID, v)
	}
}

// TestCallReturnScenario is §8 scenario 3.
func TestCallReturnScenario(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	fn := bw.EnsureFunctionID("f", "main.rs", 3)
	bw.RegisterCall(fn, nil)
	bw.RegisterReturn(NoneOfType(NoneTypeID))

	tail := tailEvents(bw.events)
	var call, ret *LowLevelEvent
	for i := range tail {
		switch tail[i].Kind {
		case EventCall:
			call = &tail[i]
		case EventReturn:
			ret = &tail[i]
		}
	}
	if call == nil || call.Call.FunctionID != fn || len(call.Call.Args) != 0 {
		t.Fatalf("expected Call{function_id:%d, args:[]}, got %+v", fn, call)
	}
	if ret == nil || ret.Return.ReturnValue.Kind != KindNone || ret.Return.ReturnValue.TypeID != NoneTypeID {
		t.Fatalf("expected Return{None, type_id:0}, got %+v", ret)
	}
	if fn == TopLevelFunctionID {
		t.Fatalf("f must not collide with the reserved top-level function id")
	}
}

// TestDropLastStepScenario is §8 scenario 4: the Step remains present
// and DropLastStep is appended, never removing prior bytes.
func TestDropLastStepScenario(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	bw.RegisterStep("main.rs", 5)
	before := len(bw.events)
	bw.DropLastStep()

	if len(bw.events) != before+1 {
		t.Fatalf("DropLastStep must append, not remove: had %d events, now %d", before, len(bw.events))
	}
	last := bw.events[len(bw.events)-1]
	if last.Kind != EventDropLastStep {
		t.Fatalf("expected the final event to be DropLastStep, got %v", last.Kind)
	}
	found := false
	for _, e := range bw.events[:before] {
		if e.Kind == EventStep && e.Step.Line == 5 {
			found = true
		}
	}
	if !found {
		t.Fatalf("the original Step must still be present")
	}
}

// TestCompoundValueGraphScenario is §8 scenario 5.
func TestCompoundValueGraphScenario(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	seqType := bw.EnsureTypeID(TypeKindSeq, "Vec<i32>")
	intType := bw.EnsureTypeID(TypeKindInt, "i32")

	bw.RegisterCompoundValue(10, SequenceValue(nil, false, seqType))
	bw.AssignCompoundItem(10, 0, 11)
	bw.AssignCell(11, IntValue(7, intType))

	tail := tailEvents(bw.events)
	var compound, item, cell *LowLevelEvent
	for i := range tail {
		switch tail[i].Kind {
		case EventCompoundValue:
			compound = &tail[i]
		case EventAssignCompoundItem:
			item = &tail[i]
		case EventAssignCell:
			cell = &tail[i]
		}
	}
	if compound == nil || compound.CompoundValue.Place != 10 {
		t.Fatalf("expected CompoundValue{place:10, ...}, got %+v", compound)
	}
	if item == nil || item.AssignCompoundItem.Place != 10 || item.AssignCompoundItem.Index != 0 || item.AssignCompoundItem.ItemPlace != 11 {
		t.Fatalf("expected AssignCompoundItem{place:10, index:0, item_place:11}, got %+v", item)
	}
	if cell == nil || cell.AssignCell.Place != 11 || cell.AssignCell.NewValue.Int != 7 {
		t.Fatalf("expected AssignCell{place:11, new_value.i:7}, got %+v", cell)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	typeID := bw.EnsureTypeID(TypeKindInt, "i32")
	bw.RegisterVariableWithFullValue("x", IntValue(42, typeID))
	bw.RegisterStep("main.rs", 2)

	data, err := EncodeEventsJSON(bw.events)
	if err != nil {
		t.Fatalf("EncodeEventsJSON: %v", err)
	}
	decoded, err := DecodeEventsJSON(data)
	if err != nil {
		t.Fatalf("DecodeEventsJSON: %v", err)
	}
	if !reflect.DeepEqual(bw.events, decoded) {
		t.Fatalf("decode_json(encode_json(S)) != S\n got:  %+v\n want: %+v", decoded, bw.events)
	}
}

func TestBinaryV0RoundTrip(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatBinaryV0)
	typeID := bw.EnsureTypeID(TypeKindStruct, "Point")
	bw.RegisterVariableWithFullValue("p", StructValue([]ValueRecord{IntValue(1, typeID), IntValue(2, typeID)}, typeID))

	data, err := EncodeEventsBinaryV0(bw.events)
	if err != nil {
		t.Fatalf("EncodeEventsBinaryV0: %v", err)
	}
	decoded, err := DecodeEventsBinaryV0(data)
	if err != nil {
		t.Fatalf("DecodeEventsBinaryV0: %v", err)
	}
	if !reflect.DeepEqual(bw.events, decoded) {
		t.Fatalf("decode_binary(encode_binary(S)) != S\n got:  %+v\n want: %+v", decoded, bw.events)
	}
}

// TestRoundTripAndCrossFormatDeepEqual is the §8 equality property the
// bootstrap Call{args: nil} and every plain KindInt value exercise on
// every trace: nil-vs-empty args and Int128's zero value are exactly
// the places a naive codec silently mutates the stream.
func TestRoundTripAndCrossFormatDeepEqual(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	typeID := bw.EnsureTypeID(TypeKindInt, "i32")
	bw.RegisterVariableWithFullValue("x", IntValue(42, typeID))
	fn := bw.EnsureFunctionID("f", "main.rs", 3)
	bw.RegisterCall(fn, nil)
	bw.RegisterReturn(IntValue(0, typeID))

	jsonData, err := EncodeEventsJSON(bw.events)
	if err != nil {
		t.Fatalf("EncodeEventsJSON: %v", err)
	}
	fromJSON, err := DecodeEventsJSON(jsonData)
	if err != nil {
		t.Fatalf("DecodeEventsJSON: %v", err)
	}
	if !reflect.DeepEqual(bw.events, fromJSON) {
		t.Fatalf("decode_json(encode_json(S)) != S\n got:  %+v\n want: %+v", fromJSON, bw.events)
	}

	binData, err := EncodeEventsBinaryV0(bw.events)
	if err != nil {
		t.Fatalf("EncodeEventsBinaryV0: %v", err)
	}
	fromBinary, err := DecodeEventsBinaryV0(binData)
	if err != nil {
		t.Fatalf("DecodeEventsBinaryV0: %v", err)
	}
	if !reflect.DeepEqual(bw.events, fromBinary) {
		t.Fatalf("decode_binary(encode_binary(S)) != S\n got:  %+v\n want: %+v", fromBinary, bw.events)
	}

	if !reflect.DeepEqual(fromJSON, fromBinary) {
		t.Fatalf("decode_json(encode_json(S)) != decode_binary(encode_binary(S))\n json: %+v\n binary: %+v", fromJSON, fromBinary)
	}
}

func TestFinishWritingTraceEventsRejectsDoubleFinish(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	var buf bytes.Buffer
	sink := &nopCloserBuf{&buf}
	if err := bw.FinishWritingTraceEvents(sink); err != nil {
		t.Fatalf("first finish: %v", err)
	}
	if err := bw.FinishWritingTraceEvents(sink); err == nil {
		t.Fatalf("expected an error finishing a second time")
	}
}

type nopCloserBuf struct{ *bytes.Buffer }

func (nopCloserBuf) Close() error { return nil }
