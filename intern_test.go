package lltrace

import "testing"

type collectingSink struct {
	events []LowLevelEvent
}

func (s *collectingSink) addEvent(e LowLevelEvent) { s.events = append(s.events, e) }

func TestEnsurePathIDIsIdempotent(t *testing.T) {
	s := &collectingSink{}
	c := newCore(s)

	id1 := c.ensurePathID("main.rs")
	id2 := c.ensurePathID("main.rs")
	if id1 != id2 {
		t.Fatalf("ensurePathID not idempotent: %d != %d", id1, id2)
	}
	if len(s.events) != 1 {
		t.Fatalf("expected exactly one Path declaration, got %d", len(s.events))
	}
}

func TestEnsureFunctionIDIdentityIsTriple(t *testing.T) {
	s := &collectingSink{}
	c := newCore(s)

	a := c.ensureFunctionID("f", "main.rs", 3)
	b := c.ensureFunctionID("f", "main.rs", 3)
	if a != b {
		t.Fatalf("same (name, path, line) triple should reuse the id")
	}
	c2 := c.ensureFunctionID("f", "main.rs", 4)
	if c2 == a {
		t.Fatalf("a different line should mint a new FunctionID")
	}
}

func TestIdentifierDensity(t *testing.T) {
	s := &collectingSink{}
	c := newCore(s)

	want := map[string]VariableID{"x": 0, "y": 1, "z": 2}
	for _, n := range []string{"x", "y", "z", "x", "y"} {
		if got := c.ensureVariableID(n); got != want[n] {
			t.Fatalf("ensureVariableID(%q) = %d, want %d", n, got, want[n])
		}
	}
	if len(c.variables) != 3 {
		t.Fatalf("expected 3 unique variables, got %d", len(c.variables))
	}
}

func TestEnsureRawTypeIDDistinguishesStructShape(t *testing.T) {
	s := &collectingSink{}
	c := newCore(s)

	t1 := c.ensureRawTypeID(TypeRecord{Kind: TypeKindStruct, LangType: "Point", SpecificInfo: StructTypeInfo([]FieldType{{Name: "x", TypeID: 1}})})
	t2 := c.ensureRawTypeID(TypeRecord{Kind: TypeKindStruct, LangType: "Point", SpecificInfo: StructTypeInfo([]FieldType{{Name: "x", TypeID: 1}, {Name: "y", TypeID: 1}})})
	if t1 == t2 {
		t.Fatalf("structs with different field lists must not share an id")
	}
}

func TestEmitReturnsOrdinalPosition(t *testing.T) {
	s := &collectingSink{}
	c := newCore(s)

	pos0 := c.ensurePathID("a.rs")
	_ = pos0
	pos := c.emit(newStepEvent(StepRecord{PathID: 0, Line: 1}))
	if int(pos) != 1 {
		t.Fatalf("expected the Step to land at ordinal 1 (after the Path), got %d", pos)
	}
}
