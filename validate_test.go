package lltrace

import "testing"

func TestValidateAcceptsWellFormedStream(t *testing.T) {
	bw := newTestBufferedWriter(t, FormatJSON)
	typeID := bw.EnsureTypeID(TypeKindInt, "i32")
	bw.RegisterVariableWithFullValue("x", IntValue(42, typeID))
	bw.RegisterStep("main.rs", 2)

	if err := Validate(bw.events); err != nil {
		t.Fatalf("Validate rejected a well-formed stream: %v", err)
	}
}

func TestValidateRejectsUndeclaredVariable(t *testing.T) {
	events := []LowLevelEvent{
		newValueEvent(FullValueRecord{VariableID: 0, Value: NoneValue}),
	}
	if err := Validate(events); err == nil {
		t.Fatalf("expected an error referencing VariableID 0 before its declaration")
	}
}

func TestValidateRejectsUndeclaredType(t *testing.T) {
	events := []LowLevelEvent{
		newVariableNameEvent("x"),
		newValueEvent(FullValueRecord{VariableID: 0, Value: IntValue(1, 5)}),
	}
	if err := Validate(events); err == nil {
		t.Fatalf("expected an error referencing TypeID 5 before its declaration")
	}
}

func TestValidateAllowsImplicitNoneType(t *testing.T) {
	events := []LowLevelEvent{
		newVariableNameEvent("x"),
		newValueEvent(FullValueRecord{VariableID: 0, Value: NoneOfType(NoneTypeID)}),
	}
	if err := Validate(events); err != nil {
		t.Fatalf("TypeID(0) must be implicit, got: %v", err)
	}
}
