package lltrace

import "testing"

func TestTypeKindOrdinalsMatchWireTable(t *testing.T) {
	cases := map[TypeKind]uint32{
		TypeKindSeq: 0, TypeKindSet: 1, TypeKindHashSet: 2, TypeKindOrderedSet: 3,
		TypeKindArray: 4, TypeKindVarargs: 5, TypeKindStruct: 6, TypeKindInt: 7,
		TypeKindFloat: 8, TypeKindString: 9, TypeKindCString: 10, TypeKindChar: 11,
		TypeKindBool: 12, TypeKindLiteral: 13, TypeKindRef: 14, TypeKindRecursion: 15,
		TypeKindRaw: 16, TypeKindEnum: 17, TypeKindEnum16: 18, TypeKindEnum32: 19,
		TypeKindC: 20, TypeKindTable: 21, TypeKindUnion: 22, TypeKindPointer: 23,
		TypeKindError: 24, TypeKindFunction: 25, TypeKindTypeValue: 26, TypeKindTuple: 27,
		TypeKindVariant: 28, TypeKindHTML: 29, TypeKindNone: 30, TypeKindNonExpanded: 31,
		TypeKindAny: 32, TypeKindSlice: 33,
	}
	for k, want := range cases {
		if uint32(k) != want {
			t.Fatalf("%v has ordinal %d, want %d", k, uint32(k), want)
		}
	}
}

func TestTypeKindStringToleratesUnknownOrdinals(t *testing.T) {
	unknown := TypeKind(999)
	if got := unknown.String(); got == "" {
		t.Fatalf("String() must not panic or return empty for an unknown ordinal")
	}
}

func TestStructTypeInfoRoundTripsFields(t *testing.T) {
	info := StructTypeInfo([]FieldType{{Name: "x", TypeID: 1}, {Name: "y", TypeID: 1}})
	if info.Kind != TypeSpecificStruct || len(info.Fields) != 2 {
		t.Fatalf("unexpected StructTypeInfo: %+v", info)
	}
}
