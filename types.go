package lltrace

import "fmt"

// TypeKind is a closed, order-stable ordinal enumeration of the
// categories of types recorded in a trace. New members are appended
// only at the end of the list, exactly the discipline
// internal/vm.ValueKind follows in the teacher, so numeric encodings
// stay backward compatible.
type TypeKind uint32

const (
	TypeKindSeq TypeKind = iota
	TypeKindSet
	TypeKindHashSet
	TypeKindOrderedSet
	TypeKindArray
	TypeKindVarargs
	TypeKindStruct
	TypeKindInt
	TypeKindFloat
	TypeKindString
	TypeKindCString
	TypeKindChar
	TypeKindBool
	TypeKindLiteral
	TypeKindRef
	TypeKindRecursion
	TypeKindRaw
	TypeKindEnum
	TypeKindEnum16
	TypeKindEnum32
	TypeKindC
	TypeKindTable
	TypeKindUnion
	TypeKindPointer
	TypeKindError
	TypeKindFunction
	TypeKindTypeValue
	TypeKindTuple
	TypeKindVariant
	TypeKindHTML
	TypeKindNone
	TypeKindNonExpanded
	TypeKindAny
	TypeKindSlice
)

// String renders the TypeKind for diagnostics; unknown ordinals must be
// tolerated by consumers per the base spec, so this never panics.
func (k TypeKind) String() string {
	names := [...]string{
		"Seq", "Set", "HashSet", "OrderedSet", "Array", "Varargs", "Struct",
		"Int", "Float", "String", "CString", "Char", "Bool", "Literal", "Ref",
		"Recursion", "Raw", "Enum", "Enum16", "Enum32", "C", "TableKind",
		"Union", "Pointer", "Error", "FunctionKind", "TypeValue", "Tuple",
		"Variant", "Html", "None", "NonExpanded", "Any", "Slice",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

// FieldType names one field of a Struct type and the TypeID of its
// declared type.
type FieldType struct {
	Name   string
	TypeID TypeID
}

// TypeSpecificInfoKind discriminates TypeSpecificInfo's closed variant
// set.
type TypeSpecificInfoKind uint8

const (
	TypeSpecificNone TypeSpecificInfoKind = iota
	TypeSpecificStruct
	TypeSpecificPointer
)

// TypeSpecificInfo carries the shape detail that TypeKind alone cannot
// express: field layout for structs, and the pointee type for
// pointers.
type TypeSpecificInfo struct {
	Kind TypeSpecificInfoKind

	Fields []FieldType // TypeSpecificStruct

	DereferenceTypeID TypeID // TypeSpecificPointer
}

// NoTypeSpecificInfo is the TypeSpecificInfo carried by every type
// declared through the fast (kind, lang_type) interning path.
var NoTypeSpecificInfo = TypeSpecificInfo{Kind: TypeSpecificNone}

// StructTypeInfo builds struct-shaped TypeSpecificInfo.
func StructTypeInfo(fields []FieldType) TypeSpecificInfo {
	return TypeSpecificInfo{Kind: TypeSpecificStruct, Fields: fields}
}

// PointerTypeInfo builds pointer-shaped TypeSpecificInfo.
func PointerTypeInfo(dereferenceTypeID TypeID) TypeSpecificInfo {
	return TypeSpecificInfo{Kind: TypeSpecificPointer, DereferenceTypeID: dereferenceTypeID}
}

// TypeRecord is the payload of a Type declaration event.
//
// Identity for the fast interning path (EnsureTypeID) is (Kind,
// LangType); callers needing struct field layout or pointer shape must
// go through EnsureRawTypeID, whose identity is the whole record.
type TypeRecord struct {
	Kind         TypeKind
	LangType     string
	SpecificInfo TypeSpecificInfo
}
