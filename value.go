package lltrace

import (
	"fmt"
	"math/big"

	"github.com/vmihailenco/msgpack/v5"
)

// ValueKind identifies which variant of ValueRecord is populated,
// exactly as vm.ValueKind discriminates vm.Value's overlapping fields
// in the teacher compiler's interpreter.
type ValueKind uint8

const (
	KindInt ValueKind = iota
	KindInt128
	KindFloat
	KindBool
	KindString
	KindSequence
	KindTuple
	KindStruct
	KindVariant
	KindReference
	KindRaw
	KindError
	KindNone
	KindCell
	KindBigInt
)

// String returns the wire tag used for this kind in the JSON encoding.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindInt128:
		return "Int128"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindSequence:
		return "Sequence"
	case KindTuple:
		return "Tuple"
	case KindStruct:
		return "Struct"
	case KindVariant:
		return "Variant"
	case KindReference:
		return "Reference"
	case KindRaw:
		return "Raw"
	case KindError:
		return "Error"
	case KindNone:
		return "None"
	case KindCell:
		return "Cell"
	case KindBigInt:
		return "BigInt"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Int128 holds a signed integer for the original tracer's i128 values,
// backed by math/big (sign plus magnitude). Nothing limits it to the
// i128 range: NewInt128 and Int128FromString accept any big.Int value.
//
// v is held by value, not by pointer: Int128{} (the zero value every
// non-KindInt128 ValueRecord carries) must compare equal under
// reflect.DeepEqual to an Int128 decoded from the wire's "0", and
// math/big normalizes a freshly-zeroed big.Int the same way regardless
// of how it got there. A *big.Int field would leave the zero value's
// nil pointer forever unequal to a decoded non-nil zero.
type Int128 struct {
	v big.Int
}

// NewInt128 wraps a big.Int as an Int128. The caller retains ownership
// of v; NewInt128 stores a defensive copy.
func NewInt128(v *big.Int) Int128 {
	var out Int128
	if v != nil {
		out.v.Set(v)
	}
	return out
}

// Int128FromInt64 widens an int64 to Int128.
func Int128FromInt64(i int64) Int128 {
	var out Int128
	out.v.SetInt64(i)
	return out
}

// BigInt returns the value as a *big.Int; callers must not mutate the
// result.
func (i Int128) BigInt() *big.Int {
	return new(big.Int).Set(&i.v)
}

// String renders the decimal representation used on the wire.
func (i Int128) String() string {
	return i.v.String()
}

// Int128FromString parses the decimal representation produced by String.
func Int128FromString(s string) (Int128, error) {
	var out Int128
	if _, ok := out.v.SetString(s, 10); !ok {
		return Int128{}, fmt.Errorf("lltrace: invalid Int128 literal %q", s)
	}
	return out, nil
}

// EncodeMsgpack and DecodeMsgpack round-trip Int128 through its decimal
// string form, since its unexported big.Int field has no meaningful
// default msgpack encoding.
func (i Int128) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(i.v.String())
}

func (i *Int128) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	if _, ok := i.v.SetString(s, 10); !ok {
		return fmt.Errorf("lltrace: invalid Int128 literal %q", s)
	}
	return nil
}

// ValueRecord is a snapshot of a runtime value observed by the
// instrumentation frontend. It is a closed variant set: exactly one
// group of fields is meaningful for a given Kind, selected the same
// way vm.Value overlays Int/Bool/H/Loc/Sym for its ValueKind.
type ValueRecord struct {
	Kind   ValueKind
	TypeID TypeID // meaningful for every kind except Cell

	Int   int64   // KindInt
	I128  Int128  // KindInt128
	Float float64 // KindFloat
	Bool  bool    // KindBool
	Text  string  // KindString

	Elements []ValueRecord // KindSequence, KindTuple
	IsSlice  bool          // KindSequence only

	FieldValues []ValueRecord // KindStruct, positional; names come from the Type

	Discriminator string       // KindVariant
	Contents      *ValueRecord // KindVariant

	Dereferenced *ValueRecord // KindReference
	Address      uint64       // KindReference
	Mutable      bool         // KindReference

	Raw string // KindRaw

	ErrorMessage string // KindError

	Place Place // KindCell; the only variant with no TypeID

	BigIntMagnitude []byte // KindBigInt, big-endian unsigned magnitude
	BigIntNegative  bool   // KindBigInt
}

// NoneValue is the reserved None value with the reserved None type,
// mirroring the original tracer's NONE_VALUE constant.
var NoneValue = ValueRecord{Kind: KindNone, TypeID: NoneTypeID}

// IntValue builds a KindInt ValueRecord.
func IntValue(i int64, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindInt, Int: i, TypeID: typeID}
}

// Int128Value builds a KindInt128 ValueRecord.
func Int128Value(i Int128, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindInt128, I128: i, TypeID: typeID}
}

// FloatValue builds a KindFloat ValueRecord.
func FloatValue(f float64, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindFloat, Float: f, TypeID: typeID}
}

// BoolValue builds a KindBool ValueRecord.
func BoolValue(b bool, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindBool, Bool: b, TypeID: typeID}
}

// StringValue builds a KindString ValueRecord.
func StringValue(text string, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindString, Text: text, TypeID: typeID}
}

// SequenceValue builds a KindSequence ValueRecord. isSlice carries no
// replay semantics and is retained verbatim, per the base spec's open
// question on Sequence.IsSlice.
func SequenceValue(elements []ValueRecord, isSlice bool, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindSequence, Elements: elements, IsSlice: isSlice, TypeID: typeID}
}

// TupleValue builds a KindTuple ValueRecord.
func TupleValue(elements []ValueRecord, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindTuple, Elements: elements, TypeID: typeID}
}

// StructValue builds a KindStruct ValueRecord. fieldValues is
// positional; field names come from the referenced Type's
// TypeSpecificInfo.
func StructValue(fieldValues []ValueRecord, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindStruct, FieldValues: fieldValues, TypeID: typeID}
}

// VariantValue builds a KindVariant ValueRecord.
func VariantValue(discriminator string, contents ValueRecord, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindVariant, Discriminator: discriminator, Contents: &contents, TypeID: typeID}
}

// ReferenceValue builds a KindReference ValueRecord.
func ReferenceValue(dereferenced ValueRecord, address uint64, mutable bool, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindReference, Dereferenced: &dereferenced, Address: address, Mutable: mutable, TypeID: typeID}
}

// RawValue builds a KindRaw ValueRecord: an opaque, language-specific
// textual rendering that lltrace does not interpret.
func RawValue(r string, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindRaw, Raw: r, TypeID: typeID}
}

// ErrorValue builds a KindError ValueRecord.
func ErrorValue(msg string, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindError, ErrorMessage: msg, TypeID: typeID}
}

// NoneOfType builds a KindNone ValueRecord carrying a specific type,
// distinct from the reserved NoneValue which always carries NoneTypeID.
func NoneOfType(typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindNone, TypeID: typeID}
}

// CellValue builds a KindCell ValueRecord, a pointer into the place
// table. Unlike every other variant it carries no TypeID: the referent
// type is defined by the CellValue/AssignCell events targeting place.
func CellValue(place Place) ValueRecord {
	return ValueRecord{Kind: KindCell, Place: place}
}

// BigIntValue builds a KindBigInt ValueRecord from an arbitrary
// precision magnitude, supplementing the closed variant set with the
// original tracer's BigInt{b, negative, type_id} variant.
func BigIntValue(magnitude []byte, negative bool, typeID TypeID) ValueRecord {
	return ValueRecord{Kind: KindBigInt, BigIntMagnitude: magnitude, BigIntNegative: negative, TypeID: typeID}
}

// BigIntValueFrom converts a math/big.Int to the wire representation.
func BigIntValueFrom(v *big.Int, typeID TypeID) ValueRecord {
	neg := v.Sign() < 0
	mag := new(big.Int).Abs(v).Bytes()
	return BigIntValue(mag, neg, typeID)
}

// BigInt reconstructs the math/big.Int for a KindBigInt ValueRecord.
func (v ValueRecord) BigInt() *big.Int {
	n := new(big.Int).SetBytes(v.BigIntMagnitude)
	if v.BigIntNegative {
		n.Neg(n)
	}
	return n
}
