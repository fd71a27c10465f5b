package lltrace

import (
	"math/big"
	"testing"
)

func TestInt128StringRoundTrip(t *testing.T) {
	want := new(big.Int)
	want.SetString("170141183460469231731687303715884105727", 10) // max i128
	i := NewInt128(want)

	got, err := Int128FromString(i.String())
	if err != nil {
		t.Fatalf("Int128FromString: %v", err)
	}
	if got.BigInt().Cmp(want) != 0 {
		t.Fatalf("Int128 round trip mismatch: got %s, want %s", got.String(), want.String())
	}
}

func TestBigIntValueRoundTrip(t *testing.T) {
	n := big.NewInt(-123456789)
	v := BigIntValueFrom(n, 7)
	if !v.BigIntNegative {
		t.Fatalf("expected negative flag set")
	}
	got := v.BigInt()
	if got.Cmp(n) != 0 {
		t.Fatalf("BigInt reconstruction mismatch: got %s, want %s", got.String(), n.String())
	}
}

func TestValueKindStringMatchesWireTags(t *testing.T) {
	cases := map[ValueKind]string{
		KindInt: "Int", KindInt128: "Int128", KindFloat: "Float", KindBool: "Bool",
		KindString: "String", KindSequence: "Sequence", KindTuple: "Tuple",
		KindStruct: "Struct", KindVariant: "Variant", KindReference: "Reference",
		KindRaw: "Raw", KindError: "Error", KindNone: "None", KindCell: "Cell",
		KindBigInt: "BigInt",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("ValueKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
