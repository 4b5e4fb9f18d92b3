package dtype

import (
	"math"
	"strconv"
	"testing"
)

func TestNumberConstructorsAndQueries(t *testing.T) {
	n := Int(65)
	if !n.IsInt64() || !n.IsUint64() || n.IsFloat64() {
		t.Fatalf("unexpected classification for 65: %v", n)
	}
	if v, ok := n.AsInt64(); !ok || v != 65 {
		t.Fatalf("AsInt64(65) = %d, %v", v, ok)
	}
	if v, ok := n.AsUint64(); !ok || v != 65 {
		t.Fatalf("AsUint64(65) = %d, %v", v, ok)
	}

	neg := Int(-65)
	if !neg.IsInt64() || neg.IsUint64() {
		t.Fatalf("unexpected classification for -65: %v", neg)
	}
	if _, ok := neg.AsUint64(); ok {
		t.Fatal("AsUint64(-65) should fail")
	}

	big := Uint(math.MaxInt64 + 10)
	if big.IsInt64() {
		t.Fatal("value above MaxInt64 must not report IsInt64")
	}
	if _, ok := big.AsInt64(); ok {
		t.Fatal("AsInt64 above MaxInt64 should fail")
	}
	if v, ok := big.AsUint64(); !ok || v != math.MaxInt64+10 {
		t.Fatalf("AsUint64 = %d, %v", v, ok)
	}

	f, ok := Float(256.0)
	if !ok {
		t.Fatal("Float(256.0) rejected")
	}
	if !f.IsFloat64() || f.IsInt64() || f.IsUint64() {
		t.Fatalf("unexpected classification for 256.0: %v", f)
	}
	if v, ok := f.AsFloat64(); !ok || v != 256.0 {
		t.Fatalf("AsFloat64 = %v, %v", v, ok)
	}
	// Integers still convert to float64 with the usual rounding.
	if v, ok := Int(65).AsFloat64(); !ok || v != 65.0 {
		t.Fatalf("Int.AsFloat64 = %v, %v", v, ok)
	}
}

func TestNumberRejectsNonFinite(t *testing.T) {
	if _, ok := Float(math.NaN()); ok {
		t.Fatal("NaN must be rejected at construction")
	}
	if _, ok := Float(math.Inf(1)); ok {
		t.Fatal("+Inf must be rejected at construction")
	}
	if _, ok := Float(math.Inf(-1)); ok {
		t.Fatal("-Inf must be rejected at construction")
	}
}

func TestNumberEqualityPolicy(t *testing.T) {
	// Sign normalization: a non-negative int64 and the same uint64 are
	// the same representation.
	if !Int(3).Equal(Uint(3)) {
		t.Fatal("Int(3) and Uint(3) must be equal")
	}
	// Representation-aware: integer 3 and float 3.0 differ, as do their
	// text forms.
	three, _ := Float(3.0)
	if Int(3).Equal(three) {
		t.Fatal("Int(3) must not equal Float(3.0)")
	}
	// Decimals compare by literal.
	a, err := ParseDecimal("1.50")
	if err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}
	b, err := ParseDecimal("1.5")
	if err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}
	if a.Equal(b) {
		t.Fatal("decimal literals 1.50 and 1.5 must not be equal")
	}
}

func TestNumberCompare(t *testing.T) {
	two5, _ := Float(2.5)
	three, _ := Float(3.0)
	dec3, _ := ParseDecimal("3")

	cases := []struct {
		a, b Number
		want int
	}{
		{Int(-1), Uint(0), -1},
		{Uint(0), Int(-1), 1},
		{Int(2), two5, -1},
		{two5, Int(3), -1},
		{Int(3), Int(3), 0},
		{Int(3), three, -1},  // equal value: integer sorts first
		{Int(3), dec3, -1},   // equal value: integer before decimal
		{three, dec3, -1},    // equal value: float before decimal
		{Uint(math.MaxUint64), Int(math.MaxInt64), 1},
	}
	for i, tc := range cases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Fatalf("case %d: Compare(%v, %v) = %d, want %d", i, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNumberFormatting(t *testing.T) {
	cases := []struct {
		n    Number
		want string
	}{
		{Int(0), "0"},
		{Int(-42), "-42"},
		{Uint(math.MaxUint64), "18446744073709551615"},
		{mustFloat(t, 2.5), "2.5"},
		{mustFloat(t, 1e21), "1e+21"},
		{mustFloat(t, 1e-7), "1e-7"},
		{mustFloat(t, 0.1), "0.1"},
	}
	for _, tc := range cases {
		if got := tc.n.String(); got != tc.want {
			t.Fatalf("String(%v) = %q, want %q", tc.n, got, tc.want)
		}
	}

	dec, err := ParseDecimal("123456789012345678901234567890.123")
	if err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}
	if got := dec.String(); got != "123456789012345678901234567890.123" {
		t.Fatalf("decimal not byte-for-byte: %q", got)
	}
}

func TestFloatFormattingRoundTrips(t *testing.T) {
	floats := []float64{
		0, math.Copysign(0, -1), 0.1, 2.5, 1.0 / 3.0, 1e21, 1e-7,
		math.MaxFloat64, math.SmallestNonzeroFloat64, -123456.789e12,
	}
	for _, f := range floats {
		s := formatFloat(f)
		back, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("re-parse %q: %v", s, err)
		}
		if math.Float64bits(back) != math.Float64bits(f) {
			t.Fatalf("%v formatted as %q re-parses to %v", f, s, back)
		}
	}
}

func TestParseDecimalValidation(t *testing.T) {
	valid := []string{"0", "-0", "1", "-1.5", "1e10", "1E+10", "0.001", "123e-45"}
	for _, lit := range valid {
		if _, err := ParseDecimal(lit); err != nil {
			t.Fatalf("ParseDecimal(%q) failed: %v", lit, err)
		}
	}
	invalid := []string{"", "-", "01", "1.", ".5", "1e", "1e+", "+1", "0x10", "1 "}
	for _, lit := range invalid {
		if _, err := ParseDecimal(lit); err == nil {
			t.Fatalf("ParseDecimal(%q) should fail", lit)
		}
	}
}

func TestDecimalConversions(t *testing.T) {
	dec, err := ParseDecimal("18446744073709551615")
	if err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}
	if v, ok := dec.AsUint64(); !ok || v != math.MaxUint64 {
		t.Fatalf("AsUint64 = %d, %v", v, ok)
	}
	if _, ok := dec.AsInt64(); ok {
		t.Fatal("MaxUint64 decimal must not fit int64")
	}

	huge, err := ParseDecimal("1e999")
	if err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}
	if _, ok := huge.AsFloat64(); ok {
		t.Fatal("1e999 must not convert to a finite float64")
	}
}

func mustFloat(t *testing.T, f float64) Number {
	t.Helper()
	n, ok := Float(f)
	if !ok {
		t.Fatalf("Float(%v) rejected", f)
	}
	return n
}
