package dtype

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// numberKind identifies the internal representation of a Number.
type numberKind uint8

const (
	// numUint holds integers greater than or equal to zero.
	numUint numberKind = iota
	// numInt holds integers strictly less than zero.
	numInt
	// numFloat holds a finite 64-bit float.
	numFloat
	// numDecimal holds a validated JSON number literal verbatim
	// (arbitrary-precision mode).
	numDecimal
)

// Number represents a numeric value, either integer or floating point,
// or — in arbitrary-precision mode — an exact decimal literal.
//
// Integers are sign-normalized on construction: non-negative values are
// stored unsigned, negative values signed. Floats are always finite.
type Number struct {
	kind numberKind
	u    uint64
	i    int64
	f    float64
	d    string
}

// Int constructs a Number from a signed integer.
func Int(i int64) Number {
	if i < 0 {
		return Number{kind: numInt, i: i}
	}
	return Number{kind: numUint, u: uint64(i)}
}

// Uint constructs a Number from an unsigned integer.
func Uint(u uint64) Number {
	return Number{kind: numUint, u: u}
}

// Float constructs a Number from a finite 64-bit float. NaN and
// infinities are not representable in the text format and are rejected.
func Float(f float64) (Number, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, false
	}
	return Number{kind: numFloat, f: f}, true
}

// ParseDecimal constructs an arbitrary-precision Number from a JSON
// number literal. The literal is captured verbatim and reproduced
// byte-for-byte on output.
func ParseDecimal(literal string) (Number, error) {
	if !isValidNumberLiteral(literal) {
		return Number{}, fmt.Errorf("%w: invalid number literal %q", ErrSyntax, literal)
	}
	return Number{kind: numDecimal, d: literal}, nil
}

// IsInt64 reports whether the Number is an integer between math.MinInt64
// and math.MaxInt64. For any Number on which IsInt64 returns true,
// AsInt64 is guaranteed to return the integer value.
func (n Number) IsInt64() bool {
	switch n.kind {
	case numUint:
		return n.u <= math.MaxInt64
	case numInt:
		return true
	case numDecimal:
		_, ok := n.AsInt64()
		return ok
	default:
		return false
	}
}

// IsUint64 reports whether the Number is an integer between zero and
// math.MaxUint64.
func (n Number) IsUint64() bool {
	switch n.kind {
	case numUint:
		return true
	case numDecimal:
		_, ok := n.AsUint64()
		return ok
	default:
		return false
	}
}

// IsFloat64 reports whether the Number can be represented by a finite
// float64. Integers report false: a number is exactly one of int64,
// uint64 or float64, mirroring how its text form is classified.
func (n Number) IsFloat64() bool {
	switch n.kind {
	case numFloat:
		return true
	case numDecimal:
		if !strings.ContainsAny(n.d, ".eE") {
			return false
		}
		f, err := strconv.ParseFloat(n.d, 64)
		return err == nil && !math.IsInf(f, 0)
	default:
		return false
	}
}

// AsInt64 converts the Number to int64 if it fits losslessly.
func (n Number) AsInt64() (int64, bool) {
	switch n.kind {
	case numUint:
		if n.u <= math.MaxInt64 {
			return int64(n.u), true
		}
		return 0, false
	case numInt:
		return n.i, true
	case numDecimal:
		i, err := strconv.ParseInt(n.d, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// AsUint64 converts the Number to uint64 if it fits losslessly.
func (n Number) AsUint64() (uint64, bool) {
	switch n.kind {
	case numUint:
		return n.u, true
	case numDecimal:
		u, err := strconv.ParseUint(n.d, 10, 64)
		if err != nil {
			return 0, false
		}
		return u, true
	default:
		return 0, false
	}
}

// AsFloat64 converts the Number to float64 if possible. Integers convert
// with the usual float64 rounding; decimal literals convert when the
// result is finite.
func (n Number) AsFloat64() (float64, bool) {
	switch n.kind {
	case numUint:
		return float64(n.u), true
	case numInt:
		return float64(n.i), true
	case numFloat:
		return n.f, true
	default:
		f, err := strconv.ParseFloat(n.d, 64)
		if err != nil || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
}

// Equal reports representation-aware equality: integers compare across
// signed/unsigned construction, but an integer never equals a float of
// the same mathematical value (their text forms differ too). Decimal
// numbers compare by literal byte equality.
func (n Number) Equal(other Number) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case numUint:
		return n.u == other.u
	case numInt:
		return n.i == other.i
	case numFloat:
		return n.f == other.f
	default:
		return n.d == other.d
	}
}

// Compare orders Numbers by mathematical value, with deterministic
// tie-breaks when distinct representations denote the same value:
// integers sort before floats, floats before decimals, and equal-valued
// decimals fall back to literal comparison. Decimal literals beyond
// float64 range saturate for the value comparison, so two such literals
// order by their text rather than their magnitude. The result is -1, 0
// or +1.
func (n Number) Compare(other Number) int {
	if c := n.compareValue(other); c != 0 {
		return c
	}
	if n.classRank() != other.classRank() {
		if n.classRank() < other.classRank() {
			return -1
		}
		return 1
	}
	if n.kind == numDecimal {
		return strings.Compare(n.d, other.d)
	}
	return 0
}

func (n Number) classRank() int {
	switch n.kind {
	case numUint, numInt:
		return 0
	case numFloat:
		return 1
	default:
		return 2
	}
}

func (n Number) compareValue(other Number) int {
	// Exact integer comparison when both sides are integers.
	if n.classRank() == 0 && other.classRank() == 0 {
		switch {
		case n.kind == numInt && other.kind == numUint:
			return -1
		case n.kind == numUint && other.kind == numInt:
			return 1
		case n.kind == numInt:
			return compareOrdered(n.i, other.i)
		default:
			return compareOrdered(n.u, other.u)
		}
	}
	a := n.approx()
	b := other.approx()
	return compareOrdered(a, b)
}

// approx returns a float64 approximation used only for cross-kind
// ordering. Decimal literals beyond float range saturate to ±Inf, which
// still orders correctly against finite values.
func (n Number) approx() float64 {
	switch n.kind {
	case numUint:
		return float64(n.u)
	case numInt:
		return float64(n.i)
	case numFloat:
		return n.f
	default:
		f, _ := strconv.ParseFloat(n.d, 64)
		return f
	}
}

func compareOrdered[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String formats the Number as its JSON text form: minimal-digit
// integers, shortest-round-trip floats, and decimal literals verbatim.
func (n Number) String() string {
	switch n.kind {
	case numUint:
		return strconv.FormatUint(n.u, 10)
	case numInt:
		return strconv.FormatInt(n.i, 10)
	case numFloat:
		return formatFloat(n.f)
	default:
		return n.d
	}
}

// formatFloat produces the shortest decimal representation that
// re-parses to the identical bit pattern. Exponent form is used outside
// [1e-6, 1e21) to match the JSON number style of the text format.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}

// isValidNumberLiteral reports whether s is a complete JSON number
// token: optional minus, integer part with no leading zero (unless the
// part is exactly "0"), optional fraction, optional exponent.
func isValidNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[i] == '-' {
		i++
		if i == len(s) {
			return false
		}
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i == len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i == len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
