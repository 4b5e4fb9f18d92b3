package dtype

import (
	"strconv"
	"strings"
)

// Kind identifies DType variants.
type Kind uint8

const (
	// KindNull represents the null value.
	KindNull Kind = iota
	// KindBool represents a boolean value.
	KindBool
	// KindNumber represents a numeric value.
	KindNumber
	// KindString represents a string value.
	KindString
	// KindArray represents an ordered sequence of values.
	KindArray
	// KindObject represents a keyed collection of values.
	KindObject
	// KindRaw represents an unprocessed, already-validated text
	// fragment (raw-passthrough mode only).
	KindRaw
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// DType represents the various types which data in the sage knowledge
// graph can be represented as: Null, Bool, Number, String, Array and
// Object, plus Raw fragments when raw passthrough is requested.
//
// A DType exclusively owns its children; trees are acyclic by
// construction. The zero value is Null. A constructed tree is
// immutable-by-convention: concurrent readers are safe, concurrent
// mutation is the owner's responsibility.
type DType struct {
	kind Kind
	b    bool
	n    Number
	s    string
	a    []DType
	o    *Map
}

// Null returns the null value.
func Null() DType {
	return DType{}
}

// Bool returns a boolean value.
func Bool(b bool) DType {
	return DType{kind: KindBool, b: b}
}

// Num returns a numeric value.
func Num(n Number) DType {
	return DType{kind: KindNumber, n: n}
}

// Str returns a string value.
func Str(s string) DType {
	return DType{kind: KindString, s: s}
}

// Array returns an array value holding the given elements.
func Array(elems ...DType) DType {
	if elems == nil {
		elems = []DType{}
	}
	return DType{kind: KindArray, a: elems}
}

// Object returns an object value backed by m. A nil map yields an empty
// hash-backed object.
func Object(m *Map) DType {
	if m == nil {
		m = NewMap()
	}
	return DType{kind: KindObject, o: m}
}

// Kind returns the variant of the value.
func (d DType) Kind() Kind { return d.kind }

// IsNull reports whether the value is Null.
func (d DType) IsNull() bool { return d.kind == KindNull }

// IsBool reports whether the value is a Bool.
func (d DType) IsBool() bool { return d.kind == KindBool }

// IsNumber reports whether the value is a Number.
func (d DType) IsNumber() bool { return d.kind == KindNumber }

// IsString reports whether the value is a String.
func (d DType) IsString() bool { return d.kind == KindString }

// IsArray reports whether the value is an Array.
func (d DType) IsArray() bool { return d.kind == KindArray }

// IsObject reports whether the value is an Object.
func (d DType) IsObject() bool { return d.kind == KindObject }

// IsRaw reports whether the value is a Raw fragment.
func (d DType) IsRaw() bool { return d.kind == KindRaw }

// AsBool returns the boolean payload if the value is a Bool.
func (d DType) AsBool() (bool, bool) {
	if d.kind != KindBool {
		return false, false
	}
	return d.b, true
}

// AsNumber returns the numeric payload if the value is a Number.
func (d DType) AsNumber() (Number, bool) {
	if d.kind != KindNumber {
		return Number{}, false
	}
	return d.n, true
}

// AsInt64 returns the value as int64 if it is a Number that fits.
func (d DType) AsInt64() (int64, bool) {
	if d.kind != KindNumber {
		return 0, false
	}
	return d.n.AsInt64()
}

// AsUint64 returns the value as uint64 if it is a Number that fits.
func (d DType) AsUint64() (uint64, bool) {
	if d.kind != KindNumber {
		return 0, false
	}
	return d.n.AsUint64()
}

// AsFloat64 returns the value as float64 if it is a Number.
func (d DType) AsFloat64() (float64, bool) {
	if d.kind != KindNumber {
		return 0, false
	}
	return d.n.AsFloat64()
}

// AsString returns the string payload if the value is a String.
func (d DType) AsString() (string, bool) {
	if d.kind != KindString {
		return "", false
	}
	return d.s, true
}

// AsArray returns the element slice if the value is an Array.
func (d DType) AsArray() ([]DType, bool) {
	if d.kind != KindArray {
		return nil, false
	}
	return d.a, true
}

// AsObject returns the backing Map if the value is an Object.
func (d DType) AsObject() (*Map, bool) {
	if d.kind != KindObject {
		return nil, false
	}
	return d.o, true
}

// AsRaw returns the raw fragment if the value is Raw.
func (d DType) AsRaw() (Raw, bool) {
	if d.kind != KindRaw {
		return Raw{}, false
	}
	return Raw{text: d.s}, true
}

// Get descends through nested arrays and objects by a sequence of
// string keys and int indices, short-circuiting to absence at the first
// missing segment or variant mismatch.
func (d DType) Get(path ...any) (DType, bool) {
	cur := d
	for _, seg := range path {
		switch s := seg.(type) {
		case string:
			if cur.kind != KindObject {
				return Null(), false
			}
			v, ok := cur.o.Get(s)
			if !ok {
				return Null(), false
			}
			cur = v
		case int:
			if cur.kind != KindArray || s < 0 || s >= len(cur.a) {
				return Null(), false
			}
			cur = cur.a[s]
		default:
			return Null(), false
		}
	}
	return cur, true
}

// Pointer looks up a value by an RFC 6901 JSON Pointer. Inside
// reference tokens "~1" decodes to "/" and "~0" to "~". The empty
// pointer addresses the value itself.
func (d DType) Pointer(pointer string) (DType, bool) {
	if pointer == "" {
		return d, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return Null(), false
	}
	cur := d
	for _, token := range strings.Split(pointer, "/")[1:] {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		switch cur.kind {
		case KindObject:
			v, ok := cur.o.Get(token)
			if !ok {
				return Null(), false
			}
			cur = v
		case KindArray:
			idx, ok := parsePointerIndex(token)
			if !ok || idx >= len(cur.a) {
				return Null(), false
			}
			cur = cur.a[idx]
		default:
			return Null(), false
		}
	}
	return cur, true
}

func parsePointerIndex(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	if strings.HasPrefix(token, "0") && len(token) != 1 {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if !isDigit(token[i]) {
			return 0, false
		}
	}
	// Tokens beyond the int range cannot address any element; they
	// report absence rather than wrapping.
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// Take returns the value, leaving Null in its place.
func (d *DType) Take() DType {
	v := *d
	*d = Null()
	return v
}

// Equal reports structural equality: arrays compare pairwise in order,
// objects compare by key set independent of physical storage order,
// numbers per Number.Equal, raw fragments by text.
func (d DType) Equal(other DType) bool {
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case KindNull:
		return true
	case KindBool:
		return d.b == other.b
	case KindNumber:
		return d.n.Equal(other.n)
	case KindString, KindRaw:
		return d.s == other.s
	case KindArray:
		if len(d.a) != len(other.a) {
			return false
		}
		for i := range d.a {
			if !d.a[i].Equal(other.a[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if d.o.Len() != other.o.Len() {
			return false
		}
		equal := true
		d.o.Range(func(k string, v DType) bool {
			ov, ok := other.o.Get(k)
			if !ok || !v.Equal(ov) {
				equal = false
				return false
			}
			return true
		})
		return equal
	default:
		return false
	}
}

// Compare defines a total, deterministic ordering usable for sorting and
// deduplication: variant rank (Null < Bool < Number < String < Array <
// Object < Raw), then payload. Objects compare by sorted key list, then
// by the values of those keys, so the ordering is independent of
// backend iteration order. The result is -1, 0 or +1.
func (d DType) Compare(other DType) int {
	if d.kind != other.kind {
		if d.kind < other.kind {
			return -1
		}
		return 1
	}
	switch d.kind {
	case KindNull:
		return 0
	case KindBool:
		switch {
		case d.b == other.b:
			return 0
		case !d.b:
			return -1
		default:
			return 1
		}
	case KindNumber:
		return d.n.Compare(other.n)
	case KindString, KindRaw:
		return strings.Compare(d.s, other.s)
	case KindArray:
		for i := 0; i < len(d.a) && i < len(other.a); i++ {
			if c := d.a[i].Compare(other.a[i]); c != 0 {
				return c
			}
		}
		return compareOrdered(int64(len(d.a)), int64(len(other.a)))
	case KindObject:
		ak := sortedKeys(d.o)
		bk := sortedKeys(other.o)
		for i := 0; i < len(ak) && i < len(bk); i++ {
			if c := strings.Compare(ak[i], bk[i]); c != 0 {
				return c
			}
		}
		if c := compareOrdered(int64(len(ak)), int64(len(bk))); c != 0 {
			return c
		}
		for _, k := range ak {
			av, _ := d.o.Get(k)
			bv, _ := other.o.Get(k)
			if c := av.Compare(bv); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 0
	}
}

// String returns the compact text form of the value, or the variant
// name if the value cannot be serialized (for example a tree deeper
// than the default limit).
func (d DType) String() string {
	s, err := MarshalString(d)
	if err != nil {
		return d.kind.String()
	}
	return s
}
