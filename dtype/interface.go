package dtype

import (
	"encoding/json"
	"fmt"
	"math"
)

// FromInterface converts a generic Go value into a DType. It accepts
// the shapes produced by generic JSON decoding (nil, bool, string,
// float64, json.Number, map[string]any, []any) plus Go integer kinds,
// Number, *Map and DType themselves. This is the bridge collaborators
// use to hand documents to libraries that work on generic values.
func FromInterface(v any) (DType, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case DType:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return Str(x), nil
	case Number:
		return Num(x), nil
	case json.Number:
		n, err := ParseDecimal(x.String())
		if err != nil {
			return Null(), err
		}
		return Num(n), nil
	case int:
		return Num(Int(int64(x))), nil
	case int8:
		return Num(Int(int64(x))), nil
	case int16:
		return Num(Int(int64(x))), nil
	case int32:
		return Num(Int(int64(x))), nil
	case int64:
		return Num(Int(x)), nil
	case uint:
		return Num(Uint(uint64(x))), nil
	case uint8:
		return Num(Uint(uint64(x))), nil
	case uint16:
		return Num(Uint(uint64(x))), nil
	case uint32:
		return Num(Uint(uint64(x))), nil
	case uint64:
		return Num(Uint(x)), nil
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	case []any:
		elems := make([]DType, len(x))
		for i, e := range x {
			v, err := FromInterface(e)
			if err != nil {
				return Null(), err
			}
			elems[i] = v
		}
		return Array(elems...), nil
	case map[string]any:
		m := NewMap()
		for k, e := range x {
			v, err := FromInterface(e)
			if err != nil {
				return Null(), err
			}
			m.Set(k, v)
		}
		return Object(m), nil
	case *Map:
		return Object(x), nil
	default:
		return Null(), fmt.Errorf("%w: unsupported Go value %T", ErrSyntax, v)
	}
}

func floatValue(f float64) (DType, error) {
	n, ok := Float(f)
	if !ok {
		return Null(), fmt.Errorf("%w: non-finite float %v", ErrNumberOutOfRange, f)
	}
	return Num(n), nil
}

// Interface converts the value to the generic Go shape (nil, bool,
// string, int64/uint64/float64, []any, map[string]any). Object key
// order is not represented in map[string]any. Decimal numbers convert
// to float64 when finite and to their literal string otherwise. Raw
// fragments are materialized with default options, or returned as their
// source text if they fail to re-parse.
func (d DType) Interface() any {
	switch d.kind {
	case KindNull:
		return nil
	case KindBool:
		return d.b
	case KindString:
		return d.s
	case KindNumber:
		n := d.n
		switch n.kind {
		case numUint:
			if n.u <= math.MaxInt64 {
				return int64(n.u)
			}
			return n.u
		case numInt:
			return n.i
		case numFloat:
			return n.f
		default:
			if f, ok := n.AsFloat64(); ok {
				return f
			}
			return n.d
		}
	case KindArray:
		elems := make([]any, len(d.a))
		for i, e := range d.a {
			elems[i] = e.Interface()
		}
		return elems
	case KindObject:
		m := make(map[string]any, d.o.Len())
		d.o.Range(func(k string, v DType) bool {
			m[k] = v.Interface()
			return true
		})
		return m
	case KindRaw:
		v, err := Parse([]byte(d.s))
		if err != nil {
			return d.s
		}
		return v.Interface()
	default:
		return nil
	}
}
