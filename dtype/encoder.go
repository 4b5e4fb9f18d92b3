package dtype

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Marshal serializes a value to compact text: no insignificant
// whitespace, with commas and colons immediately adjacent.
func Marshal(v DType) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, DefaultEncodeOptions()).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalString serializes a value to a compact string.
func MarshalString(v DType) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalIndent serializes a value to pretty text using indent as the
// indentation unit, one entry per line.
func MarshalIndent(v DType, indent string) ([]byte, error) {
	var buf bytes.Buffer
	opts := DefaultEncodeOptions()
	opts.Indent = indent
	if err := NewEncoder(&buf, opts).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encoder streams values to an output, writing incrementally so large
// structures never need to be materialized as text before the first
// byte reaches the sink.
type Encoder struct {
	w    io.Writer
	opts EncodeOptions
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer, opts EncodeOptions) *Encoder {
	return &Encoder{w: w, opts: normalizeEncodeOptions(opts)}
}

// Encode writes one value. Recursion into array and object children is
// depth-counted under the same policy as the parser; sink errors are
// reported wrapped in ErrIO.
func (e *Encoder) Encode(v DType) error {
	em := &emitter{w: e.w, opts: e.opts, guard: newDepthGuard(e.opts.MaxDepth)}
	return em.value(v, 0)
}

type emitter struct {
	w     io.Writer
	opts  EncodeOptions
	guard depthGuard
}

func (e *emitter) write(s string) error {
	if _, err := io.WriteString(e.w, s); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func (e *emitter) value(v DType, depth int) error {
	switch v.kind {
	case KindNull:
		return e.write("null")
	case KindBool:
		if v.b {
			return e.write("true")
		}
		return e.write("false")
	case KindNumber:
		return e.write(v.n.String())
	case KindString:
		return e.write(quoteString(v.s, e.opts.EscapeNonASCII))
	case KindRaw:
		// Already-validated fragment, emitted verbatim.
		return e.write(v.s)
	case KindArray:
		return e.array(v.a, depth)
	case KindObject:
		return e.object(v.o, depth)
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrSyntax, v.kind)
	}
}

func (e *emitter) array(elems []DType, depth int) error {
	if err := e.guard.enter(); err != nil {
		return err
	}
	defer e.guard.exit()

	if len(elems) == 0 {
		return e.write("[]")
	}
	if err := e.write("["); err != nil {
		return err
	}
	for i, elem := range elems {
		if i > 0 {
			if err := e.write(","); err != nil {
				return err
			}
		}
		if err := e.newlineIndent(depth + 1); err != nil {
			return err
		}
		if err := e.value(elem, depth+1); err != nil {
			return err
		}
	}
	if err := e.newlineIndent(depth); err != nil {
		return err
	}
	return e.write("]")
}

func (e *emitter) object(m *Map, depth int) error {
	if err := e.guard.enter(); err != nil {
		return err
	}
	defer e.guard.exit()

	if m == nil || m.IsEmpty() {
		return e.write("{}")
	}
	if err := e.write("{"); err != nil {
		return err
	}
	for i, key := range m.Keys() {
		if i > 0 {
			if err := e.write(","); err != nil {
				return err
			}
		}
		if err := e.newlineIndent(depth + 1); err != nil {
			return err
		}
		if err := e.write(quoteString(key, e.opts.EscapeNonASCII)); err != nil {
			return err
		}
		sep := ":"
		if e.opts.Indent != "" {
			sep = ": "
		}
		if err := e.write(sep); err != nil {
			return err
		}
		value, _ := m.Get(key)
		if err := e.value(value, depth+1); err != nil {
			return err
		}
	}
	if err := e.newlineIndent(depth); err != nil {
		return err
	}
	return e.write("}")
}

// newlineIndent emits a newline plus depth indentation units in pretty
// mode, and nothing in compact mode.
func (e *emitter) newlineIndent(depth int) error {
	if e.opts.Indent == "" {
		return nil
	}
	if err := e.write("\n"); err != nil {
		return err
	}
	return e.write(strings.Repeat(e.opts.Indent, depth))
}

// quoteString escapes quote, backslash and control characters, and —
// when escapeNonASCII is set — every character outside ASCII, using
// surrogate pairs for characters beyond the basic plane.
func quoteString(s string, escapeNonASCII bool) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"':
				b.WriteString(`\"`)
			case c == '\\':
				b.WriteString(`\\`)
			case c == '\b':
				b.WriteString(`\b`)
			case c == '\f':
				b.WriteString(`\f`)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			case c < 0x20:
				fmt.Fprintf(&b, `\u%04x`, c)
			default:
				b.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		invalid := r == utf8.RuneError && size == 1
		switch {
		case escapeNonASCII && r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
		case escapeNonASCII || invalid:
			// Invalid UTF-8 bytes become an escaped replacement
			// character rather than raw bytes.
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
	return b.String()
}
