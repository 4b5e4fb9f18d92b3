package dtype

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Unicode surrogate pair constants
const (
	surrogateHighStart = 0xD800
	surrogateHighEnd   = 0xDBFF
	surrogateLowStart  = 0xDC00
	surrogateLowEnd    = 0xDFFF
)

// Parse parses a single value from data using default options. Trailing
// non-whitespace content after the value is an error; use a Decoder for
// streams of concatenated top-level values.
func Parse(data []byte) (DType, error) {
	return ParseWithOptions(data, DefaultDecodeOptions())
}

// ParseString parses a single value from a string using default options.
func ParseString(s string) (DType, error) {
	return ParseWithOptions([]byte(s), DefaultDecodeOptions())
}

// ParseWithOptions parses a single value from data. A failed parse
// yields no tree: the returned value is Null whenever err is non-nil.
func ParseWithOptions(data []byte, opts DecodeOptions) (DType, error) {
	opts = normalizeDecodeOptions(opts)
	p := &parser{data: data, opts: opts, guard: newDepthGuard(opts.MaxDepth)}
	v, err := p.parseValue()
	if err != nil {
		return Null(), err
	}
	p.skipWhitespace()
	if p.pos < len(p.data) {
		return Null(), p.errorAt(p.pos, ErrSyntax, "trailing content after value")
	}
	return v, nil
}

// parser is a recursive-descent state machine over a byte cursor with
// one byte of lookahead.
type parser struct {
	data  []byte
	pos   int
	opts  DecodeOptions
	guard depthGuard
}

func (p *parser) errorAt(offset int, sentinel error, msg string) error {
	err := sentinel
	if msg != "" {
		err = fmt.Errorf("%w: %s", sentinel, msg)
	}
	return wrapParseError(p.data, offset, err)
}

func (p *parser) unexpectedEnd() error {
	return p.errorAt(len(p.data), ErrUnexpectedEnd, "")
}

func (p *parser) checkContext() error {
	ctx := p.opts.Context
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (DType, error) {
	if err := p.checkContext(); err != nil {
		return Null(), err
	}
	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return Null(), p.unexpectedEnd()
	}
	switch c := p.data[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		p.pos++
		s, err := p.parseStringBody()
		if err != nil {
			return Null(), err
		}
		return Str(s), nil
	case c == 't':
		return Bool(true), p.literal("true")
	case c == 'f':
		return Bool(false), p.literal("false")
	case c == 'n':
		return Null(), p.literal("null")
	case c == '-' || isDigit(c):
		n, err := p.parseNumber()
		if err != nil {
			return Null(), err
		}
		return Num(n), nil
	default:
		return Null(), p.errorAt(p.pos, ErrSyntax, fmt.Sprintf("unexpected character %q", c))
	}
}

func (p *parser) literal(lit string) error {
	rest := p.data[p.pos:]
	if len(rest) < len(lit) {
		if bytes.HasPrefix([]byte(lit), rest) {
			return p.unexpectedEnd()
		}
		return p.errorAt(p.pos, ErrSyntax, "invalid literal")
	}
	if !bytes.HasPrefix(rest, []byte(lit)) {
		return p.errorAt(p.pos, ErrSyntax, "invalid literal")
	}
	p.pos += len(lit)
	return nil
}

func (p *parser) parseArray() (DType, error) {
	open := p.pos
	p.pos++ // consume '['
	if err := p.guard.enter(); err != nil {
		return Null(), p.errorAt(open, err, "")
	}
	defer p.guard.exit()

	var elems []DType
	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == ']' {
		p.pos++
		return Array(), nil
	}
	for {
		elem, err := p.parseValue()
		if err != nil {
			return Null(), err
		}
		elems = append(elems, elem)
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Null(), p.unexpectedEnd()
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return Array(elems...), nil
		default:
			return Null(), p.errorAt(p.pos, ErrSyntax, "expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseObject() (DType, error) {
	open := p.pos
	p.pos++ // consume '{'
	if err := p.guard.enter(); err != nil {
		return Null(), p.errorAt(open, err, "")
	}
	defer p.guard.exit()

	m := newMapWith(p.opts.PreserveOrder)
	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == '}' {
		p.pos++
		return Object(m), nil
	}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Null(), p.unexpectedEnd()
		}
		if p.data[p.pos] != '"' {
			return Null(), p.errorAt(p.pos, ErrSyntax, "expected object key")
		}
		p.pos++
		key, err := p.parseStringBody()
		if err != nil {
			return Null(), err
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Null(), p.unexpectedEnd()
		}
		if p.data[p.pos] != ':' {
			return Null(), p.errorAt(p.pos, ErrSyntax, "expected ':' after object key")
		}
		p.pos++
		value, err := p.parseValue()
		if err != nil {
			return Null(), err
		}
		// Last write wins on duplicate keys; the ordered backend keeps
		// the position of the first occurrence.
		m.Set(key, value)
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Null(), p.unexpectedEnd()
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return Object(m), nil
		default:
			return Null(), p.errorAt(p.pos, ErrSyntax, "expected ',' or '}' in object")
		}
	}
}

// parseStringBody decodes a string after the opening quote has been
// consumed: standard escapes, \uXXXX with surrogate pairs, validated
// UTF-8 passthrough. Unescaped control characters and malformed UTF-8
// are rejected.
func (p *parser) parseStringBody() (string, error) {
	var builder strings.Builder
	for {
		if p.pos >= len(p.data) {
			return "", p.unexpectedEnd()
		}
		c := p.data[p.pos]
		switch {
		case c == '"':
			p.pos++
			return builder.String(), nil
		case c == '\\':
			if err := p.parseEscape(&builder); err != nil {
				return "", err
			}
		case c < 0x20:
			return "", p.errorAt(p.pos, ErrSyntax, "unescaped control character in string")
		case c < utf8.RuneSelf:
			builder.WriteByte(c)
			p.pos++
		default:
			r, size := utf8.DecodeRune(p.data[p.pos:])
			if r == utf8.RuneError && size == 1 {
				return "", p.errorAt(p.pos, ErrSyntax, "invalid UTF-8 sequence in string")
			}
			builder.Write(p.data[p.pos : p.pos+size])
			p.pos += size
		}
	}
}

func (p *parser) parseEscape(builder *strings.Builder) error {
	start := p.pos
	p.pos++ // consume '\'
	if p.pos >= len(p.data) {
		return p.unexpectedEnd()
	}
	c := p.data[p.pos]
	p.pos++
	switch c {
	case '"':
		builder.WriteByte('"')
	case '\\':
		builder.WriteByte('\\')
	case '/':
		builder.WriteByte('/')
	case 'b':
		builder.WriteByte('\b')
	case 'f':
		builder.WriteByte('\f')
	case 'n':
		builder.WriteByte('\n')
	case 'r':
		builder.WriteByte('\r')
	case 't':
		builder.WriteByte('\t')
	case 'u':
		first, err := p.readHex4(start)
		if err != nil {
			return err
		}
		if first >= surrogateLowStart && first <= surrogateLowEnd {
			return p.errorAt(start, ErrInvalidEscape, "unpaired low surrogate")
		}
		if first >= surrogateHighStart && first <= surrogateHighEnd {
			if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
				return p.errorAt(start, ErrInvalidEscape, "unpaired high surrogate")
			}
			p.pos += 2
			second, err := p.readHex4(start)
			if err != nil {
				return err
			}
			if second < surrogateLowStart || second > surrogateLowEnd {
				return p.errorAt(start, ErrInvalidEscape, "invalid low surrogate")
			}
			builder.WriteRune(utf16.DecodeRune(first, second))
			return nil
		}
		builder.WriteRune(first)
	default:
		return p.errorAt(start, ErrInvalidEscape, fmt.Sprintf("unknown escape \\%c", c))
	}
	return nil
}

func (p *parser) readHex4(escStart int) (rune, error) {
	if p.pos+4 > len(p.data) {
		return 0, p.unexpectedEnd()
	}
	var codePoint rune
	for i := 0; i < 4; i++ {
		digit, ok := parseHexDigit(p.data[p.pos+i])
		if !ok {
			return 0, p.errorAt(escStart, ErrInvalidEscape, "invalid hex digit in \\u escape")
		}
		codePoint = codePoint*16 + rune(digit)
	}
	p.pos += 4
	return codePoint, nil
}

// parseHexDigit converts a single hex digit byte to its integer value.
func parseHexDigit(hex byte) (int, bool) {
	switch {
	case hex >= '0' && hex <= '9':
		return int(hex - '0'), true
	case hex >= 'a' && hex <= 'f':
		return int(hex-'a') + 10, true
	case hex >= 'A' && hex <= 'F':
		return int(hex-'A') + 10, true
	default:
		return 0, false
	}
}

// parseNumber scans a number token and classifies it. Default mode
// selects the narrowest of uint64, int64 and float64, falling back to
// float for fraction/exponent/overflow; arbitrary-precision mode
// captures the validated token verbatim.
func (p *parser) parseNumber() (Number, error) {
	start := p.pos
	lit, isInt, err := p.scanNumberToken()
	if err != nil {
		return Number{}, err
	}
	if p.opts.ArbitraryPrecision {
		return Number{kind: numDecimal, d: string(lit)}, nil
	}
	if isInt {
		if lit[0] == '-' {
			i, err := strconv.ParseInt(string(lit), 10, 64)
			if err == nil {
				// "-0" denotes negative zero, only representable as a float.
				if i == 0 {
					return Number{kind: numFloat, f: math.Copysign(0, -1)}, nil
				}
				return Int(i), nil
			}
		} else {
			u, err := strconv.ParseUint(string(lit), 10, 64)
			if err == nil {
				return Uint(u), nil
			}
		}
	}
	f, _ := strconv.ParseFloat(string(lit), 64)
	if math.IsInf(f, 0) {
		return Number{}, p.errorAt(start, ErrNumberOutOfRange, "")
	}
	return Number{kind: numFloat, f: f}, nil
}

// scanNumberToken validates the number grammar: optional minus, integer
// part with no leading zero, optional fraction, optional exponent.
func (p *parser) scanNumberToken() ([]byte, bool, error) {
	start := p.pos
	isInt := true
	if p.data[p.pos] == '-' {
		p.pos++
		if p.pos >= len(p.data) {
			return nil, false, p.unexpectedEnd()
		}
	}
	switch {
	case p.data[p.pos] == '0':
		p.pos++
		if p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			return nil, false, p.errorAt(p.pos, ErrSyntax, "leading zero in number")
		}
	case isDigit(p.data[p.pos]):
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	default:
		return nil, false, p.errorAt(p.pos, ErrSyntax, "invalid number")
	}
	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		isInt = false
		p.pos++
		if p.pos >= len(p.data) {
			return nil, false, p.unexpectedEnd()
		}
		if !isDigit(p.data[p.pos]) {
			return nil, false, p.errorAt(p.pos, ErrSyntax, "expected digit after decimal point")
		}
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		isInt = false
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		if p.pos >= len(p.data) {
			return nil, false, p.unexpectedEnd()
		}
		if !isDigit(p.data[p.pos]) {
			return nil, false, p.errorAt(p.pos, ErrSyntax, "expected digit in exponent")
		}
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}
	return p.data[start:p.pos], isInt, nil
}

// skipValue validates the next value without materializing a tree. The
// depth policy applies exactly as in parseValue.
func (p *parser) skipValue() error {
	if err := p.checkContext(); err != nil {
		return err
	}
	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return p.unexpectedEnd()
	}
	switch c := p.data[p.pos]; {
	case c == '{':
		return p.skipObject()
	case c == '[':
		return p.skipArray()
	case c == '"':
		p.pos++
		_, err := p.parseStringBody()
		return err
	case c == 't':
		return p.literal("true")
	case c == 'f':
		return p.literal("false")
	case c == 'n':
		return p.literal("null")
	case c == '-' || isDigit(c):
		_, _, err := p.scanNumberToken()
		return err
	default:
		return p.errorAt(p.pos, ErrSyntax, fmt.Sprintf("unexpected character %q", c))
	}
}

func (p *parser) skipArray() error {
	open := p.pos
	p.pos++
	if err := p.guard.enter(); err != nil {
		return p.errorAt(open, err, "")
	}
	defer p.guard.exit()

	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == ']' {
		p.pos++
		return nil
	}
	for {
		if err := p.skipValue(); err != nil {
			return err
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return p.unexpectedEnd()
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return nil
		default:
			return p.errorAt(p.pos, ErrSyntax, "expected ',' or ']' in array")
		}
	}
}

func (p *parser) skipObject() error {
	open := p.pos
	p.pos++
	if err := p.guard.enter(); err != nil {
		return p.errorAt(open, err, "")
	}
	defer p.guard.exit()

	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == '}' {
		p.pos++
		return nil
	}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return p.unexpectedEnd()
		}
		if p.data[p.pos] != '"' {
			return p.errorAt(p.pos, ErrSyntax, "expected object key")
		}
		p.pos++
		if _, err := p.parseStringBody(); err != nil {
			return err
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return p.unexpectedEnd()
		}
		if p.data[p.pos] != ':' {
			return p.errorAt(p.pos, ErrSyntax, "expected ':' after object key")
		}
		p.pos++
		if err := p.skipValue(); err != nil {
			return err
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return p.unexpectedEnd()
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return nil
		default:
			return p.errorAt(p.pos, ErrSyntax, "expected ',' or '}' in object")
		}
	}
}
