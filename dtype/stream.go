package dtype

import (
	"fmt"
	"io"
)

// Decoder reads a stream of concatenated top-level values from an
// io.Reader, in the pull style: each Next call parses exactly one value
// and returns io.EOF once the input is exhausted. The underlying cursor
// advances monotonically; consumed values are not re-yielded.
//
// The input is buffered in full on first use, so the Decoder is meant
// for bounded inputs, matching the engine's resource model.
type Decoder struct {
	r    io.Reader
	opts DecodeOptions
	buf  []byte
	pos  int
	read bool
	err  error
}

// NewDecoder creates a Decoder over r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	options := DefaultDecodeOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Decoder{r: r, opts: normalizeDecodeOptions(options)}
}

// NewDecoderWithOptions creates a Decoder over r with an options struct.
func NewDecoderWithOptions(r io.Reader, opts DecodeOptions) *Decoder {
	return &Decoder{r: r, opts: normalizeDecodeOptions(opts)}
}

func (d *Decoder) load() error {
	if d.err != nil {
		return d.err
	}
	if d.read {
		return nil
	}
	d.read = true
	buf, err := io.ReadAll(d.r)
	if err != nil {
		d.err = fmt.Errorf("%w: %w", ErrIO, err)
		return d.err
	}
	d.buf = buf
	return nil
}

// Next parses and returns the next top-level value. It returns io.EOF
// when only whitespace remains. Parse errors are sticky: after a
// failure every subsequent call returns the same error.
func (d *Decoder) Next() (DType, error) {
	if err := d.load(); err != nil {
		return Null(), err
	}
	p := d.parser()
	p.skipWhitespace()
	if p.pos >= len(d.buf) {
		d.pos = p.pos
		return Null(), io.EOF
	}
	v, err := p.parseValue()
	if err != nil {
		d.err = err
		return Null(), err
	}
	d.pos = p.pos
	return v, nil
}

// NextRaw validates and captures the next top-level value without
// materializing it, for deferred re-parsing.
func (d *Decoder) NextRaw() (Raw, error) {
	if err := d.load(); err != nil {
		return Raw{}, err
	}
	p := d.parser()
	p.skipWhitespace()
	if p.pos >= len(d.buf) {
		d.pos = p.pos
		return Raw{}, io.EOF
	}
	start := p.pos
	if err := p.skipValue(); err != nil {
		d.err = err
		return Raw{}, err
	}
	d.pos = p.pos
	return Raw{text: string(d.buf[start:p.pos])}, nil
}

// Err returns the sticky error, if any.
func (d *Decoder) Err() error { return d.err }

// InputOffset returns the byte offset just past the last consumed value.
func (d *Decoder) InputOffset() int64 { return int64(d.pos) }

func (d *Decoder) parser() *parser {
	return &parser{
		data:  d.buf,
		pos:   d.pos,
		opts:  d.opts,
		guard: newDepthGuard(d.opts.MaxDepth),
	}
}
