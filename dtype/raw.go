package dtype

// Raw is an unprocessed, already-validated text fragment: the parser
// has checked that it is a single well-formed value but has not
// materialized it into a tree. A consumer that knows the target shape
// re-parses it later with Parse (possibly under different options).
type Raw struct {
	text string
}

// NewRaw validates that text is exactly one well-formed value (with
// optional surrounding whitespace) and captures it without building a
// tree. The nesting-depth policy of opts applies during validation.
func NewRaw(text string, opts DecodeOptions) (Raw, error) {
	raw, end, err := CaptureRaw([]byte(text), opts)
	if err != nil {
		return Raw{}, err
	}
	p := &parser{data: []byte(text), pos: end}
	p.skipWhitespace()
	if p.pos < len(text) {
		return Raw{}, p.errorAt(p.pos, ErrSyntax, "trailing content after value")
	}
	return raw, nil
}

// CaptureRaw validates the next value in data without materializing it
// and returns the exact source slice together with the offset just past
// it. Leading whitespace is skipped and excluded from the capture.
func CaptureRaw(data []byte, opts DecodeOptions) (Raw, int, error) {
	opts = normalizeDecodeOptions(opts)
	p := &parser{data: data, opts: opts, guard: newDepthGuard(opts.MaxDepth)}
	p.skipWhitespace()
	start := p.pos
	if err := p.skipValue(); err != nil {
		return Raw{}, 0, err
	}
	return Raw{text: string(data[start:p.pos])}, p.pos, nil
}

// String returns the captured source text.
func (r Raw) String() string { return r.text }

// Bytes returns the captured source text as bytes.
func (r Raw) Bytes() []byte { return []byte(r.text) }

// Parse materializes the fragment into a tree under the given options.
func (r Raw) Parse(opts DecodeOptions) (DType, error) {
	return ParseWithOptions([]byte(r.text), opts)
}

// Value wraps the fragment as a DType for embedding in a tree. Raw
// values serialize verbatim, rank after Object in the total order, and
// compare by their text.
func (r Raw) Value() DType {
	return DType{kind: KindRaw, s: r.text}
}
