package dtype

import (
	"bytes"
	"errors"
	"testing"
)

func TestMarshalCompact(t *testing.T) {
	v := mustParse(t, `[1, 2.5, "x", {"k": null}, [true, false]]`)
	out, err := MarshalString(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if out != `[1,2.5,"x",{"k":null},[true,false]]` {
		t.Fatalf("compact output = %q", out)
	}
}

func TestMarshalIndent(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":[true,null],"c":{}}`)
	out, err := MarshalIndent(v, "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := "{\n" +
		"  \"a\": 1,\n" +
		"  \"b\": [\n" +
		"    true,\n" +
		"    null\n" +
		"  ],\n" +
		"  \"c\": {}\n" +
		"}"
	if string(out) != want {
		t.Fatalf("pretty output:\n%s\nwant:\n%s", out, want)
	}
}

func TestMarshalEmptyContainers(t *testing.T) {
	for _, tc := range []struct {
		v    DType
		want string
	}{
		{Array(), "[]"},
		{Object(nil), "{}"},
	} {
		out, err := MarshalString(tc.v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if out != tc.want {
			t.Fatalf("compact = %q, want %q", out, tc.want)
		}
		pretty, err := MarshalIndent(tc.v, "  ")
		if err != nil {
			t.Fatalf("marshal indent: %v", err)
		}
		if string(pretty) != tc.want {
			t.Fatalf("pretty = %q, want %q", pretty, tc.want)
		}
	}
}

func TestStringEscaping(t *testing.T) {
	out, err := MarshalString(Str("\" \\ \b \f \n \r \t"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if out != `"\" \\ \b \f \n \r \t"` {
		t.Fatalf("escaped output = %q", out)
	}

	// Other control characters use the hex escape form.
	out, _ = MarshalString(Str("\x01"))
	if out != "\"\\u0001\"" {
		t.Fatalf("control escape = %q", out)
	}

	// Non-ASCII passes through untouched by default.
	out, _ = MarshalString(Str("héllo"))
	if out != `"héllo"` {
		t.Fatalf("non-ASCII output = %q", out)
	}
}

func TestEscapeNonASCII(t *testing.T) {
	opts := DefaultEncodeOptions()
	opts.EscapeNonASCII = true

	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts).Encode(Str("é")); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.String() != "\"\\u00e9\"" {
		t.Fatalf("escaped = %q", buf.String())
	}

	// Characters beyond the basic plane become surrogate pairs.
	buf.Reset()
	if err := NewEncoder(&buf, opts).Encode(Str("😀")); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.String() != "\"\\ud83d\\ude00\"" {
		t.Fatalf("escaped = %q", buf.String())
	}
}

func TestInvalidUTF8Escaped(t *testing.T) {
	out, err := MarshalString(Str("a\xffb"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if out != "\"a\\ufffdb\"" {
		t.Fatalf("invalid byte serialized as %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestEncodeSinkError(t *testing.T) {
	err := NewEncoder(failingWriter{}, DefaultEncodeOptions()).Encode(Num(Int(1)))
	if err == nil {
		t.Fatal("expected a sink error")
	}
	if !errors.Is(err, ErrIO) {
		t.Fatalf("error chain missing ErrIO: %v", err)
	}
	if Code(err) != ErrCodeIO {
		t.Fatalf("Code = %q", Code(err))
	}
}

func TestEncodeRawVerbatim(t *testing.T) {
	raw, err := NewRaw(`{"a": 1, "b":  [2]}`, DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	out, err := MarshalString(Array(raw.Value()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// The fragment's internal formatting survives untouched.
	if out != `[{"a": 1, "b":  [2]}]` {
		t.Fatalf("raw fragment rewritten: %q", out)
	}
}
