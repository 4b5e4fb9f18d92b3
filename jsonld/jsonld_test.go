package jsonld

import (
	"context"
	"strings"
	"testing"

	"github.com/victor-iyi/sage/dtype"
)

const personDoc = `{
  "@context": {"name": "http://schema.org/name"},
  "@id": "http://example.org/ada",
  "name": "Ada"
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(personDoc), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if name, ok := doc.Get("name"); !ok || !name.Equal(dtype.Str("Ada")) {
		t.Fatalf("name = %v", name)
	}
	// Key order survives decoding.
	m, _ := doc.AsObject()
	keys := m.Keys()
	if len(keys) != 3 || keys[0] != "@context" || keys[2] != "name" {
		t.Fatalf("keys = %v", keys)
	}

	if _, err := Decode(strings.NewReader(""), Options{}); err == nil {
		t.Fatal("empty input must fail")
	}
	if _, err := Decode(strings.NewReader("{"), Options{}); err == nil {
		t.Fatal("malformed input must fail")
	}
}

func TestExpand(t *testing.T) {
	doc, err := Decode(strings.NewReader(personDoc), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	expanded, err := NewProcessor().Expand(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	name, ok := expanded.Get(0, "http://schema.org/name", 0, "@value")
	if !ok {
		t.Fatalf("expanded shape unexpected: %v", expanded)
	}
	if !name.Equal(dtype.Str("Ada")) {
		t.Fatalf("expanded name = %v", name)
	}
}

func TestCompactRoundTrip(t *testing.T) {
	proc := NewProcessor()
	ctx := context.Background()

	doc, err := Decode(strings.NewReader(personDoc), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	expanded, err := proc.Expand(ctx, doc, Options{})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	docContext, err := dtype.ParseString(`{"@context": {"name": "http://schema.org/name"}}`)
	if err != nil {
		t.Fatalf("parse context: %v", err)
	}
	compacted, err := proc.Compact(ctx, expanded, docContext, Options{CompactArrays: true})
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if name, ok := compacted.Get("name"); !ok || !name.Equal(dtype.Str("Ada")) {
		t.Fatalf("compacted = %v", compacted)
	}
}

func TestFlatten(t *testing.T) {
	doc, err := Decode(strings.NewReader(personDoc), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	flat, err := NewProcessor().Flatten(context.Background(), doc, dtype.Null(), Options{})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if !flat.IsArray() {
		t.Fatalf("flattened shape = %v", flat.Kind())
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor().Expand(ctx, dtype.Null(), Options{})
	if err == nil {
		t.Fatal("canceled context must fail")
	}
}
