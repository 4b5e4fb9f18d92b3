// Package jsonld bridges dtype value trees to JSON-LD processing for
// knowledge graph ingestion: documents are parsed with the dtype engine
// (preserving key order, as JSON-LD contexts are order-sensitive) and
// handed to the JSON-LD algorithms as generic values.
package jsonld

import (
	"context"
	"fmt"
	"io"

	ld "github.com/piprate/json-gold/ld"

	"github.com/victor-iyi/sage/dtype"
)

// Options configures JSON-LD processing.
type Options struct {
	// Context cancels processing when done.
	Context context.Context
	// BaseIRI resolves relative IRIs.
	BaseIRI string
	// ProcessingMode controls JSON-LD version semantics: "json-ld-1.0" or
	// "json-ld-1.1".
	ProcessingMode string
	// ExpandContext provides an external context for expansion.
	ExpandContext interface{}
	// CompactArrays controls compaction of single-element arrays.
	CompactArrays bool
	// DocumentLoader resolves remote contexts/documents. Nil falls back
	// to the default HTTP loader.
	DocumentLoader DocumentLoader
}

// DocumentLoader resolves remote contexts/documents.
type DocumentLoader interface {
	LoadDocument(ctx context.Context, iri string) (RemoteDocument, error)
}

// RemoteDocument represents a fetched JSON-LD document.
type RemoteDocument struct {
	DocumentURL string
	Document    dtype.DType
	ContextURL  string
}

// Processor exposes the JSON-LD algorithms over dtype trees.
type Processor interface {
	Expand(ctx context.Context, doc dtype.DType, opts Options) (dtype.DType, error)
	Compact(ctx context.Context, doc, docContext dtype.DType, opts Options) (dtype.DType, error)
	Flatten(ctx context.Context, doc, docContext dtype.DType, opts Options) (dtype.DType, error)
}

type defaultProcessor struct{}

// NewProcessor returns the default JSON-LD processor.
func NewProcessor() Processor {
	return &defaultProcessor{}
}

func (p *defaultProcessor) Expand(ctx context.Context, doc dtype.DType, opts Options) (dtype.DType, error) {
	select {
	case <-ctx.Done():
		return dtype.Null(), ctx.Err()
	default:
	}
	proc := ld.NewJsonLdProcessor()
	result, err := proc.Expand(doc.Interface(), newGoldOptions(ctx, opts))
	if err != nil {
		return dtype.Null(), fmt.Errorf("jsonld: expand: %w", err)
	}
	return fromGeneric(result)
}

func (p *defaultProcessor) Compact(ctx context.Context, doc, docContext dtype.DType, opts Options) (dtype.DType, error) {
	select {
	case <-ctx.Done():
		return dtype.Null(), ctx.Err()
	default:
	}
	proc := ld.NewJsonLdProcessor()
	result, err := proc.Compact(doc.Interface(), docContext.Interface(), newGoldOptions(ctx, opts))
	if err != nil {
		return dtype.Null(), fmt.Errorf("jsonld: compact: %w", err)
	}
	return fromGeneric(result)
}

func (p *defaultProcessor) Flatten(ctx context.Context, doc, docContext dtype.DType, opts Options) (dtype.DType, error) {
	select {
	case <-ctx.Done():
		return dtype.Null(), ctx.Err()
	default:
	}
	proc := ld.NewJsonLdProcessor()
	var goldContext interface{}
	if !docContext.IsNull() {
		goldContext = docContext.Interface()
	}
	result, err := proc.Flatten(doc.Interface(), goldContext, newGoldOptions(ctx, opts))
	if err != nil {
		return dtype.Null(), fmt.Errorf("jsonld: flatten: %w", err)
	}
	return fromGeneric(result)
}

// Decode reads one JSON-LD document from r into a dtype tree. Objects
// preserve key order so contexts survive a later re-serialization
// unchanged.
func Decode(r io.Reader, opts Options) (dtype.DType, error) {
	dec := dtype.NewDecoderWithOptions(r, dtype.DecodeOptions{
		PreserveOrder: true,
		Context:       opts.Context,
	})
	doc, err := dec.Next()
	if err == io.EOF {
		return dtype.Null(), fmt.Errorf("jsonld: empty document")
	}
	if err != nil {
		return dtype.Null(), err
	}
	return doc, nil
}

type goldDocumentLoader struct {
	ctx   context.Context
	inner DocumentLoader
}

func (l goldDocumentLoader) LoadDocument(iri string) (*ld.RemoteDocument, error) {
	if l.inner == nil {
		return ld.NewDefaultDocumentLoader(nil).LoadDocument(iri)
	}
	remote, err := l.inner.LoadDocument(l.ctx, iri)
	if err != nil {
		return nil, err
	}
	return &ld.RemoteDocument{
		DocumentURL: remote.DocumentURL,
		Document:    remote.Document.Interface(),
		ContextURL:  remote.ContextURL,
	}, nil
}

func newGoldOptions(ctx context.Context, opts Options) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	if opts.ProcessingMode != "" {
		goldOpts.ProcessingMode = opts.ProcessingMode
	}
	if opts.ExpandContext != nil {
		goldOpts.ExpandContext = opts.ExpandContext
	}
	if opts.CompactArrays {
		goldOpts.CompactArrays = opts.CompactArrays
	}
	if opts.DocumentLoader != nil {
		goldOpts.DocumentLoader = goldDocumentLoader{ctx: ctx, inner: opts.DocumentLoader}
	}
	return goldOpts
}

func fromGeneric(value interface{}) (dtype.DType, error) {
	doc, err := dtype.FromInterface(value)
	if err != nil {
		return dtype.Null(), fmt.Errorf("jsonld: unexpected processor output: %w", err)
	}
	return doc, nil
}
