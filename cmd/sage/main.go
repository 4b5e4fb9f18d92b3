package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/victor-iyi/sage/dtype"
	"github.com/victor-iyi/sage/jsonld"
)

// CLI defines the command-line interface
var CLI struct {
	Input              string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output             string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Indent             string `help:"Indentation unit for pretty output. Empty emits compact text." short:"I"`
	Pointer            string `help:"JSON Pointer to extract from each document before writing." short:"p"`
	PreserveOrder      bool   `help:"Keep object keys in document order instead of sorting them."`
	ArbitraryPrecision bool   `help:"Keep number literals byte-for-byte instead of converting them."`
	MaxDepth           int    `help:"Maximum nesting depth. Negative disables the limit." default:"128"`
	EscapeNonASCII     bool   `help:"Escape all non-ASCII characters in output." name:"escape-non-ascii"`
	Expand             bool   `help:"Expand each document as JSON-LD before writing."`
	Base               string `help:"Base IRI for JSON-LD expansion."`
	Version            bool   `help:"Show version information." short:"v"`
}

// Version information
const Version = "0.2.0"

func main() {
	parser := kong.Must(&CLI,
		kong.Name("sage"),
		kong.Description("Reformat, inspect and expand knowledge graph documents"),
		kong.UsageOnError(),
	)
	if _, err := parser.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("sage version %s\n", Version)
		return
	}

	in, out, cleanup, err := openStreams()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sage: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(context.Background(), in, out); err != nil {
		fmt.Fprintf(os.Stderr, "sage: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nFor help, run: sage --help\n")
		os.Exit(1)
	}
}

func openStreams() (io.Reader, io.Writer, func(), error) {
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	closers := []io.Closer{}

	if CLI.Input != "" {
		f, err := os.Open(CLI.Input)
		if err != nil {
			return nil, nil, nil, err
		}
		in = f
		closers = append(closers, f)
	}
	if CLI.Output != "" {
		f, err := os.Create(CLI.Output)
		if err != nil {
			return nil, nil, nil, err
		}
		out = f
		closers = append(closers, f)
	}
	cleanup := func() {
		for _, c := range closers {
			c.Close()
		}
	}
	return in, out, cleanup, nil
}

// run decodes every top-level document from in and writes the processed
// form to out, one document per line.
func run(ctx context.Context, in io.Reader, out io.Writer) error {
	dec := dtype.NewDecoderWithOptions(in, dtype.DecodeOptions{
		MaxDepth:           CLI.MaxDepth,
		PreserveOrder:      CLI.PreserveOrder,
		ArbitraryPrecision: CLI.ArbitraryPrecision,
		Context:            ctx,
	})
	enc := dtype.NewEncoder(out, dtype.EncodeOptions{
		Indent:         CLI.Indent,
		EscapeNonASCII: CLI.EscapeNonASCII,
		MaxDepth:       CLI.MaxDepth,
	})

	for {
		doc, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if CLI.Expand {
			doc, err = expandDocument(ctx, doc)
			if err != nil {
				return err
			}
		}
		if CLI.Pointer != "" {
			v, ok := doc.Pointer(CLI.Pointer)
			if !ok {
				return fmt.Errorf("pointer %q not found in document", CLI.Pointer)
			}
			doc = v
		}

		if err := enc.Encode(doc); err != nil {
			return err
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}
}

func expandDocument(ctx context.Context, doc dtype.DType) (dtype.DType, error) {
	return jsonld.NewProcessor().Expand(ctx, doc, jsonld.Options{
		Context: ctx,
		BaseIRI: CLI.Base,
	})
}
