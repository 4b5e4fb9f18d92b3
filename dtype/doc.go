// Package dtype provides the interchange value engine underneath the
// sage knowledge graph: a recursive, self-describing value model with a
// lossless text parser and serializer.
//
// It focuses on exact round-tripping with a small surface area:
//   - Parse: Parse(), ParseString() and ParseWithOptions() build a DType
//     tree from a single document.
//   - Stream: NewDecoder() returns a pull-style decoder for concatenated
//     top-level values (Next() until io.EOF).
//   - Encode: Marshal(), MarshalIndent() and NewEncoder() produce
//     compact or pretty text, streaming incrementally to the sink.
//   - Raw: CaptureRaw() and NewRaw() validate a value without
//     materializing it, deferring structural decoding to a later parse.
//
// Four independent behavioral modes compose without interfering:
// arbitrary-precision numbers (DecodeOptions.ArbitraryPrecision keeps
// number literals byte-for-byte), order-preserving objects
// (DecodeOptions.PreserveOrder), raw-value passthrough, and unbounded
// recursion depth (negative MaxDepth; callers accept the stack
// obligation described on the depth guard).
//
// Example (decoding a stream of values):
//
//	dec := dtype.NewDecoder(strings.NewReader(input))
//	for {
//	    v, err := dec.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    // process v
//	}
//
// Parsing and serializing are synchronous and single-threaded per call.
// A constructed tree is immutable-by-convention and safe for concurrent
// readers; mutation is the owner's responsibility. Errors are returned,
// never thrown: see ParseError and Code for programmatic handling.
package dtype
