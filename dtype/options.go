package dtype

import "context"

// DefaultMaxDepth is the default nesting depth limit for parsing and
// encoding. A document nested exactly this deep succeeds; one level
// deeper fails with ErrRecursionLimit.
const DefaultMaxDepth = 128

// DecodeOptions configures parser behavior and limits.
// Zero values use defaults. Use a negative MaxDepth to disable the
// recursion limit (see depthGuard for the stack obligation this implies).
type DecodeOptions struct {
	// MaxDepth limits container nesting. Zero selects DefaultMaxDepth;
	// negative disables the limit.
	MaxDepth int
	// ArbitraryPrecision captures number literals verbatim instead of
	// classifying them as int64/uint64/float64.
	ArbitraryPrecision bool
	// PreserveOrder backs parsed objects with an insertion-order
	// preserving map.
	PreserveOrder bool
	// Context provides cancellation for decoding work. Checked at value
	// boundaries.
	Context context.Context
}

// DefaultDecodeOptions returns safe defaults for parser limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{MaxDepth: DefaultMaxDepth}
}

func normalizeDecodeOptions(opts DecodeOptions) DecodeOptions {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return opts
}

// EncodeOptions configures serializer behavior.
type EncodeOptions struct {
	// Indent is the indentation unit repeated per nesting level. Empty
	// selects compact output.
	Indent string
	// EscapeNonASCII escapes all non-ASCII characters as \uXXXX.
	EscapeNonASCII bool
	// MaxDepth limits container nesting. Zero selects DefaultMaxDepth;
	// negative disables the limit.
	MaxDepth int
}

// DefaultEncodeOptions returns compact output with safe limits.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{MaxDepth: DefaultMaxDepth}
}

func normalizeEncodeOptions(opts EncodeOptions) EncodeOptions {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return opts
}

// Option configures decoder behavior using functional options.
type Option func(*DecodeOptions)

// OptMaxDepth sets the maximum nesting depth limit.
func OptMaxDepth(maxDepth int) Option {
	return func(opts *DecodeOptions) {
		opts.MaxDepth = maxDepth
	}
}

// OptArbitraryPrecision enables verbatim number capture.
func OptArbitraryPrecision(enable bool) Option {
	return func(opts *DecodeOptions) {
		opts.ArbitraryPrecision = enable
	}
}

// OptPreserveOrder enables insertion-order preserving objects.
func OptPreserveOrder(enable bool) Option {
	return func(opts *DecodeOptions) {
		opts.PreserveOrder = enable
	}
}

// OptContext sets the context for cancellation.
func OptContext(ctx context.Context) Option {
	return func(opts *DecodeOptions) {
		opts.Context = ctx
	}
}
