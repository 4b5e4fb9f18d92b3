package dtype

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeSyntax indicates malformed input at a byte offset.
	ErrCodeSyntax ErrorCode = "SYNTAX_ERROR"
	// ErrCodeUnexpectedEnd indicates input truncated in the middle of a value.
	ErrCodeUnexpectedEnd ErrorCode = "UNEXPECTED_END"
	// ErrCodeInvalidEscape indicates a malformed string escape or an
	// unpaired surrogate.
	ErrCodeInvalidEscape ErrorCode = "INVALID_ESCAPE"
	// ErrCodeNumberOutOfRange indicates a number literal outside the
	// representable range.
	ErrCodeNumberOutOfRange ErrorCode = "NUMBER_OUT_OF_RANGE"
	// ErrCodeRecursionLimit indicates that nesting depth exceeded the
	// configured limit.
	ErrCodeRecursionLimit ErrorCode = "RECURSION_LIMIT_EXCEEDED"
	// ErrCodeIO indicates an I/O error surfaced from the underlying
	// source or sink.
	ErrCodeIO ErrorCode = "IO_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

var (
	// ErrSyntax indicates malformed input.
	ErrSyntax = errors.New("dtype: syntax error")
	// ErrUnexpectedEnd indicates input ended in the middle of a value.
	ErrUnexpectedEnd = errors.New("dtype: unexpected end of input")
	// ErrInvalidEscape indicates a malformed string escape or an unpaired
	// surrogate.
	ErrInvalidEscape = errors.New("dtype: invalid escape sequence")
	// ErrNumberOutOfRange indicates a number literal outside the
	// representable range.
	ErrNumberOutOfRange = errors.New("dtype: number out of range")
	// ErrRecursionLimit indicates that nesting depth exceeded the
	// configured limit.
	ErrRecursionLimit = errors.New("dtype: recursion limit exceeded")
	// ErrIO indicates an I/O failure on the underlying source or sink.
	ErrIO = errors.New("dtype: i/o error")
)

// Code returns the error code for an error, or ErrCodeSyntax if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error
// condition for streaming decoders).
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnexpectedEnd):
		return ErrCodeUnexpectedEnd
	case errors.Is(err, ErrInvalidEscape):
		return ErrCodeInvalidEscape
	case errors.Is(err, ErrNumberOutOfRange):
		return ErrCodeNumberOutOfRange
	case errors.Is(err, ErrRecursionLimit):
		return ErrCodeRecursionLimit
	case errors.Is(err, ErrIO):
		return ErrCodeIO
	case errors.Is(err, ErrSyntax):
		return ErrCodeSyntax
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		underlying := Code(parseErr.Err)
		if underlying != "" {
			return underlying
		}
		return ErrCodeSyntax
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeContextCanceled
	}

	return ErrCodeSyntax
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Offset  int    // 0-based byte offset in the input
	Line    int    // 1-based line number (0 if unknown)
	Column  int    // 1-based column number (0 if unknown)
	Excerpt string // offending input line, if available
	Err     error  // underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString("dtype")

	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	} else {
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}

	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if e.Excerpt != "" {
		excerpt := e.formatExcerpt()
		if excerpt != "" {
			msg.WriteString("\n  ")
			msg.WriteString(excerpt)
		}
	}

	return msg.String()
}

// formatExcerpt formats a readable excerpt of the input line around the
// error position, with a caret pointing at the offending column.
func (e *ParseError) formatExcerpt() string {
	if e.Excerpt == "" {
		return ""
	}

	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column > 0 {
		start := e.Column - 1
		if start < 0 {
			start = 0
		}

		excerptStart := start - contextLen
		if excerptStart < 0 {
			excerptStart = 0
		}
		excerptEnd := start + contextLen
		if excerptEnd > len(e.Excerpt) {
			excerptEnd = len(e.Excerpt)
		}

		excerpt := e.Excerpt[excerptStart:excerptEnd]
		if excerptStart > 0 {
			excerpt = "..." + excerpt
		}
		if excerptEnd < len(e.Excerpt) {
			excerpt = excerpt + "..."
		}

		caretPos := start - excerptStart
		if excerptStart > 0 {
			caretPos += 3
		}
		if caretPos < 0 {
			caretPos = 0
		}
		if caretPos > len(excerpt) {
			caretPos = len(excerpt)
		}

		var result strings.Builder
		result.WriteString(excerpt)
		result.WriteString("\n  ")
		for i := 0; i < caretPos; i++ {
			result.WriteByte(' ')
		}
		result.WriteByte('^')
		return result.String()
	}

	if len(e.Excerpt) > maxExcerptLen {
		return e.Excerpt[:maxExcerptLen] + "..."
	}
	return e.Excerpt
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError adds position context to a parse error. The line, column
// and excerpt are derived from the input and the byte offset.
func wrapParseError(input []byte, offset int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	line, column := lineColumn(input, offset)
	return &ParseError{
		Offset:  offset,
		Line:    line,
		Column:  column,
		Excerpt: lineAt(input, offset),
		Err:     err,
	}
}

// lineColumn computes the 1-based line and column of a byte offset.
func lineColumn(input []byte, offset int) (line, column int) {
	if offset > len(input) {
		offset = len(input)
	}
	line = 1
	column = 1
	for i := 0; i < offset; i++ {
		if input[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// lineAt returns the input line containing the byte offset.
func lineAt(input []byte, offset int) string {
	if offset > len(input) {
		offset = len(input)
	}
	start := offset
	for start > 0 && input[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(input) && input[end] != '\n' {
		end++
	}
	return string(input[start:end])
}
