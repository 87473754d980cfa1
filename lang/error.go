package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from these values with
// [Error.Wrap] and [Error.With], and every derived error still satisfies
// errors.Is against the sentinel it came from.
var (
	ErrIdentifierEmpty = NewError("identifier must not be empty")
	ErrIdentifierStart = NewError("identifier must start with a letter")
	ErrIdentifierChar  = NewError(
		"identifier must not contain special characters",
	)

	ErrInvalidNumber   = NewError("invalid number")
	ErrInvalidOperator = NewError("invalid operator")

	ErrOperatorNotFound = NewError("operator not found")
	ErrInvalidLhs       = NewError("expected a number on the left-hand side")
	ErrInvalidRhs       = NewError("expected a number on the right-hand side")
	ErrDivisionByZero   = NewError("division by zero")
	ErrOverflow         = NewError("integer overflow")

	ErrInvalidExpression = NewError("invalid expression")

	ErrMissingOpeningBrace = NewError("missing opening brace `{`")
	ErrMissingClosingBrace = NewError("missing closing brace `}`")

	ErrMissingLet    = NewError("expected `let` here")
	ErrMissingEquals = NewError("expected `=` here")

	ErrMissingFn           = NewError("expected `fn` here")
	ErrMissingArrow        = NewError("expected `=>` here")
	ErrMissingFunctionName = NewError("expected a function name here")

	ErrFunctionNotFound    = NewError("function not found")
	ErrWrongParameterCount = NewError("wrong parameter count")
	ErrEmptyCall           = NewError("expected a function call here")

	ErrMissingSemicolon = NewError("expected `;` here")
	ErrInvalidStatement = NewError("invalid statement")

	ErrBindingNotFound = NewError("binding not found")

	ErrMaxDepthExceeded = NewError("maximum evaluation depth exceeded")
	ErrReadInput        = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	kind  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	e := &Error{err: err}
	e.kind = e

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.kind != nil && e.kind == t.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		kind:  e.kind,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		kind:  e.kind,
	}
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}
