package tuple

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. The set is closed: every failure the codec can
// produce wraps exactly one of these, so callers can test with errors.Is
// instead of matching on message text.
var (
	// ErrMalformedInput covers a truncated element, a missing terminator, an
	// unknown type tag, the legacy nested-tuple tag 0x03, or leftover bytes
	// after a singleton parse that expected exactly one element.
	ErrMalformedInput = errors.New("tuple: malformed input")

	// ErrUnsupportedCoercion is returned when a decoder is asked to produce a
	// target type for which no coercion from the wire type is defined, or
	// when Pack is given an element of a Go type it has no encoder for.
	ErrUnsupportedCoercion = errors.New("tuple: unsupported coercion")

	// ErrNumericOverflow is returned when an integer decode produces a value
	// outside the target type's range.
	ErrNumericOverflow = errors.New("tuple: numeric overflow")

	// ErrUnimplemented marks format paths reserved but not yet implemented,
	// currently only Decimal encode.
	ErrUnimplemented = errors.New("tuple: unimplemented")

	// ErrUnbalancedNesting is returned when a Writer finishes with a nonzero
	// depth. The Reader does not produce it: at depth 0 a bare 0x00 is Nil,
	// never an end-of-nested-tuple marker.
	ErrUnbalancedNesting = errors.New("tuple: unbalanced nesting")

	// ErrDepthExceeded is returned when nested-tuple depth exceeds the
	// configured soft cap. Not imposed unless Reader.SetMaxDepth is called
	// with a positive value.
	ErrDepthExceeded = errors.New("tuple: depth exceeded")
)

// Error wraps one of the sentinel kinds above with the byte offset at which
// it was detected, per the propagation policy: "Error values carry at
// minimum the kind and the byte offset where detection occurred."
type Error struct {
	Kind   error
	Offset int
	msg    string
}

func (e *Error) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("%s (offset %d): %s", e.Kind, e.Offset, e.msg)
	}
	return fmt.Sprintf("%s (offset %d)", e.Kind, e.Offset)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, msg: fmt.Sprintf(format, args...)}
}
