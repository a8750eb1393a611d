package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind string

const (
	ErrUnboundVariable        ErrorKind = "UnboundVariable"
	ErrTypeError              ErrorKind = "TypeError"
	ErrNotApplicable          ErrorKind = "NotApplicable"
	ErrNotCompound            ErrorKind = "NotCompound"
	ErrInvalidDictFormat      ErrorKind = "InvalidDictFormat"
	ErrKeyNotFound            ErrorKind = "KeyNotFound"
	ErrInvalidDictApplication ErrorKind = "InvalidDictApplication"
	ErrUnknownPrimitive       ErrorKind = "UnknownPrimitive"
	ErrEmptySequence          ErrorKind = "EmptySequence"
	ErrUnparsableLiteral      ErrorKind = "UnparsableLiteral"
)

// Error is the failure value returned by every core operation.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k})
// works as a kind test.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind && (other.Message == "" || other.Message == e.Message)
}

func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from err, looking through wrapping.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
