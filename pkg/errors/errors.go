// Package errors gives every orca failure a machine-readable [Code].
//
// The CLI prints [UserMessage], the server maps codes to HTTP statuses, and
// tests match on codes with [Is].
//
// # Error Kinds
//
// Three kinds of failure exist:
//   - Input validation (EMPTY_TREE, INVALID_*): bad data supplied by the caller.
//   - Collaborator failure (RENDER, FONT): a measurement or draw backend failed.
//     The whole render is aborted; no partial output is valid.
//   - Structural inconsistency (STRUCTURE): a flat tree whose branch counts do
//     not match its length, or a germination that declared a different number
//     of children than it emitted. These are bugs, not runtime conditions, and
//     are raised with panic(Structural(...)) rather than returned.
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeRender, cause, "measure node %d", ix)
//	errors.Is(err, errors.ErrCodeRender) // true
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error. Codes are stable strings and appear in server
// responses.
type Code string

const (
	// caller supplied bad data
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeEmptyTree     Code = "EMPTY_TREE"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// a named resource does not exist
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeFontNotFound Code = "FONT_NOT_FOUND"

	// a measurement or draw backend failed
	ErrCodeRender Code = "RENDER"
	ErrCodeFont   Code = "FONT"

	// bugs and gaps
	ErrCodeStructure   Code = "STRUCTURE"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a Code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message" followed by ": cause" when there is one.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.detail()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) detail() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code whose cause is cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Structural builds the panic value for a structural inconsistency.
//
//	panic(errors.Structural("traversal stopped at %d of %d", ix, n))
func Structural(format string, args ...any) *Error {
	return New(ErrCodeStructure, format, args...)
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage is err without its code prefix.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.detail()
	}
	return err.Error()
}

// IsStructural reports whether a recovered panic value is a structural
// inconsistency.
func IsStructural(v any) bool {
	err, ok := v.(error)
	return ok && Is(err, ErrCodeStructure)
}
