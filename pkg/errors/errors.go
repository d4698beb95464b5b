// Package errors defines the coded errors shared by the geosvg packages.
//
// Every failure a caller may want to act on carries a [Code]. The CLI
// prints the code with the message; the server maps it to an HTTP status
// and returns it in the JSON error body.
//
//	err := errors.New(errors.ErrCodeInvalidColor, "invalid color keyword %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidColor) {
//	    ...
//	}
//
// Only the outermost coded error in a chain counts, so wrapping an error
// with a new code replaces the old one.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error class.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidUnit     Code = "INVALID_UNIT"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Validation reports whether c describes bad caller input.
func (c Code) Validation() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Error pairs a code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// outermost returns the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "" if there is none.
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for any other error.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err carries one of the INVALID_* codes.
func IsValidation(err error) bool { return GetCode(err).Validation() }
