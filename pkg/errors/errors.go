// Package errors provides structured error types for drawkit.
//
// Every validation failure in the document model carries a machine-readable
// [Code]. The two kinds that matter most to callers of the core packages are:
//   - [ErrCodeInvalidGeometry]: a shape geometry payload failed its
//     kind-specific structural rules (the "geometry error" kind)
//   - [ErrCodeInvalidStyle]: a color, gradient, fill, stroke or effects value
//     failed its consistency rules (the "style error" kind)
//
// The remaining codes cover transforms, canvas settings, serialization and the
// CLI.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGeometry, "circle radius must be positive, got %g", r)
//	if errors.Is(err, errors.ErrCodeInvalidGeometry) {
//	    // reject the payload
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode shape %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code identifies the category of an [Error].
type Code string

const (
	// Document model
	ErrCodeInvalidGeometry  Code = "INVALID_GEOMETRY"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidTransform Code = "INVALID_TRANSFORM"
	ErrCodeInvalidCanvas    Code = "INVALID_CANVAS"
	ErrCodeInvalidDocument  Code = "INVALID_DOCUMENT"

	// Files, flags and configuration
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPreset Code = "INVALID_PRESET"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Lookups
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Message is meant for people; Code for programs.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with an underlying cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Geometry is shorthand for New(ErrCodeInvalidGeometry, ...).
func Geometry(format string, args ...any) *Error {
	return New(ErrCodeInvalidGeometry, format, args...)
}

// Style is shorthand for New(ErrCodeInvalidStyle, ...).
func Style(format string, args ...any) *Error {
	return New(ErrCodeInvalidStyle, format, args...)
}

// Is reports whether err has the given error code.
// It walks the whole error chain, so a decode error wrapping a geometry error
// matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		e, ok := asError(err)
		if !ok {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "" if there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage renders err without codes, joining nested messages with ": ".
func UserMessage(err error) string {
	e, ok := asError(err)
	if !ok {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
