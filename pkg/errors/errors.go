// Package errors provides structured error types for yardbook.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the engine
//   - Machine-readable error codes in placement reports
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Placement Taxonomy
//
// The placement engine scopes every error to one unit and one step:
//   - DEGENERATE_GEOMETRY: a zero or non-finite extent; fatal for the unit
//   - MEASUREMENT_FAILED: a subtree has no drawable bounds; fatal for the step
//   - MISSING_SUBTREE: a unit or its green does not exist
//   - UNSUPPORTED_TRANSFORM: a transform chain could only be approximated
//
// [IsWarning] tells the engine which codes are recorded without failing a unit.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "buffer must be in (0,1], got %g", b)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidID       Code = "INVALID_ID"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Placement errors
	ErrCodeDegenerateGeometry   Code = "DEGENERATE_GEOMETRY"
	ErrCodeMeasurement          Code = "MEASUREMENT_FAILED"
	ErrCodeMissingSubtree       Code = "MISSING_SUBTREE"
	ErrCodeUnsupportedTransform Code = "UNSUPPORTED_TRANSFORM"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// DegenerateGeometry reports a zero or non-finite extent.
func DegenerateGeometry(format string, args ...any) *Error {
	return New(ErrCodeDegenerateGeometry, format, args...)
}

// Measurement reports a subtree without drawable bounds.
func Measurement(format string, args ...any) *Error {
	return New(ErrCodeMeasurement, format, args...)
}

// MissingSubtree reports a unit or sub-element that could not be resolved.
func MissingSubtree(format string, args ...any) *Error {
	return New(ErrCodeMissingSubtree, format, args...)
}

// UnsupportedTransform reports a transform chain that was only approximated.
func UnsupportedTransform(format string, args ...any) *Error {
	return New(ErrCodeUnsupportedTransform, format, args...)
}

// IsWarning reports whether err carries a code that is recorded in a report
// without failing the unit it belongs to.
func IsWarning(err error) bool {
	return Is(err, ErrCodeUnsupportedTransform)
}
