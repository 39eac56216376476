// Package errors provides structured error types for the stemma application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Structural failures abort a layout session and are surfaced to the caller:
//   - FETCH_ERROR: the description text could not be retrieved
//   - PARSE_ERROR: the description text is not well-formed
//   - EMPTY_GRAPH: the description contains no nodes
//
// Per-element failures are absorbed by the engine, logged, and the element
// is skipped:
//   - UNRESOLVED_REFERENCE: an edge names a node that does not exist
//   - MALFORMED_GEOMETRY: a coordinate or box is not usable
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "unexpected token at line %d", line)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // Keep the previous diagram
//	}
//
//	err := errors.Wrap(errors.ErrCodeFetch, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors (abort the session)
	ErrCodeFetch      Code = "FETCH_ERROR"
	ErrCodeParse      Code = "PARSE_ERROR"
	ErrCodeEmptyGraph Code = "EMPTY_GRAPH"

	// Per-element errors (skip the element)
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
	ErrCodeMalformedGeometry   Code = "MALFORMED_GEOMETRY"

	// Session control
	ErrCodeSuperseded Code = "SUPERSEDED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource and transport errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

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

// IsStructural reports whether err aborts a whole layout session.
// Fetch, parse and empty-input failures are structural; everything the
// engine can absorb per element is not.
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeFetch, ErrCodeParse, ErrCodeEmptyGraph:
		return true
	}
	return false
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
