package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies fetch failures so callers can decide how to report them.
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeFilesystem  ErrorType = "filesystem"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a per-item fetch error with type information.
// Every value of this type is non-fatal to the overall run.
type Error struct {
	Type    ErrorType
	Message string
	Code    int // HTTP status code, 0 for transport and filesystem errors
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed error.
func New(t ErrorType, message string, code int) *Error {
	return &Error{Type: t, Message: message, Code: code}
}

// TypeOf returns the error type, or ErrorTypeUnknown for foreign errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsNotFound reports whether err is an HTTP 404 for a single item.
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// StatusCode returns the HTTP status code carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return 0
}
