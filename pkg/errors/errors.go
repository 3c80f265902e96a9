// Package errors defines structured error types for the JALAK-HIJAU analysis
// service. Errors carry a stable code, an HTTP status, and optional metadata
// so that handlers can map them to API responses without string matching.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Code identifies a class of error.
type Code string

const (
	// CodeInvalidArgument indicates a client-specified argument is invalid.
	CodeInvalidArgument Code = "invalid_argument"
	// CodeNotFound indicates a resource was not found.
	CodeNotFound Code = "not_found"
	// CodeConflict indicates a conflict with the current state of a resource.
	CodeConflict Code = "conflict"
	// CodeInternal indicates an internal server error.
	CodeInternal Code = "internal"
	// CodeUnavailable indicates a dependency is temporarily unavailable.
	CodeUnavailable Code = "unavailable"
	// CodeGeometry indicates a malformed or non-computable geometry.
	CodeGeometry Code = "geometry_error"
)

// AppError is the structured application error.
type AppError struct {
	Code     Code
	Message  string
	cause    error
	metadata map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error code to an HTTP status code.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidArgument, CodeGeometry:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata attaches context metadata to the error.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

// Metadata returns all attached metadata.
func (e *AppError) Metadata() map[string]interface{} {
	return e.metadata
}

// New creates a new AppError.
func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Wrap wraps err with a code and message, preserving the chain.
func Wrap(err error, code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, cause: err}
}

// As attempts to extract an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsInvalidArgument reports whether err carries CodeInvalidArgument.
func IsInvalidArgument(err error) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == CodeInvalidArgument
	}
	return false
}
