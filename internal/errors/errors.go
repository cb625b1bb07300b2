// Package errors provides structured error handling with HTTP status code
// mapping and the JSON envelope the admin frontend expects.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeRateLimited indicates too many requests from one source (HTTP 429)
	TypeRateLimited ErrorType = "rate_limited"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
	// TypeDependency indicates an external collaborator failure (HTTP 502)
	TypeDependency ErrorType = "dependency"
)

// FieldError is a per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a structured error with type, message, cause and field details.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  []FieldError
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeDependency:
		return http.StatusBadGateway
	case TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message}
}

// RateLimitError creates a new too-many-requests error (HTTP 429).
func RateLimitError(message string) *Error {
	return &Error{Type: TypeRateLimited, Message: message}
}

// InternalError creates a new internal error (HTTP 500). The cause is logged
// server-side only; the caller sees just the message.
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// DependencyError creates a new external collaborator error (HTTP 502).
func DependencyError(message string, cause error) *Error {
	return &Error{Type: TypeDependency, Message: message, Cause: cause}
}

// WithField appends a per-field validation message (chainable).
func (e *Error) WithField(field, message string) *Error {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// ErrorResponse is the JSON envelope sent to clients on failure.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// ToResponse converts an Error to its JSON envelope.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Errors:  e.Fields,
	}
}

// AsStructuredError converts any error into a structured Error. If err is
// already an *Error, returns it unchanged; otherwise wraps it as internal.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
