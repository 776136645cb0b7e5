package core

import (
	"fmt"
	"net/http"
)

// ErrorType classifies advisor errors.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a client error (4xx)
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeNotFound indicates a not found error (404)
	ErrorTypeNotFound ErrorType = "not_found_error"
	// ErrorTypeProvider indicates a transport-level failure of the remote
	// completion service (network error, timeout, non-2xx status)
	ErrorTypeProvider ErrorType = "provider_error"
	// ErrorTypeShape indicates the remote service answered but the generated
	// text could not be turned into a usable recommendation response
	ErrorTypeShape ErrorType = "shape_error"
	// ErrorTypeInternal indicates an unexpected internal error
	ErrorTypeInternal ErrorType = "internal_error"
)

// AdvisorError is the base error type for all advisor errors.
// Provider and shape errors never escape the recommendation flow; they are
// logged and swallowed by the fallback path. The HTTP layer uses the
// invalid-request and not-found variants for its own validation.
type AdvisorError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	// Original error for diagnostics (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *AdvisorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *AdvisorError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *AdvisorError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map
func (e *AdvisorError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"type":    e.Type,
			"message": e.Message,
		},
	}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *AdvisorError {
	return &AdvisorError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string) *AdvisorError {
	return &AdvisorError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewProviderError creates a new provider error for a failed remote call.
// statusCode is the upstream HTTP status, or 0 for transport failures.
func NewProviderError(statusCode int, message string, err error) *AdvisorError {
	return &AdvisorError{
		Type:       ErrorTypeProvider,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewShapeError creates a new shape error for unusable generated text.
func NewShapeError(message string, err error) *AdvisorError {
	return &AdvisorError{
		Type:    ErrorTypeShape,
		Message: message,
		Err:     err,
	}
}
