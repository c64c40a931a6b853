package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/upb/lms-dashboard/httpclient"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeExternal     ErrorType = "external"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrCourseNotFound     = NewDomainError(ErrorTypeNotFound, "course not found", nil)
	ErrUserNotFound       = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrAssignmentNotFound = NewDomainError(ErrorTypeNotFound, "assignment not found", nil)

	// Validation Errors
	ErrInvalidInput = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrMissingID    = NewDomainError(ErrorTypeValidation, "identifier is required", nil)

	// Authorization Errors
	ErrUnauthorized       = NewDomainError(ErrorTypeUnauthorized, "unauthorized", nil)
	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "invalid identifier or password", nil)

	// Permission Errors
	ErrForbidden = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)

	// Internal Errors
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal error", nil)

	// External Errors
	ErrBackendUnavailable = NewDomainError(ErrorTypeExternal, "backend unavailable", nil)
	ErrBadBackendResponse = NewDomainError(ErrorTypeExternal, "unexpected backend response", nil)
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// IsExternalError checks if an error is an external backend error
func IsExternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeExternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapExternal wraps an error as an external backend error
func WrapExternal(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeExternal, message, err)
}

// translate maps a backend call failure onto the domain taxonomy. The
// original error stays in the chain, so errors.Is(err,
// httpclient.ErrAuthRejected) keeps working on the result.
func translate(err error, notFound *DomainError) error {
	if err == nil {
		return nil
	}

	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) {
		return WrapExternal(ErrBackendUnavailable.Message, err)
	}

	message := apiErr.Message
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return NewDomainError(ErrorTypeUnauthorized, "session rejected by backend", err)
	case http.StatusForbidden:
		if message == "" {
			message = ErrForbidden.Message
		}
		return NewDomainError(ErrorTypeForbidden, message, err)
	case http.StatusNotFound:
		if notFound != nil {
			message = notFound.Message
		}
		return NewDomainError(ErrorTypeNotFound, message, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if message == "" {
			message = ErrInvalidInput.Message
		}
		return NewDomainError(ErrorTypeValidation, message, err)
	case http.StatusConflict:
		return NewDomainError(ErrorTypeConflict, message, err)
	default:
		return WrapExternal("backend request failed", err).
			WithDetail("status", apiErr.StatusCode)
	}
}
