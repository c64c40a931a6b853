package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/upb/lms-dashboard/httpclient"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeNotFound,
				Message: "course not found",
				Err:     errors.New("backend returned status 404"),
			},
			wantMsg: "not_found: course not found (backend returned status 404)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "invalid input",
			},
			wantMsg: "validation: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same error type", NewDomainError(ErrorTypeNotFound, "not found", nil), ErrCourseNotFound, true},
		{"different error type", NewDomainError(ErrorTypeValidation, "validation", nil), ErrCourseNotFound, false},
		{"not a domain error", NewDomainError(ErrorTypeNotFound, "not found", nil), errors.New("regular error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"not found", ErrUserNotFound, IsNotFoundError, true},
		{"wrapped not found", fmt.Errorf("wrapped: %w", ErrAssignmentNotFound), IsNotFoundError, true},
		{"validation", ErrMissingID, IsValidationError, true},
		{"unauthorized", ErrInvalidCredentials, IsUnauthorizedError, true},
		{"forbidden", ErrForbidden, IsForbiddenError, true},
		{"internal", WrapInternal("boom", errors.New("x")), IsInternalError, true},
		{"external", WrapExternal("boom", errors.New("x")), IsExternalError, true},
		{"regular error", errors.New("regular"), IsNotFoundError, false},
		{"nil error", nil, IsValidationError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantMsg  string
	}{
		{"nil", nil, "", ""},
		{"unauthorized", &httpclient.APIError{StatusCode: http.StatusUnauthorized}, ErrorTypeUnauthorized, "session rejected by backend"},
		{"forbidden with message", &httpclient.APIError{StatusCode: http.StatusForbidden, Message: "Not authorized"}, ErrorTypeForbidden, "Not authorized"},
		{"forbidden without message", &httpclient.APIError{StatusCode: http.StatusForbidden}, ErrorTypeForbidden, "access forbidden"},
		{"not found", &httpclient.APIError{StatusCode: http.StatusNotFound, Message: "Course not found"}, ErrorTypeNotFound, "course not found"},
		{"unprocessable", &httpclient.APIError{StatusCode: http.StatusUnprocessableEntity}, ErrorTypeValidation, "invalid input"},
		{"conflict", &httpclient.APIError{StatusCode: http.StatusConflict, Message: "already enrolled"}, ErrorTypeConflict, "already enrolled"},
		{"server error", &httpclient.APIError{StatusCode: http.StatusBadGateway}, ErrorTypeExternal, "backend request failed"},
		{"transport error", context.DeadlineExceeded, ErrorTypeExternal, "backend unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err, ErrCourseNotFound)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}

			var domainErr *DomainError
			assert.ErrorAs(t, got, &domainErr)
			assert.Equal(t, tt.wantType, domainErr.Type)
			assert.Equal(t, tt.wantMsg, domainErr.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestTranslate_KeepsAuthRejected(t *testing.T) {
	err := translate(&httpclient.APIError{StatusCode: http.StatusUnauthorized}, nil)
	assert.True(t, httpclient.IsAuthRejected(err))

	err = translate(&httpclient.APIError{StatusCode: http.StatusForbidden}, nil)
	assert.False(t, httpclient.IsAuthRejected(err))
}
