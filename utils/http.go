package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/upb/lms-dashboard/guard"
)

// Navigation targets of the dashboard
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// PendingRetryAfter is advertised while the session is still being
// established.
const PendingRetryAfter = time.Second

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// RedirectResponse is the body sent with a Location header, for callers
// that do not follow redirects.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

type errorKind struct {
	name     string
	fallback string
}

var errorKinds = map[int]errorKind{
	http.StatusBadRequest:          {"bad_request", "Bad request"},
	http.StatusUnauthorized:        {"unauthorized", "Authentication required"},
	http.StatusForbidden:           {"forbidden", "Access forbidden"},
	http.StatusNotFound:            {"not_found", "Resource not found"},
	http.StatusConflict:            {"conflict", "Conflict"},
	http.StatusBadGateway:          {"bad_gateway", "Backend unavailable"},
	http.StatusServiceUnavailable:  {"unavailable", "Service unavailable"},
	http.StatusInternalServerError: {"internal_error", "Internal server error"},
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with optional data
func WriteOK(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// WriteCreated writes a 201 Created response with optional data
func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

// WriteMessage writes a 200 OK response carrying only a message
func WriteMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Message: message})
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error envelope for status. An empty message falls
// back to the status's default; unknown statuses are reported as internal.
func WriteError(w http.ResponseWriter, status int, message string, details map[string]any) error {
	kind, ok := errorKinds[status]
	if !ok {
		kind = errorKinds[http.StatusInternalServerError]
	}
	if message == "" {
		message = kind.fallback
	}
	return WriteJSON(w, status, ErrorResponse{
		Error:   kind.name,
		Message: message,
		Details: details,
	})
}

// WriteBadRequest writes a 400 Bad Request response with error details
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]any) error {
	return WriteError(w, http.StatusBadRequest, message, details)
}

// WriteUnauthorized writes a 401 Unauthorized response
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, nil)
}

// WriteForbidden writes a 403 Forbidden response
func WriteForbidden(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusForbidden, message, nil)
}

// WriteRedirect points the client at location. Browsers follow the
// Location header; API callers read the same target from the body.
func WriteRedirect(w http.ResponseWriter, location string, status int) error {
	w.Header().Set("Location", location)
	return WriteJSON(w, status, RedirectResponse{Redirect: location})
}

// WritePending answers a request that arrived before the session was
// established. Retry-After is rounded up to whole seconds.
func WritePending(w http.ResponseWriter, retryAfter time.Duration) error {
	secs := int((retryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	return WriteError(w, http.StatusServiceUnavailable, "Session is initializing", nil)
}

// WriteDecision renders a guard decision that does not admit the request.
// Allow has no response of its own and is reported as an internal error.
func WriteDecision(w http.ResponseWriter, d guard.Decision) error {
	switch d {
	case guard.Pending:
		return WritePending(w, PendingRetryAfter)
	case guard.RedirectLogin:
		return WriteRedirect(w, LoginPath, http.StatusFound)
	case guard.RedirectUnauthorized:
		return WriteRedirect(w, UnauthorizedPath, http.StatusFound)
	default:
		return WriteError(w, http.StatusInternalServerError, "", nil)
	}
}
