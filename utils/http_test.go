package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/lms-dashboard/guard"
)

func TestWriteJSON(t *testing.T) {
	t.Run("successful write", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusOK, map[string]string{"message": "test"})
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "test", response["message"])
	})

	t.Run("nil data", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusNoContent, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteOK(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteOK(w, map[string]string{"result": "success"}))
	assert.Equal(t, http.StatusOK, w.Code)

	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	dataMap := response.Data.(map[string]interface{})
	assert.Equal(t, "success", dataMap["result"])
}

func TestWritePending(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter time.Duration
		want       string
	}{
		{name: "default", retryAfter: PendingRetryAfter, want: "1"},
		{name: "rounds up", retryAfter: 1500 * time.Millisecond, want: "2"},
		{name: "never below one second", retryAfter: 0, want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			require.NoError(t, WritePending(w, tt.retryAfter))

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Retry-After"))

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, "unavailable", response.Error)
			assert.Equal(t, "Session is initializing", response.Message)
		})
	}
}

func TestWriteRedirect(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteRedirect(w, "/teacher", http.StatusSeeOther))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/teacher", w.Header().Get("Location"))

	var response RedirectResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "/teacher", response.Redirect)
}

func TestWriteDecision(t *testing.T) {
	tests := []struct {
		decision     guard.Decision
		wantStatus   int
		wantLocation string
		wantRetry    string
	}{
		{decision: guard.Pending, wantStatus: http.StatusServiceUnavailable, wantRetry: "1"},
		{decision: guard.RedirectLogin, wantStatus: http.StatusFound, wantLocation: LoginPath},
		{decision: guard.RedirectUnauthorized, wantStatus: http.StatusFound, wantLocation: UnauthorizedPath},
		{decision: guard.Allow, wantStatus: http.StatusInternalServerError},
		{decision: guard.Decision(99), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.decision.String(), func(t *testing.T) {
			w := httptest.NewRecorder()

			require.NoError(t, WriteDecision(w, tt.decision))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			assert.Equal(t, tt.wantRetry, w.Header().Get("Retry-After"))
		})
	}
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter) error
		wantStatus int
		wantError  string
		wantMsg    string
	}{
		{
			name:       "bad request",
			write:      func(w http.ResponseWriter) error { return WriteBadRequest(w, "bad", nil) },
			wantStatus: http.StatusBadRequest,
			wantError:  "bad_request",
			wantMsg:    "bad",
		},
		{
			name:       "unauthorized default message",
			write:      func(w http.ResponseWriter) error { return WriteUnauthorized(w, "") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
			wantMsg:    "Authentication required",
		},
		{
			name:       "forbidden default message",
			write:      func(w http.ResponseWriter) error { return WriteForbidden(w, "") },
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
			wantMsg:    "Access forbidden",
		},
		{
			name:       "not found",
			write:      func(w http.ResponseWriter) error { return WriteError(w, http.StatusNotFound, "course not found", nil) },
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
			wantMsg:    "course not found",
		},
		{
			name:       "conflict",
			write:      func(w http.ResponseWriter) error { return WriteError(w, http.StatusConflict, "already enrolled", nil) },
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
			wantMsg:    "already enrolled",
		},
		{
			name:       "internal default message",
			write:      func(w http.ResponseWriter) error { return WriteError(w, http.StatusInternalServerError, "", nil) },
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
			wantMsg:    "Internal server error",
		},
		{
			name:       "generic bad gateway",
			write:      func(w http.ResponseWriter) error { return WriteError(w, http.StatusBadGateway, "backend down", nil) },
			wantStatus: http.StatusBadGateway,
			wantError:  "bad_gateway",
			wantMsg:    "backend down",
		},
		{
			name:       "bad gateway default message",
			write:      func(w http.ResponseWriter) error { return WriteError(w, http.StatusBadGateway, "", nil) },
			wantStatus: http.StatusBadGateway,
			wantError:  "bad_gateway",
			wantMsg:    "Backend unavailable",
		},
		{
			name:       "generic unknown status",
			write:      func(w http.ResponseWriter) error { return WriteError(w, http.StatusTeapot, "teapot", nil) },
			wantStatus: http.StatusTeapot,
			wantError:  "internal_error",
			wantMsg:    "teapot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, tt.write(w))

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.wantError, response.Error)
			assert.Equal(t, tt.wantMsg, response.Message)
		})
	}
}
