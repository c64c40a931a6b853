// Package handlers serves the dashboard's views. Each handler is a thin
// adapter from an HTTP request to the session manager or a backend service.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/guard"
	"github.com/upb/lms-dashboard/httpclient"
	"github.com/upb/lms-dashboard/internal/observability"
	"github.com/upb/lms-dashboard/middleware"
	"github.com/upb/lms-dashboard/session"
	"github.com/upb/lms-dashboard/utils"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// HomePath is the landing view of role
func HomePath(role session.Role) string {
	return "/" + string(role)
}

// respondError writes err, unless the backend rejected the session while
// serving this request. In that case the session is already gone and the
// response navigates to login instead.
func respondError(deps *app.Dependencies, w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.ForRequest(r.Context(), deps.Logger)

	if nav := middleware.GetNavigationFromContext(r.Context()); nav != nil && nav.LoginRequested() {
		logger.Info("backend rejected the session, navigating to login",
			zap.Int("signals", nav.LoginRequests()))
		_ = utils.WriteDecision(w, guard.RedirectLogin)
		return
	}

	// Under the rerender policy nothing navigated; re-evaluating the guard
	// against the invalidated session produces the redirect.
	if httpclient.IsAuthRejected(err) {
		if decision := guard.Decide(deps.Sessions.Snapshot()); decision == guard.RedirectLogin {
			logger.Info("session invalidated, guard redirects to login")
			_ = utils.WriteDecision(w, decision)
			return
		}
	}

	HandleServiceError(w, err, logger)
}

// decodeJSON decodes a bounded JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// queryInt reads a non-negative integer query parameter, 0 when absent
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

// identity returns the identity admitted by the guard for this request
func identity(r *http.Request) *session.Identity {
	return middleware.GetIdentityFromContext(r.Context())
}

func writeOK(deps *app.Dependencies, w http.ResponseWriter, r *http.Request, data any) {
	if err := utils.WriteOK(w, data); err != nil {
		observability.ForRequest(r.Context(), deps.Logger).Error("failed to write response", zap.Error(err))
	}
}

func writeMessage(deps *app.Dependencies, w http.ResponseWriter, r *http.Request, message string) {
	if err := utils.WriteMessage(w, message); err != nil {
		observability.ForRequest(r.Context(), deps.Logger).Error("failed to write response", zap.Error(err))
	}
}

// sessionOf rebuilds the snapshot the guard admitted this request with
func sessionOf(r *http.Request) session.Snapshot {
	return session.Snapshot{Status: session.Ready, Identity: identity(r)}
}

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
