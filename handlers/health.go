package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/session"
	"github.com/upb/lms-dashboard/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck always returns 200 while the process is serving
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadinessCheck reports whether the session is hydrated and the credential
// store is reachable
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allHealthy := true

		if deps.Sessions.Snapshot().Status == session.Ready {
			checks["session"] = "ready"
		} else {
			checks["session"] = "initializing"
			allHealthy = false
		}

		if err := deps.CheckStore(ctx); err != nil {
			deps.Logger.Warn("credential store health check failed", zap.Error(err))
			checks["credential_store"] = "unhealthy"
			allHealthy = false
		} else {
			checks["credential_store"] = "healthy"
		}

		status := "healthy"
		httpStatus := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}

		response := HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		}
		if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
			deps.Logger.Error("failed to write readiness response", zap.Error(err))
		}
	}
}
