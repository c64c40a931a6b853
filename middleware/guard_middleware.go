package middleware

import (
	"net/http"

	"github.com/upb/lms-dashboard/guard"
	"github.com/upb/lms-dashboard/session"
	"github.com/upb/lms-dashboard/utils"
	"go.uber.org/zap"
)

const (
	// LoginPath is the login entry point
	LoginPath = utils.LoginPath
	// UnauthorizedPath explains a role mismatch
	UnauthorizedPath = utils.UnauthorizedPath
)

// SessionSource provides the current session. *session.Manager implements it.
type SessionSource interface {
	Snapshot() session.Snapshot
}

// GuardMiddleware turns access guard decisions into HTTP responses
type GuardMiddleware struct {
	sessions SessionSource
	logger   *zap.Logger
}

// NewGuardMiddleware creates a new GuardMiddleware
func NewGuardMiddleware(sessions SessionSource, logger *zap.Logger) *GuardMiddleware {
	return &GuardMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// RequireAuth admits any signed-in user
func (m *GuardMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.Enforce(guard.Authenticated())(next)
}

// RequireRole admits signed-in users holding one of roles. Mount it inside
// RequireAuth so the authentication boundary answers first.
func (m *GuardMiddleware) RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	return m.Enforce(guard.RequireRole(roles...))
}

// Enforce evaluates guards, outermost first, against one snapshot
func (m *GuardMiddleware) Enforce(guards ...guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)
			snap := m.sessions.Snapshot()

			decision := guard.Chain(snap, guards...)
			switch decision {
			case guard.Allow:
				m.logger.Debug("access allowed",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
					zap.String("role", string(snap.Identity.Role)))
				next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, snap.Identity)))
				return

			case guard.Pending:
				m.logger.Debug("session not ready",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path))

			case guard.RedirectLogin:
				m.logger.Info("redirecting to login",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path))

			case guard.RedirectUnauthorized:
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
					zap.String("role", string(snap.Identity.Role)))

			default:
				m.logger.Error("unknown guard decision",
					zap.String("request_id", requestID),
					zap.Stringer("decision", decision))
			}

			if err := utils.WriteDecision(w, decision); err != nil {
				m.logger.Error("failed to write guard response",
					zap.String("request_id", requestID),
					zap.Error(err))
			}
		})
	}
}
