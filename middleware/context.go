package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/lms-dashboard/session"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// IdentityKey is the context key for the admitted identity
	IdentityKey contextKey = "identity"

	// NavigationKey is the context key for the per-request navigation record
	NavigationKey contextKey = "navigation"
)

// GetRequestIDFromContext retrieves the request ID from context, falling
// back to the one assigned by chi's RequestID middleware.
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return chimw.GetReqID(ctx)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetIdentityFromContext retrieves the identity admitted by the guard
func GetIdentityFromContext(ctx context.Context) *session.Identity {
	if val := ctx.Value(IdentityKey); val != nil {
		if identity, ok := val.(*session.Identity); ok {
			return identity
		}
	}
	return nil
}

// WithIdentity adds an identity to the context
func WithIdentity(ctx context.Context, identity *session.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
