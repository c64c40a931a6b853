package middleware

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// Navigation records navigation requested while serving one dashboard
// request. Backend calls made on behalf of the request share its context,
// so a rejection observed by the HTTP client lands here.
type Navigation struct {
	mu      sync.Mutex
	toLogin int
}

// RequestLogin records a request to navigate to the login entry point
func (n *Navigation) RequestLogin() {
	n.mu.Lock()
	n.toLogin++
	n.mu.Unlock()
}

// LoginRequested reports whether any navigation to login was requested
func (n *Navigation) LoginRequested() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.toLogin > 0
}

// LoginRequests returns how many times navigation to login was requested
func (n *Navigation) LoginRequests() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.toLogin
}

// WithNavigation attaches a fresh Navigation to ctx
func WithNavigation(ctx context.Context) (context.Context, *Navigation) {
	nav := &Navigation{}
	return context.WithValue(ctx, NavigationKey, nav), nav
}

// GetNavigationFromContext retrieves the request's Navigation, if any
func GetNavigationFromContext(ctx context.Context) *Navigation {
	if val := ctx.Value(NavigationKey); val != nil {
		if nav, ok := val.(*Navigation); ok {
			return nav
		}
	}
	return nil
}

// TrackNavigation gives every request its own Navigation record
func TrackNavigation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := WithNavigation(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestNavigator routes navigation signals from the HTTP client to the
// dashboard request that triggered them.
type RequestNavigator struct {
	logger *zap.Logger
}

// NewRequestNavigator creates a RequestNavigator
func NewRequestNavigator(logger *zap.Logger) *RequestNavigator {
	return &RequestNavigator{logger: logger}
}

// NavigateToLogin implements httpclient.Navigator
func (n *RequestNavigator) NavigateToLogin(ctx context.Context) {
	nav := GetNavigationFromContext(ctx)
	if nav == nil {
		n.logger.Debug("navigation to login requested outside a dashboard request",
			zap.String("request_id", GetRequestIDFromContext(ctx)))
		return
	}
	nav.RequestLogin()
}
