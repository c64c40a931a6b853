// Package httpclient is the single path every backend request takes. It
// attaches the stored credential and watches every response for the backend
// rejecting it.
package httpclient

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/upb/lms-dashboard/credstore"
	"go.uber.org/zap"
)

// RequestIDHeader is stamped on every outgoing request
const RequestIDHeader = "X-Request-ID"

// Invalidator ends the local session. *session.Manager implements it.
type Invalidator interface {
	ForceInvalidate(reason string)
}

// InvalidatorFunc adapts a function to Invalidator
type InvalidatorFunc func(reason string)

func (f InvalidatorFunc) ForceInvalidate(reason string) {
	f(reason)
}

// Navigator performs the hard navigation to the login entry point.
type Navigator interface {
	NavigateToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) NavigateToLogin(ctx context.Context) {
	f(ctx)
}

// InvalidationPolicy decides what follows a rejected credential.
type InvalidationPolicy int

const (
	// PolicyRedirect navigates to the login entry point immediately.
	PolicyRedirect InvalidationPolicy = iota
	// PolicyRerender leaves navigation to the access guard's next decision.
	PolicyRerender
)

// ParsePolicy maps a configuration value to a policy
func ParsePolicy(s string) (InvalidationPolicy, bool) {
	switch s {
	case "redirect", "":
		return PolicyRedirect, true
	case "rerender":
		return PolicyRerender, true
	default:
		return PolicyRedirect, false
	}
}

// Transport is an http.RoundTripper that authenticates requests from the
// credential store and reacts to 401 responses.
type Transport struct {
	base        http.RoundTripper
	store       credstore.Store
	invalidator Invalidator
	navigator   Navigator
	policy      InvalidationPolicy
	logger      *zap.Logger
}

// TransportOption configures a Transport
type TransportOption func(*Transport)

// WithBase sets the underlying RoundTripper
func WithBase(rt http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.base = rt
	}
}

// WithNavigator sets where PolicyRedirect navigates
func WithNavigator(n Navigator) TransportOption {
	return func(t *Transport) {
		t.navigator = n
	}
}

// WithPolicy sets the invalidation policy
func WithPolicy(p InvalidationPolicy) TransportOption {
	return func(t *Transport) {
		t.policy = p
	}
}

// NewTransport creates a Transport reading credentials from store and
// reporting rejections to invalidator.
func NewTransport(store credstore.Store, invalidator Invalidator, logger *zap.Logger, opts ...TransportOption) *Transport {
	t := &Transport{
		base:        http.DefaultTransport,
		store:       store,
		invalidator: invalidator,
		policy:      PolicyRedirect,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	// Read on every request: another request or process may have logged out.
	if rec, ok := t.store.Get(); ok {
		out.Header.Set("Authorization", "Bearer "+rec.Credential)
	} else {
		out.Header.Del("Authorization")
	}

	requestID := out.Header.Get(RequestIDHeader)
	if requestID == "" {
		// Continue the dashboard request's id when there is one.
		if requestID = chimw.GetReqID(ctx); requestID == "" {
			requestID = uuid.NewString()
		}
		out.Header.Set(RequestIDHeader, requestID)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.logger.Warn("backend rejected credential",
			zap.String("request_id", requestID),
			zap.String("method", out.Method),
			zap.String("path", out.URL.Path))

		// Must complete before the response is handed back so the next
		// request cannot pick the rejected credential up again.
		t.invalidator.ForceInvalidate("backend rejected credential")

		if t.policy == PolicyRedirect && t.navigator != nil {
			t.navigator.NavigateToLogin(ctx)
		}
	}

	return resp, nil
}
