package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Request is one call received by a Backend
type Request struct {
	Method    string
	Path      string
	Query     string
	Auth      string
	RequestID string
	Body      string
}

// Backend is a fake LMS API mounted under /api. Unknown routes answer 404.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Request
}

// NewBackend starts a Backend that is closed with the test
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{routes: map[string]http.HandlerFunc{}}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// BaseURL is the API base the dashboard should be configured with
func (b *Backend) BaseURL() string {
	return b.Server.URL + "/api/"
}

// On answers method and path (relative to /api) with a fixed JSON body
func (b *Backend) On(method, path string, status int, body string) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Handle answers method and path (relative to /api) with h
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	b.routes[method+" "+path] = h
	b.mu.Unlock()
}

// Requests returns a copy of every request received so far
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Find returns the first received request for method and path
func (b *Backend) Find(method, path string) (Request, bool) {
	for _, req := range b.Requests() {
		if req.Method == method && req.Path == path {
			return req, true
		}
	}
	return Request{}, false
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/api")

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:    r.Method,
		Path:      path,
		Query:     r.URL.RawQuery,
		Auth:      r.Header.Get("Authorization"),
		RequestID: r.Header.Get("X-Request-ID"),
		Body:      string(raw),
	})
	h, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	r.Body = io.NopCloser(strings.NewReader(string(raw)))
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		return
	}
	h(w, r)
}
