// Package testutil provides testing utilities for the registry fetcher.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockAPI is a configurable mock registry endpoint for testing.
// It records every request it receives so tests can assert on request
// counts and inter-request spacing.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc

	requestCount int
	requestTimes []time.Time
	paths        []string
}

// NewMockAPI creates a started mock registry server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.requestTimes = append(mock.requestTimes, time.Now())
		mock.paths = append(mock.paths, r.URL.Path)
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// defaultHandler answers any unconfigured path with a small JSON document.
func (m *MockAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"path":%q}`, r.URL.Path)
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Handle registers a custom handler for a path.
func (m *MockAPI) Handle(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// Respond registers a fixed status/body response for a path.
func (m *MockAPI) Respond(path string, status int, body string) {
	m.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	})
}

// StallThenRespond makes the first n requests to path stall for the given
// delay before answering, and every later request answer immediately with
// the body. Used to simulate per-attempt timeouts followed by recovery.
func (m *MockAPI) StallThenRespond(path string, n int, delay time.Duration, body string) {
	var mu sync.Mutex
	seen := 0
	m.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen++
		stall := seen <= n
		mu.Unlock()

		if stall {
			time.Sleep(delay)
		}
		fmt.Fprint(w, body)
	})
}

// RequestCount returns the number of requests received so far.
func (m *MockAPI) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}

// RequestTimes returns the arrival timestamps of all requests received.
func (m *MockAPI) RequestTimes() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	times := make([]time.Time, len(m.requestTimes))
	copy(times, m.requestTimes)
	return times
}

// Paths returns the request paths in arrival order.
func (m *MockAPI) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, len(m.paths))
	copy(paths, m.paths)
	return paths
}

// Reset clears all recorded requests and registered handlers.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.requestTimes = nil
	m.paths = nil
	m.handlers = make(map[string]http.HandlerFunc)
}
