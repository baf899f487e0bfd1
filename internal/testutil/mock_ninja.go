// Package testutil provides a mock renewables.ninja API for tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"
)

// SamplePVBody is a three-hour PV profile as returned with metadata=false.
const SamplePVBody = `{
	"1388534400000": {"electricity": 0.0},
	"1388538000000": {"electricity": 0.412},
	"1388541600000": {"electricity": 1.25}
}`

// SampleWindBody is a three-hour wind profile as returned with metadata=false.
const SampleWindBody = `{
	"1388534400000": {"electricity": 512.3},
	"1388538000000": {"electricity": 640.0},
	"1388541600000": {"electricity": 0.0}
}`

// SampleRawPVBody is a raw PV profile including irradiance columns.
const SampleRawPVBody = `{
	"1388534400000": {"electricity": 0.0, "irradiance_direct": 0.0, "irradiance_diffuse": 0.0, "temperature": 3.1},
	"1388538000000": {"electricity": 0.3, "irradiance_direct": 0.2, "irradiance_diffuse": 0.1, "temperature": 4.0},
	"1388541600000": {"electricity": 0.9, "irradiance_direct": 0.5, "irradiance_diffuse": 0.25, "temperature": 5.2}
}`

// RecordedRequest is one request received by the mock.
type RecordedRequest struct {
	Token string
	Path  string
	Query url.Values
}

// MockNinja is a configurable mock renewables.ninja server.
//
// Every token answers 200 with the configured body unless it was given a
// status with SetTokenStatus or a quota with SetTokenQuota. Requests without
// an "Authorization: Token <t>" header are answered with 403.
type MockNinja struct {
	server *httptest.Server
	mu     sync.Mutex

	bodies      map[string]string
	tokenStatus map[string]int
	tokenQuota  map[string]int
	delay       time.Duration
	requests    []RecordedRequest
}

// NewMockNinja creates and starts a new mock server.
func NewMockNinja() *MockNinja {
	mock := &MockNinja{
		bodies: map[string]string{
			"/api/data/pv":   SamplePVBody,
			"/api/data/wind": SampleWindBody,
		},
		tokenStatus: make(map[string]int),
		tokenQuota:  make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

// URL returns the API base URL, ending in "/api/".
func (m *MockNinja) URL() string {
	return m.server.URL + "/api/"
}

// Close shuts down the mock server.
func (m *MockNinja) Close() {
	m.server.Close()
}

// SetBody sets the 200 body returned for path, e.g. "/api/data/pv".
func (m *MockNinja) SetBody(path, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[path] = body
}

// SetTokenStatus makes every request with token answer status.
func (m *MockNinja) SetTokenStatus(token string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenStatus[token] = status
}

// SetTokenQuota lets token succeed n times, then answers 429.
func (m *MockNinja) SetTokenQuota(token string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenQuota[token] = n
}

// SetDelay delays every answer.
func (m *MockNinja) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// RequestCount returns the number of requests received.
func (m *MockNinja) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the received requests in arrival order.
func (m *MockNinja) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// TokensSeen returns the token of every request in arrival order.
func (m *MockNinja) TokensSeen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.requests))
	for i, r := range m.requests {
		out[i] = r.Token
	}
	return out
}

// Reset clears the recorded requests.
func (m *MockNinja) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

func (m *MockNinja) handle(w http.ResponseWriter, r *http.Request) {
	token, hasToken := strings.CutPrefix(r.Header.Get("Authorization"), "Token ")

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Token: token,
		Path:  r.URL.Path,
		Query: r.URL.Query(),
	})
	delay := m.delay
	status, fixed := m.tokenStatus[token]
	if !fixed {
		status = http.StatusOK
		if quota, limited := m.tokenQuota[token]; limited {
			if quota <= 0 {
				status = http.StatusTooManyRequests
			} else {
				m.tokenQuota[token] = quota - 1
			}
		}
	}
	body, known := m.bodies[r.URL.Path]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	w.Header().Set("Content-Type", "application/json")

	switch {
	case !hasToken || token == "":
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "Authentication credentials were not provided."}`))
	case status == http.StatusTooManyRequests:
		w.WriteHeader(status)
		w.Write([]byte(`{"detail": "Request was throttled."}`))
	case status != http.StatusOK:
		w.WriteHeader(status)
		w.Write([]byte(`{"detail": "error"}`))
	case !known:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Not found."}`))
	default:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
