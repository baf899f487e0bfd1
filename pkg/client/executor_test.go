package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantBody string
		wantKind ErrorKind
	}{
		{"ok", http.StatusOK, "body", ""},
		{"rate limited", http.StatusTooManyRequests, "", KindRateLimited},
		{"forbidden", http.StatusForbidden, "", KindInvalidCredential},
		{"server error", http.StatusInternalServerError, "", KindUnhandledStatus},
		{"bad request", http.StatusBadRequest, "", KindUnhandledStatus},
		{"no content", http.StatusNoContent, "", KindUnhandledStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := classifyResponse("https://x", tt.status, "body")
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %q, want %q", got, tt.wantKind)
			}
			if tt.wantKind != "" {
				var reqErr *RequestError
				if !errors.As(err, &reqErr) || reqErr.StatusCode != tt.status {
					t.Errorf("StatusCode = %v, want %d", err, tt.status)
				}
			}
		})
	}
}

func TestHTTPExecutor_SendsHeadersAndParams(t *testing.T) {
	var gotAuth string
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	exec := NewHTTPExecutor()
	defer exec.Close()

	headers := http.Header{}
	headers.Set("Authorization", "Token secret")
	params := url.Values{"lat": {"45"}, "lon": {"11"}, "format": {"json"}}

	body, err := exec.Execute(context.Background(), server.URL+"/api/data/pv", params, headers)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if body != `{"ok": true}` {
		t.Errorf("body = %q", body)
	}
	if gotAuth != "Token secret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Token secret")
	}
	if gotQuery.Get("lat") != "45" || gotQuery.Get("format") != "json" {
		t.Errorf("query = %v", gotQuery)
	}
}

func TestHTTPExecutor_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	exec := NewHTTPExecutor(WithTimeout(2 * time.Second))
	defer exec.Close()

	_, err := exec.Execute(context.Background(), addr, nil, nil)
	if KindOf(err) != KindTransport {
		t.Errorf("KindOf(err) = %q, want transport (err = %v)", KindOf(err), err)
	}
}

func TestHTTPExecutor_DebugDump(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var buf bytes.Buffer
	exec := NewHTTPExecutor(WithDebugDump(&buf))
	defer exec.Close()

	headers := http.Header{}
	headers.Set("Authorization", "Token dump-me")

	if _, err := exec.Execute(context.Background(), server.URL+"/api/data/wind", url.Values{"lat": {"45"}}, headers); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"/api/data/wind", "dump-me", "lat"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug dump %q does not contain %q", out, want)
		}
	}
}

func TestHTTPExecutor_NoDumpByDefault(t *testing.T) {
	exec := NewHTTPExecutor()
	defer exec.Close()

	if exec.debug {
		t.Error("debug enabled by default")
	}
}
