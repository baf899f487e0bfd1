package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"
)

// Executor performs a single GET request and classifies its outcome.
//
// A 200 answer yields the body text. Every other outcome is a *RequestError
// of kind KindRateLimited (429), KindInvalidCredential (403),
// KindUnhandledStatus or KindTransport.
type Executor interface {
	Execute(ctx context.Context, rawURL string, params url.Values, headers http.Header) (string, error)
}

// ExecutorOption configures an HTTPExecutor.
type ExecutorOption func(*HTTPExecutor)

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *HTTPExecutor) {
		e.client.SetTimeout(d)
	}
}

// WithDebugDump writes URL, headers and params of every request to w before
// it is sent. The dump contains the raw credentials.
func WithDebugDump(w io.Writer) ExecutorOption {
	return func(e *HTTPExecutor) {
		e.dump = zerolog.New(w).With().Timestamp().Logger()
		e.debug = true
	}
}

// HTTPExecutor is the resty-backed Executor.
type HTTPExecutor struct {
	client *resty.Client
	debug  bool
	dump   zerolog.Logger
}

// NewHTTPExecutor creates an executor with its own HTTP client. Resty
// retries are left disabled; credential rotation happens in Client.
func NewHTTPExecutor(opts ...ExecutorOption) *HTTPExecutor {
	e := &HTTPExecutor{
		client: resty.New().
			SetHeader("Accept", "application/json").
			SetRetryCount(0),
		dump: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute implements Executor.
func (e *HTTPExecutor) Execute(ctx context.Context, rawURL string, params url.Values, headers http.Header) (string, error) {
	if e.debug {
		e.dump.Log().
			Str("url", rawURL).
			Interface("headers", headers).
			Interface("params", params).
			Msg("renewables.ninja request")
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetHeaderMultiValues(headers).
		SetQueryParamsFromValues(params).
		Get(rawURL)
	if err != nil {
		return "", &RequestError{Kind: KindTransport, URL: rawURL, Err: err}
	}

	return classifyResponse(rawURL, resp.StatusCode(), string(resp.Bytes()))
}

// Close releases the underlying HTTP client.
func (e *HTTPExecutor) Close() error {
	return e.client.Close()
}

// classifyResponse maps a status code to the body or a RequestError.
func classifyResponse(rawURL string, status int, body string) (string, error) {
	switch status {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		return "", &RequestError{Kind: KindRateLimited, StatusCode: status, URL: rawURL}
	case http.StatusForbidden:
		return "", &RequestError{Kind: KindInvalidCredential, StatusCode: status, URL: rawURL}
	default:
		return "", &RequestError{Kind: KindUnhandledStatus, StatusCode: status, URL: rawURL}
	}
}
