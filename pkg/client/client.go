// Package client provides the resilient renewables.ninja fetcher: a bounded
// in-memory cache in front of a credential pool that rotates away from
// rate-limited tokens.
package client

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/cache"
	"github.com/Sternrassler/renewables-client/pkg/credentials"
	"github.com/Sternrassler/renewables-client/pkg/logging"
	"github.com/Sternrassler/renewables-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for fetcher operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ninja_requests_total",
		Help: "Total renewables.ninja fetches by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ninja_request_duration_seconds",
		Help:    "Duration of fetches that reached the network, by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ninja_errors_total",
		Help: "Total failed fetches by error kind",
	}, []string{"kind"})

	credentialRotationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ninja_credential_rotations_total",
		Help: "Total credentials discarded after a rate-limit answer",
	})

	credentialsRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ninja_credentials_remaining",
		Help: "Credentials left in the pool",
	})
)

// Client is the resilient cached fetcher.
type Client struct {
	executor     Executor
	ownsExecutor bool
	pool         *credentials.Pool
	cache        *cache.Manager
	recorder     ratelimit.Recorder
	pacer        *ratelimit.Pacer
	logger       zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Credentials is the token pool (REQUIRED). It may be empty, in which
	// case only cached responses can be served.
	Credentials *credentials.Pool

	// CacheSize is the maximum number of cached responses.
	CacheSize int

	// Executor performs the HTTP calls. Nil creates an HTTPExecutor.
	Executor Executor

	// Timeout applies to the default executor only. Zero means none.
	Timeout time.Duration

	// Debug dumps every outgoing request, credentials included, to
	// DebugOutput. Applies to the default executor only.
	Debug       bool
	DebugOutput io.Writer

	// Recorder receives one event per request sent. Nil discards events.
	Recorder ratelimit.Recorder

	// Pacer spaces outgoing requests. Nil means unlimited.
	Pacer *ratelimit.Pacer
}

// DefaultConfig returns the default configuration for the given pool.
func DefaultConfig(pool *credentials.Pool) Config {
	return Config{
		Credentials: pool,
		CacheSize:   cache.DefaultCapacity,
		DebugOutput: os.Stderr,
		Recorder:    ratelimit.NopRecorder{},
	}
}

// New creates a new fetcher.
func New(cfg Config) (*Client, error) {
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("credential pool is required")
	}

	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("cache size must be >= 1 (got %d)", cfg.CacheSize)
	}

	cacheManager, err := cache.NewManager(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	executor := cfg.Executor
	ownsExecutor := false
	if executor == nil {
		opts := []ExecutorOption{WithTimeout(cfg.Timeout)}
		if cfg.Debug {
			out := cfg.DebugOutput
			if out == nil {
				out = os.Stderr
			}
			opts = append(opts, WithDebugDump(out))
		}
		executor = NewHTTPExecutor(opts...)
		ownsExecutor = true
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = ratelimit.NopRecorder{}
	}

	credentialsRemaining.Set(float64(cfg.Credentials.Len()))

	return &Client{
		executor:     executor,
		ownsExecutor: ownsExecutor,
		pool:         cfg.Credentials,
		cache:        cacheManager,
		recorder:     recorder,
		pacer:        cfg.Pacer,
		logger:       logging.NewLogger("ninja-client"),
	}, nil
}

// Get returns the body of a successful GET on rawURL with params.
//
// A cached response is returned without touching the network or the pool.
// Otherwise the front credential is used; a 429 discards it and the next one
// is tried immediately. Any other failure is returned as a *RequestError and
// leaves the pool unchanged. Only successful bodies are cached.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) (string, error) {
	endpoint := endpointOf(rawURL)
	key := cache.CacheKey{URL: rawURL, Params: params}

	if entry, err := c.cache.Get(key); err == nil {
		c.logger.Debug().
			Str("endpoint", endpoint).
			Bool("cache_hit", true).
			Msg("Serving cached response")
		requestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
		return entry.Body, nil
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Bool("cache_hit", false).
		Msg("Cache miss")

	startTime := time.Now()
	body, err := c.fetch(ctx, endpoint, rawURL, params)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())

	if err != nil {
		outcome := string(KindOf(err))
		if outcome == "" {
			outcome = "cancelled"
		}
		errorsTotal.WithLabelValues(outcome).Inc()
		requestsTotal.WithLabelValues(endpoint, outcome).Inc()
		return "", err
	}

	c.cache.Set(key, body)
	requestsTotal.WithLabelValues(endpoint, "ok").Inc()

	c.logger.Info().
		Str("endpoint", endpoint).
		Dur("duration", time.Since(startTime)).
		Msg("Fetched renewables.ninja profile")

	return body, nil
}

// Credentials returns the pool used by the client.
func (c *Client) Credentials() *credentials.Pool {
	return c.pool
}

// Cache returns the response cache.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

// Close releases the default executor. A caller-supplied executor is left
// open.
func (c *Client) Close() error {
	if !c.ownsExecutor {
		return nil
	}
	if closer, ok := c.executor.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// endpointOf returns the path part of rawURL for metric labels, e.g. "data/pv".
func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "unknown"
	}
	path := strings.Trim(u.Path, "/")
	path = strings.TrimPrefix(path, "api/")
	if path == "" {
		return "unknown"
	}
	return path
}
