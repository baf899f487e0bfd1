// Command ninja-proxy serves renewables.ninja profiles over HTTP through one
// shared cache and credential pool.
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Sternrassler/renewables-client/internal/config"
	"github.com/Sternrassler/renewables-client/pkg/client"
	"github.com/Sternrassler/renewables-client/pkg/geo"
	"github.com/Sternrassler/renewables-client/pkg/logging"
	"github.com/Sternrassler/renewables-client/pkg/metrics"
	"github.com/Sternrassler/renewables-client/pkg/plant"
	"github.com/rs/zerolog"
)

const requestTimeout = 60 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ninja-proxy:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Setup(cfg.Logging())
	logger := logging.NewLogger("ninja-proxy")

	session, err := cfg.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create renewables.ninja client: %w", err)
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Ping(ctx); err != nil {
		logger.Error().Err(err).Str("redis_url", cfg.RedisURL).Msg("Failed to connect to Redis")
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	p := &proxy{
		getter:  session.Client,
		ready:   func(ctx context.Context) error { return readiness(ctx, session) },
		baseURL: cfg.BaseURL,
		timeout: requestTimeout,
		logger:  logger,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           p.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("base_url", cfg.BaseURL).
		Int("credentials", session.Client.Credentials().Len()).
		Msg("Starting renewables.ninja proxy")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info().Msg("Server stopped")
	return nil
}

func readiness(ctx context.Context, s *config.Session) error {
	if s.Client.Credentials().Len() == 0 {
		return errors.New("no credentials remaining")
	}
	return s.Ping(ctx)
}

// proxy holds the handler dependencies.
type proxy struct {
	getter  plant.Getter
	ready   func(context.Context) error
	baseURL string
	timeout time.Duration
	logger  zerolog.Logger
}

func (p *proxy) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", p.readyHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/profile/pv", p.profileHandler("data/pv"))
	mux.HandleFunc("/profile/wind", p.profileHandler("data/wind"))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func (p *proxy) readyHandler(w http.ResponseWriter, r *http.Request) {
	if p.ready != nil {
		if err := p.ready(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("not ready: %v", err), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "READY")
}

// profileHandler forwards the query string to endpoint after snapping
// lat and lon to the request grid.
func (p *proxy) profileHandler(endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		params, err := normalizeQuery(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), p.timeout)
		defer cancel()

		opts := plant.ProfileOptions{BaseURL: p.baseURL}
		body, err := p.getter.Get(ctx, opts.Endpoint(endpoint), params)
		if err != nil {
			status := statusFor(err)
			p.logger.Warn().
				Err(err).
				Str("endpoint", endpoint).
				Int("status_code", status).
				Msg("Profile request failed")
			http.Error(w, fmt.Sprintf("renewables.ninja request failed: %v", err), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(body)); err != nil {
			p.logger.Error().Err(err).Msg("Failed to write response")
		}
	}
}

// normalizeQuery validates lat and lon, snaps them to the grid and defaults
// format to json. Other parameters pass through unchanged.
func normalizeQuery(q url.Values) (url.Values, error) {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}

	lat, err := parseCoord(q, "lat")
	if err != nil {
		return nil, err
	}
	lon, err := parseCoord(q, "lon")
	if err != nil {
		return nil, err
	}

	rounded := geo.Round(lat, lon)
	out.Set("lat", strconv.FormatFloat(rounded[0], 'f', -1, 64))
	out.Set("lon", strconv.FormatFloat(rounded[1], 'f', -1, 64))

	if out.Get("format") == "" {
		out.Set("format", "json")
	}
	return out, nil
}

func parseCoord(q url.Values, name string) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// statusFor maps a fetch error to the status returned to the caller.
func statusFor(err error) int {
	switch client.KindOf(err) {
	case client.KindNoCredentialsRemaining, client.KindRateLimited:
		return http.StatusServiceUnavailable
	case client.KindInvalidCredential, client.KindUnhandledStatus:
		return http.StatusBadGateway
	case client.KindTransport:
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
