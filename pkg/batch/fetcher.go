// Package batch fetches the profiles of many plants in parallel.
//
// Plants are spread over a fixed worker pool sharing one fetcher, and so one
// cache and one credential pool. A failure on one plant does not stop the
// others, except for failures that every later request would repeat: an
// empty credential pool or a rejected credential cancel the remaining work.
//
// Example usage:
//
//	fleet, _ := plant.LoadFleetFile("fleet.yaml")
//	fetcher := batch.NewFetcher(ninjaClient, batch.DefaultConfig())
//	results, err := fetcher.FetchAll(ctx, fleet.Plants)
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/client"
	"github.com/Sternrassler/renewables-client/pkg/plant"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	batchPlantsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ninja_batch_plants_total",
		Help: "Plants processed by batch fetches, by status",
	}, []string{"status"})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ninja_batch_duration_seconds",
		Help:    "Duration of complete batch fetches",
		Buckets: []float64{1, 5, 15, 60, 300, 900},
	})
)

// ErrSkipped marks plants that were never fetched because the batch was
// cancelled.
var ErrSkipped = errors.New("plant skipped")

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the number of workers.
	MaxConcurrency int

	// Timeout per plant. Zero means no timeout.
	Timeout time.Duration

	// Options are passed to every plant's Profile call.
	Options plant.ProfileOptions
}

// DefaultConfig returns a conservative configuration for renewables.ninja.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        60 * time.Second,
	}
}

// Result is the outcome for one plant.
type Result struct {
	ID       string
	Kind     plant.Kind
	Profile  *plant.Profile
	Err      error
	Duration time.Duration
}

// Fetcher runs batch fetches.
type Fetcher struct {
	getter plant.Getter
	config Config
}

// NewFetcher creates a new batch fetcher.
func NewFetcher(getter plant.Getter, config Config) *Fetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = DefaultConfig().MaxConcurrency
	}

	return &Fetcher{
		getter: getter,
		config: config,
	}
}

// FetchAll fetches every plant and returns one Result per plant ID. Plant
// IDs must be unique.
//
// The returned error is non-nil only when the batch stopped early: the
// context was cancelled or a credential failure made further requests
// pointless. The results are complete in both cases; plants that were
// never attempted carry ErrSkipped.
func (f *Fetcher) FetchAll(ctx context.Context, plants []plant.Model) (map[string]Result, error) {
	start := time.Now()
	defer func() {
		batchDuration.Observe(time.Since(start).Seconds())
	}()

	log.Info().
		Int("plants", len(plants)).
		Int("workers", f.config.MaxConcurrency).
		Msg("Starting batch fetch")

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	queue := make(chan plant.Model)
	results := make(chan Result, len(plants))

	go func() {
		defer close(queue)
		for _, p := range plants {
			select {
			case queue <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < f.config.MaxConcurrency; i++ {
		wg.Add(1)
		go f.worker(ctx, cancel, queue, results, &wg, i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string]Result, len(plants))
	failed := 0
	for r := range results {
		out[r.ID] = r
		if r.Err != nil {
			failed++
			batchPlantsTotal.WithLabelValues("failed").Inc()
			continue
		}
		batchPlantsTotal.WithLabelValues("ok").Inc()
	}

	cause := context.Cause(ctx)
	skipped := 0
	for _, p := range plants {
		id := p.Base().ID
		if _, done := out[id]; done {
			continue
		}
		skipped++
		batchPlantsTotal.WithLabelValues("skipped").Inc()
		err := ErrSkipped
		if cause != nil {
			err = fmt.Errorf("%w: %w", ErrSkipped, cause)
		}
		out[id] = Result{ID: id, Kind: p.Kind(), Err: err}
	}

	logEvent := log.Info()
	if cause != nil {
		logEvent = log.Warn().Err(cause)
	}
	logEvent.
		Int("plants", len(plants)).
		Int("failed", failed).
		Int("skipped", skipped).
		Dur("duration", time.Since(start)).
		Msg("Batch fetch complete")

	if cause != nil {
		return out, fmt.Errorf("batch aborted (%d of %d plants skipped): %w", skipped, len(plants), cause)
	}
	return out, nil
}

// worker processes plants from the queue.
func (f *Fetcher) worker(ctx context.Context, cancel context.CancelCauseFunc, queue <-chan plant.Model, results chan<- Result, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for p := range queue {
		if ctx.Err() != nil {
			log.Debug().
				Int("worker_id", workerID).
				Int("plants_processed", processed).
				Msg("Worker stopping (context cancelled)")
			return
		}

		r := f.fetchOne(ctx, p)
		results <- r
		processed++

		if isFatal(r.Err) {
			log.Error().
				Err(r.Err).
				Int("worker_id", workerID).
				Str("plant", r.ID).
				Msg("Cancelling batch")
			cancel(r.Err)
			return
		}
	}

	log.Debug().
		Int("worker_id", workerID).
		Int("plants_processed", processed).
		Msg("Worker completed")
}

func (f *Fetcher) fetchOne(ctx context.Context, p plant.Model) Result {
	start := time.Now()
	base := p.Base()

	plantCtx := ctx
	if f.config.Timeout > 0 {
		var cancel context.CancelFunc
		plantCtx, cancel = context.WithTimeout(ctx, f.config.Timeout)
		defer cancel()
	}

	profile, err := p.Profile(plantCtx, f.getter, f.config.Options)
	if err != nil {
		log.Warn().
			Err(err).
			Str("plant", base.ID).
			Str("kind", string(p.Kind())).
			Msg("Plant fetch failed")
	}

	return Result{
		ID:       base.ID,
		Kind:     p.Kind(),
		Profile:  profile,
		Err:      err,
		Duration: time.Since(start),
	}
}

// isFatal reports whether err would repeat for every remaining plant.
func isFatal(err error) bool {
	return errors.Is(err, client.ErrNoCredentialsRemaining) || errors.Is(err, client.ErrInvalidCredential)
}
