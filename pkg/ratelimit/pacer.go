package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var pacerWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "ninja_pacer_wait_seconds",
	Help:    "Time spent waiting for the outbound request pacer",
	Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
})

// Pacer spaces outgoing requests. A nil Pacer never waits.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer allowing rps requests per second with the given
// burst. A non-positive rps disables pacing.
func NewPacer(rps float64, burst int) *Pacer {
	if burst < 1 {
		burst = 1
	}

	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}

	return &Pacer{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.Unlimited() {
		return nil
	}

	start := time.Now()
	err := p.limiter.Wait(ctx)
	pacerWaitSeconds.Observe(time.Since(start).Seconds())
	return err
}

// Unlimited reports whether the pacer lets every request through.
func (p *Pacer) Unlimited() bool {
	return p == nil || p.limiter.Limit() == rate.Inf
}
