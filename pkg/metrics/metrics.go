// Package metrics exposes the Prometheus registry used by the renewables.ninja
// client. Collectors are declared with promauto next to the code they
// measure (client, cache, ratelimit); this package only serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every package's collectors land in.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the matching gatherer for Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves every registered metric in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Fetcher Metrics (pkg/client):
//   - ninja_requests_total{endpoint, outcome} (Counter): fetches by outcome
//     (ok, cache_hit, or an error kind)
//   - ninja_request_duration_seconds{endpoint} (Histogram): duration of
//     fetches that reached the network, rotations included
//   - ninja_errors_total{kind} (Counter): failed fetches by error kind
//   - ninja_credential_rotations_total (Counter): tokens dropped after a 429
//   - ninja_credentials_remaining (Gauge): tokens left in the pool
//
// Cache Metrics (pkg/cache):
//   - ninja_cache_hits_total (Counter)
//   - ninja_cache_misses_total (Counter)
//   - ninja_cache_evictions_total (Counter): least-recently-used evictions
//   - ninja_cache_entries (Gauge)
//
// Credential Metrics (pkg/ratelimit):
//   - ninja_credential_events_total{outcome} (Counter): events stored in Redis
//   - ninja_pacer_wait_seconds (Histogram): time spent in the outbound pacer
//
// Batch Metrics (pkg/batch):
//   - ninja_batch_plants_total{status} (Counter): plants fetched by a batch
//   - ninja_batch_duration_seconds (Histogram)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(ninja_cache_hits_total[5m])) /
//   (sum(rate(ninja_cache_hits_total[5m])) + sum(rate(ninja_cache_misses_total[5m])))
//
//   # Pool running dry
//   ninja_credentials_remaining < 2
//
//   # Rotations per hour
//   increase(ninja_credential_rotations_total[1h])
//
//   # P95 fetch latency
//   histogram_quantile(0.95, rate(ninja_request_duration_seconds_bucket[5m]))
