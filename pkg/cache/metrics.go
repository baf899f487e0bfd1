package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks responses served from memory
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ninja_cache_hits_total",
			Help: "Total number of renewables.ninja cache hits",
		},
	)

	// CacheMisses tracks lookups that required a request
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ninja_cache_misses_total",
			Help: "Total number of renewables.ninja cache misses",
		},
	)

	// CacheEvictions tracks least-recently-used evictions
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ninja_cache_evictions_total",
			Help: "Total number of entries evicted because the cache was full",
		},
	)

	// CacheEntries tracks the current number of cached responses
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ninja_cache_entries",
			Help: "Current number of cached renewables.ninja responses",
		},
	)
)
