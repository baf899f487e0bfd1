// Package cache stores successful renewables.ninja responses in memory.
//
// Responses are keyed by the request URL and its full parameter set; the
// credential that fetched a response is not part of the key, so any
// credential can be served a cached body. The store is bounded and evicts
// the least recently used entry once full. Entries never expire by time and
// are lost when the process exits.
//
// # Basic Usage
//
//	manager, err := cache.NewManager(cache.DefaultCapacity)
//	if err != nil {
//		return err
//	}
//
//	key := cache.CacheKey{
//		URL:    "https://www.renewables.ninja/api/data/pv",
//		Params: url.Values{"lat": {"45"}, "lon": {"11"}},
//	}
//
//	entry, err := manager.Get(key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch, then manager.Set(key, body)
//	}
//
// Coordinates should be normalized with package geo before building the
// parameters, otherwise nearby plants never share an entry.
//
// # Metrics
//
//   - ninja_cache_hits_total
//   - ninja_cache_misses_total
//   - ninja_cache_evictions_total
//   - ninja_cache_entries
package cache
