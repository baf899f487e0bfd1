package cache

import (
	"net/url"
	"strings"
)

// CacheKey identifies a cached renewables.ninja response.
type CacheKey struct {
	// URL is the full endpoint URL (e.g., "https://www.renewables.ninja/api/data/pv")
	URL string

	// Params are the query parameters sent with the request
	Params url.Values
}

// String generates a deterministic cache key string.
// Parameters are sorted by name and URL-encoded, so map iteration order
// never changes the key.
//
// Example:
//
//	ninja:https://www.renewables.ninja/api/data/pv?lat=45&lon=11
func (k CacheKey) String() string {
	var b strings.Builder
	b.WriteString("ninja:")
	b.WriteString(k.URL)

	if len(k.Params) > 0 {
		b.WriteByte('?')
		b.WriteString(k.Params.Encode())
	}

	return b.String()
}
