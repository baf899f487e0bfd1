package cache

import "time"

// Entry is a cached response body.
type Entry struct {
	// Body is the raw text returned with HTTP 200
	Body string

	// StoredAt is when the body was cached
	StoredAt time.Time
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age() time.Duration {
	if e.StoredAt.IsZero() {
		return 0
	}
	return time.Since(e.StoredAt)
}
