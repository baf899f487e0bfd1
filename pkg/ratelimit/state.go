// Package ratelimit records how renewables.ninja credentials are used and
// optionally paces outgoing requests.
//
// Usage counters are kept per credential fingerprint in Redis so several
// processes sharing a token set can see which tokens are burning through
// their quota. Raw tokens are never written to Redis, and cached responses
// are never stored there.
package ratelimit

import (
	"time"
)

// Redis keys for credential usage storage.
const (
	// RedisKeyPrefix prefixes the per-credential hash: ninja:credential:<fingerprint>
	RedisKeyPrefix = "ninja:credential:"

	// RedisKeyIndex is the set of every fingerprint seen so far.
	RedisKeyIndex = "ninja:credentials"
)

// Hash fields of a credential record.
const (
	fieldRequests    = "requests"
	fieldRateLimited = "rate_limited"
	fieldInvalid     = "invalid"
	fieldErrors      = "errors"
	fieldLastUpdate  = "last_update"
)

// CredentialState is the recorded usage of one credential.
type CredentialState struct {
	// Fingerprint identifies the credential (see credentials.Fingerprint).
	Fingerprint string `json:"fingerprint"`

	// Requests is the number of requests sent with this credential.
	Requests int64 `json:"requests"`

	// RateLimited counts HTTP 429 answers.
	RateLimited int64 `json:"rate_limited"`

	// Invalid counts HTTP 403 answers.
	Invalid int64 `json:"invalid"`

	// Errors counts any other failure.
	Errors int64 `json:"errors"`

	// LastUpdate is when the credential was last used.
	LastUpdate time.Time `json:"last_update"`
}

// IsStale returns true if the credential has not been used within maxAge.
func (s *CredentialState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// RateLimitRatio returns the share of requests answered with 429.
func (s *CredentialState) RateLimitRatio() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.RateLimited) / float64(s.Requests)
}

// Exhausted reports whether the credential has hit its quota at least once.
func (s *CredentialState) Exhausted() bool {
	return s.RateLimited > 0
}

// Healthy reports whether the credential never failed with 429 or 403.
func (s *CredentialState) Healthy() bool {
	return s.RateLimited == 0 && s.Invalid == 0
}
