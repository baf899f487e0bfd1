// Package credentials holds the ordered pool of renewables.ninja API tokens.
//
// Tokens are consumed from the front. A token is removed for good once the
// API reports it rate-limited; when the pool is empty every further request
// fails.
package credentials

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

// Pool is an ordered, shrinking set of credentials safe for concurrent use.
type Pool struct {
	mu     sync.Mutex
	tokens []string
}

// NewPool creates a pool that keeps the given order. Empty tokens are dropped.
func NewPool(tokens []string) *Pool {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	return &Pool{tokens: kept}
}

// FromList parses a path-list separated token string (":" on unix) and
// returns a pool in shuffled order.
func FromList(raw string) *Pool {
	return NewPool(Shuffle(ParseList(raw)))
}

// ParseList splits raw on os.PathListSeparator and drops blank entries.
func ParseList(raw string) []string {
	var tokens []string
	for _, part := range strings.Split(raw, string(os.PathListSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// Shuffle returns a shuffled copy of tokens; the input is not modified.
func Shuffle(tokens []string) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Front returns the credential currently in use.
func (p *Pool) Front() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tokens) == 0 {
		return "", false
	}
	return p.tokens[0], true
}

// Discard removes the front credential if it is still token. It reports
// whether a credential was removed, so two callers that saw the same token
// rate-limited only shrink the pool once.
func (p *Pool) Discard(token string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tokens) == 0 || p.tokens[0] != token {
		return false
	}
	p.tokens[0] = ""
	p.tokens = p.tokens[1:]
	return true
}

// Len returns the number of credentials left.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokens)
}

// Snapshot returns a copy of the remaining credentials in order.
func (p *Pool) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.tokens))
	copy(out, p.tokens)
	return out
}

// Fingerprint identifies a token in logs, errors and metrics without
// revealing it.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])[:12]
}
