package cache

import (
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is the number of responses kept when no size is configured.
const DefaultCapacity = 2048

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidCapacity indicates a non-positive cache size
	ErrInvalidCapacity = errors.New("cache capacity must be positive")
)

// Manager is a bounded least-recently-used response store.
// It is safe for concurrent use.
type Manager struct {
	lru      *lru.Cache[string, Entry]
	capacity int
}

// NewManager creates a cache manager holding at most capacity entries.
func NewManager(capacity int) (*Manager, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, capacity)
	}

	store, err := lru.New[string, Entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &Manager{
		lru:      store,
		capacity: capacity,
	}, nil
}

// Get retrieves an entry and marks it as recently used.
// Returns ErrCacheMiss if the key is not cached.
func (m *Manager) Get(key CacheKey) (*Entry, error) {
	entry, ok := m.lru.Get(key.String())
	if !ok {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.Inc()
	return &entry, nil
}

// Peek retrieves an entry without touching its recency.
func (m *Manager) Peek(key CacheKey) (*Entry, bool) {
	entry, ok := m.lru.Peek(key.String())
	if !ok {
		return nil, false
	}
	return &entry, true
}

// Set stores a successful response body, evicting the least recently used
// entry when the cache is full.
func (m *Manager) Set(key CacheKey, body string) {
	evicted := m.lru.Add(key.String(), Entry{
		Body:     body,
		StoredAt: time.Now(),
	})
	if evicted {
		CacheEvictions.Inc()
	}
	CacheEntries.Set(float64(m.lru.Len()))
}

// Delete removes an entry.
func (m *Manager) Delete(key CacheKey) {
	m.lru.Remove(key.String())
	CacheEntries.Set(float64(m.lru.Len()))
}

// Purge drops every entry.
func (m *Manager) Purge() {
	m.lru.Purge()
	CacheEntries.Set(0)
}

// Len returns the number of cached entries.
func (m *Manager) Len() int {
	return m.lru.Len()
}

// Capacity returns the maximum number of entries.
func (m *Manager) Capacity() int {
	return m.capacity
}
