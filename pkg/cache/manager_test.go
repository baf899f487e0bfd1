package cache

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func keyFor(i int) CacheKey {
	return CacheKey{
		URL:    "https://www.renewables.ninja/api/data/pv",
		Params: url.Values{"lat": []string{fmt.Sprint(i)}},
	}
}

func TestNewManager(t *testing.T) {
	manager, err := NewManager(10)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if manager.Capacity() != 10 {
		t.Errorf("Capacity() = %d, want 10", manager.Capacity())
	}
	if manager.Len() != 0 {
		t.Errorf("Len() = %d, want 0", manager.Len())
	}
}

func TestNewManager_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		_, err := NewManager(capacity)
		if !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("NewManager(%d) error = %v, want ErrInvalidCapacity", capacity, err)
		}
	}
}

func TestManager_SetAndGet(t *testing.T) {
	manager, _ := NewManager(DefaultCapacity)
	key := keyFor(1)

	manager.Set(key, `{"data": {}}`)

	entry, err := manager.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Body != `{"data": {}}` {
		t.Errorf("Body = %q, want %q", entry.Body, `{"data": {}}`)
	}
	if entry.StoredAt.IsZero() {
		t.Error("StoredAt was not set")
	}
}

func TestManager_Get_CacheMiss(t *testing.T) {
	manager, _ := NewManager(DefaultCapacity)

	before := testutil.ToFloat64(CacheMisses)
	_, err := manager.Get(keyFor(404))
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
	if got := testutil.ToFloat64(CacheMisses) - before; got != 1 {
		t.Errorf("misses increased by %v, want 1", got)
	}
}

func TestManager_EvictsLeastRecentlyUsed(t *testing.T) {
	manager, _ := NewManager(3)

	manager.Set(keyFor(1), "one")
	manager.Set(keyFor(2), "two")
	manager.Set(keyFor(3), "three")

	// touch 1 so that 2 becomes the oldest
	if _, err := manager.Get(keyFor(1)); err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}

	before := testutil.ToFloat64(CacheEvictions)
	manager.Set(keyFor(4), "four")

	if got := testutil.ToFloat64(CacheEvictions) - before; got != 1 {
		t.Errorf("evictions increased by %v, want 1", got)
	}
	if _, err := manager.Get(keyFor(2)); err != ErrCacheMiss {
		t.Errorf("key 2 should have been evicted, got err = %v", err)
	}
	for _, i := range []int{1, 3, 4} {
		if _, err := manager.Get(keyFor(i)); err != nil {
			t.Errorf("key %d should still be cached: %v", i, err)
		}
	}
	if manager.Len() != 3 {
		t.Errorf("Len() = %d, want 3", manager.Len())
	}
}

func TestManager_PeekDoesNotRefresh(t *testing.T) {
	manager, _ := NewManager(2)

	manager.Set(keyFor(1), "one")
	manager.Set(keyFor(2), "two")

	if _, ok := manager.Peek(keyFor(1)); !ok {
		t.Fatal("Peek(1) missed")
	}

	manager.Set(keyFor(3), "three")

	if _, ok := manager.Peek(keyFor(1)); ok {
		t.Error("key 1 should have been evicted despite Peek")
	}
}

func TestManager_OverwriteKeepsSize(t *testing.T) {
	manager, _ := NewManager(2)

	manager.Set(keyFor(1), "old")
	manager.Set(keyFor(1), "new")

	entry, err := manager.Get(keyFor(1))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Body != "new" {
		t.Errorf("Body = %q, want new", entry.Body)
	}
	if manager.Len() != 1 {
		t.Errorf("Len() = %d, want 1", manager.Len())
	}
}

func TestManager_DeleteAndPurge(t *testing.T) {
	manager, _ := NewManager(5)

	manager.Set(keyFor(1), "one")
	manager.Set(keyFor(2), "two")

	manager.Delete(keyFor(1))
	if _, ok := manager.Peek(keyFor(1)); ok {
		t.Error("key 1 still cached after Delete")
	}

	manager.Purge()
	if manager.Len() != 0 {
		t.Errorf("Len() after Purge = %d, want 0", manager.Len())
	}
}
