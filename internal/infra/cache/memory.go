package cache

import (
	"sync"
	"time"

	"news-dashboard/internal/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Entries expire a fixed duration after
// insertion; reads do not renew them and nothing is evicted before expiry.
// Concurrent misses for the same key are not coalesced: at-most-once-per-TTL
// is a best-effort latency optimization, not a guarantee.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ domain.Cache = (*Memory)(nil)

// NewMemory creates an empty cache using the wall clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock creates a cache with an injectable clock for tests.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{entries: make(map[string]entry), now: now}
}

// GetOrCompute implements domain.Cache.
func (m *Memory) GetOrCompute(key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	if value, err := m.Get(key); err == nil {
		return value, true, nil
	}
	value, err := compute()
	if err != nil {
		return nil, false, err
	}
	_ = m.Set(key, value, ttl)
	return value, false, nil
}

// Get implements domain.Cache.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set implements domain.Cache.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}
