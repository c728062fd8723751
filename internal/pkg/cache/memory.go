package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// minSweepSize is the entry count below which Set never sweeps.
const minSweepSize = 64

// MemoryCache is an in-process Cache for single-instance deployments and
// tests.
//
// Expired entries are dropped lazily by Get and in bulk by Set: whenever the
// map has grown to twice its size after the previous sweep, Set removes
// every expired entry before inserting. Memory is therefore bounded by the
// number of live entries, and the sweep cost is amortised over the inserts
// that triggered it.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string]memoryEntry
	sweepAt     int
	serviceName string
	now         func() time.Time
}

func NewMemoryCache(serviceName string) *MemoryCache {
	return &MemoryCache{
		entries:     make(map[string]memoryEntry),
		sweepAt:     minSweepSize,
		serviceName: serviceName,
		now:         time.Now,
	}
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if len(m.entries) >= m.sweepAt {
		m.sweep(now)
	}

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryCache) sweep(now time.Time) {
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
		}
	}
	m.sweepAt = max(2*len(m.entries), minSweepSize)
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", nil
	}
	if e.expired(m.now()) {
		delete(m.entries, key)
		return "", nil
	}
	return e.value, nil
}

func (m *MemoryCache) GenerateKey(operation, key string) string {
	return generateKey(m.serviceName, operation, key)
}
