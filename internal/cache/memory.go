package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AhemdNada/alx-company/internal/metrics"
)

// Memory is the default process-local Store. Expiry is checked lazily on Get;
// a periodic sweeper evicts dead entries so the map does not grow unbounded.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an in-memory cache whose entries expire ttl after their
// last Set.
func NewMemory(ttl time.Duration, clock clockwork.Clock) *Memory {
	return &Memory{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the cached value if present and younger than the TTL.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}

	// Expired entries count as misses. They are not deleted here (read lock
	// only); the sweeper reclaims them.
	if m.clock.Now().After(entry.expiresAt) {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}

	metrics.CacheHitsTotal.Inc()
	return entry.value, true
}

// Set stores value under key, overwriting any prior entry and resetting the TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = &memoryEntry{
		value:     value,
		expiresAt: m.clock.Now().Add(m.ttl),
	}
}

// Delete removes the entry for key if present.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Size returns the current number of entries, including expired ones.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// EvictExpired removes all expired entries and returns how many were evicted.
func (m *Memory) EvictExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	evicted := 0
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
			evicted++
		}
	}
	return evicted
}

// StartSweeper starts a background goroutine that evicts expired entries
// every interval. It returns a stop function.
func (m *Memory) StartSweeper(interval time.Duration) func() {
	ticker := m.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				evicted := m.EvictExpired()
				if evicted > 0 {
					slog.Debug("Evicted expired cache entries", "count", evicted, "remaining", m.Size())
					metrics.CacheEvictions.Add(float64(evicted))
				}
				metrics.CacheSize.Set(float64(m.Size()))
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
