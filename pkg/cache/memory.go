package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// entry is a stored value with its insertion timestamp.
type entry struct {
	value     interface{}
	createdAt time.Time
}

// MemoryStore is a map-backed Store with lazy eviction.
//
// An entry is fresh iff now - createdAt <= ttl; the boundary is inclusive.
// Expired entries are removed opportunistically on Get or in bulk by
// SweepExpired — the store never runs a background sweep of its own, so
// periodic sweeping is the embedding system's responsibility.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     Clock
	logger  *zap.Logger
}

// MemoryConfig holds configuration for a MemoryStore.
type MemoryConfig struct {
	TTL    time.Duration
	Clock  Clock // defaults to time.Now
	Logger *zap.Logger
}

// NewMemoryStore creates a new map-backed store.
// Fails with ErrInvalidTTL when cfg.TTL <= 0.
func NewMemoryStore(cfg *MemoryConfig) (*MemoryStore, error) {
	if cfg.TTL <= 0 {
		return nil, ErrInvalidTTL
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     cfg.TTL,
		now:     now,
		logger:  logger,
	}, nil
}

// Get retrieves a value, evicting it first if it has expired.
// Holds the write lock throughout: a Get that observes an expired entry
// deletes it, and two concurrent Gets must not race on that removal.
func (m *MemoryStore) Get(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		MissesTotal.Inc()
		return nil, false
	}

	if m.expired(e) {
		delete(m.entries, key)
		EntriesGauge.Dec()
		ExpiredEvictionsTotal.Inc()
		MissesTotal.Inc()
		m.logger.Debug("cache-entry-expired", zap.String("key", key))
		return nil, false
	}

	HitsTotal.Inc()
	return e.value, true
}

// Set inserts or overwrites a value. Overwriting always resets freshness,
// even when an unexpired entry already existed.
func (m *MemoryStore) Set(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok {
		EntriesGauge.Inc()
	}
	m.entries[key] = entry{value: value, createdAt: m.now()}
	SetsTotal.Inc()
}

// Delete removes a value, reporting whether one was present.
// An expired-but-unswept entry still counts as present.
func (m *MemoryStore) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	if ok {
		delete(m.entries, key)
		EntriesGauge.Dec()
		DeletesTotal.Inc()
	}
	return ok
}

// Clear removes all entries unconditionally.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	EntriesGauge.Sub(float64(len(m.entries)))
	m.entries = make(map[string]entry)
	m.logger.Info("cache-cleared")
}

// SweepExpired scans all entries and removes the expired ones, returning
// the count removed.
func (m *MemoryStore) SweepExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, key)
			removed++
		}
	}

	if removed > 0 {
		EntriesGauge.Sub(float64(removed))
		ExpiredEvictionsTotal.Add(float64(removed))
		m.logger.Debug("cache-swept", zap.Int("removed", removed))
	}
	SweepsTotal.Inc()

	return removed
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() {}

// Len returns the number of entries currently held, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// expired reports whether an entry is past its TTL. Callers hold m.mu.
func (m *MemoryStore) expired(e entry) bool {
	return m.now().Sub(e.createdAt) > m.ttl
}
