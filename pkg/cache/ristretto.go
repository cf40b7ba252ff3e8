package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

// RistrettoStore is a Store backed by Ristretto.
//
// Admission is probabilistic and expiry runs inside Ristretto, so this
// backend is approximate: a Set may not be admitted, the inclusive TTL
// boundary of MemoryStore is not guaranteed, and SweepExpired always
// returns 0. Use it when capacity bounding matters more than exact
// expiry semantics.
type RistrettoStore struct {
	cache  *ristretto.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// RistrettoConfig holds configuration for a RistrettoStore.
type RistrettoConfig struct {
	TTL      time.Duration
	MaxItems int64 // maximum number of cached entries
	Logger   *zap.Logger
}

// NewRistrettoStore creates a new Ristretto-backed store.
// Fails with ErrInvalidTTL when cfg.TTL <= 0.
func NewRistrettoStore(cfg *RistrettoConfig) (*RistrettoStore, error) {
	if cfg.TTL <= 0 {
		return nil, ErrInvalidTTL
	}

	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 10000
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10, // 10x max items, per Ristretto guidance
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &RistrettoStore{
		cache:  cache,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// Get retrieves a value from the cache.
func (r *RistrettoStore) Get(key string) (interface{}, bool) {
	value, found := r.cache.Get(key)
	if found {
		HitsTotal.Inc()
	} else {
		MissesTotal.Inc()
	}
	return value, found
}

// Set stores a value with the store-wide TTL.
// Cost = 1: entries are counted, not sized.
func (r *RistrettoStore) Set(key string, value interface{}) {
	if r.cache.SetWithTTL(key, value, 1, r.ttl) {
		SetsTotal.Inc()
	}
}

// Delete removes a value, reporting whether one was present.
func (r *RistrettoStore) Delete(key string) bool {
	_, found := r.cache.Get(key)
	r.cache.Del(key)
	if found {
		DeletesTotal.Inc()
	}
	return found
}

// Clear removes all values from the cache.
func (r *RistrettoStore) Clear() {
	r.cache.Clear()
	r.logger.Info("cache-cleared")
}

// SweepExpired is a no-op: Ristretto expires entries internally.
func (r *RistrettoStore) SweepExpired() int {
	SweepsTotal.Inc()
	return 0
}

// Close closes the cache and releases resources.
func (r *RistrettoStore) Close() {
	r.cache.Close()
}

// Wait blocks until all pending writes have been applied. Useful in tests,
// where a value must be observable immediately after Set.
func (r *RistrettoStore) Wait() {
	r.cache.Wait()
}
