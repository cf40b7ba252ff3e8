package cache

import (
	"github.com/nvarley/querycache/pkg/fingerprint"
	"go.uber.org/zap"
)

// ResponseCache memoizes computed results keyed by the fingerprint of a
// (query, context) pair.
//
// It is a plain value to be constructed explicitly and passed to whatever
// component needs it — never a package-level singleton — so tests can hold
// isolated instances.
type ResponseCache struct {
	store  Store
	logger *zap.Logger
}

// NewResponseCache creates a response cache over the given store.
func NewResponseCache(store Store, logger *zap.Logger) *ResponseCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseCache{
		store:  store,
		logger: logger,
	}
}

// Key returns the fingerprint a (query, context) pair maps to.
func (c *ResponseCache) Key(query string, context map[string]interface{}) (string, error) {
	return fingerprint.Key(query, context)
}

// Get returns the cached value for (query, context) if present and fresh.
// A nil context is treated as empty. The error is non-nil only when the
// context cannot be canonically serialized.
func (c *ResponseCache) Get(query string, context map[string]interface{}) (interface{}, bool, error) {
	key, err := fingerprint.Key(query, context)
	if err != nil {
		return nil, false, err
	}

	value, found := c.store.Get(key)
	if found {
		c.logger.Debug("cache-hit", zap.String("key", key))
	} else {
		c.logger.Debug("cache-miss", zap.String("key", key))
	}
	return value, found, nil
}

// Set memoizes a value for (query, context), overwriting any existing
// entry and resetting its freshness. The value is owned by the cache
// after insertion and must not be mutated by the caller.
func (c *ResponseCache) Set(query string, context map[string]interface{}, value interface{}) error {
	key, err := fingerprint.Key(query, context)
	if err != nil {
		return err
	}

	c.store.Set(key, value)
	c.logger.Debug("cache-set", zap.String("key", key))
	return nil
}

// Invalidate removes the entry for (query, context), reporting whether
// one was present.
func (c *ResponseCache) Invalidate(query string, context map[string]interface{}) (bool, error) {
	key, err := fingerprint.Key(query, context)
	if err != nil {
		return false, err
	}

	removed := c.store.Delete(key)
	c.logger.Debug("cache-invalidate",
		zap.String("key", key),
		zap.Bool("removed", removed))
	return removed, nil
}

// Clear removes all entries unconditionally.
func (c *ResponseCache) Clear() {
	c.store.Clear()
}

// SweepExpired removes expired entries, returning the count removed.
func (c *ResponseCache) SweepExpired() int {
	return c.store.SweepExpired()
}

// Close releases the underlying store's resources.
func (c *ResponseCache) Close() {
	c.store.Close()
}
