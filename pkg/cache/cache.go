// Package cache provides an in-memory TTL response cache keyed by a
// deterministic fingerprint of (query, context).
package cache

import (
	"errors"
	"time"
)

// ErrInvalidTTL is returned when a store is constructed with a zero or
// negative TTL. Such a cache would treat every entry as expired on
// insertion, which is a caller logic error worth surfacing eagerly.
var ErrInvalidTTL = errors.New("cache: ttl must be positive")

// Clock returns the current instant. Injectable so expiry tests can
// control elapsed time without sleeping.
type Clock func() time.Time

// Store is a string-keyed store with a cache-wide TTL fixed at
// construction.
type Store interface {
	// Get retrieves a value.
	// Returns (value, true) if present and fresh, (nil, false) otherwise.
	Get(key string) (interface{}, bool)

	// Set inserts or overwrites a value with a fresh timestamp.
	// Stored values are owned by the store after Set; callers must not
	// mutate them afterwards.
	Set(key string, value interface{})

	// Delete removes a value, reporting whether one was present.
	Delete(key string) bool

	// Clear removes all values unconditionally.
	Clear()

	// SweepExpired removes every expired entry and returns the count
	// removed. Stores that expire entries internally may return 0.
	SweepExpired() int

	// Close releases any resources held by the store.
	Close()
}
