package storage

import (
	"context"
	"time"
)

// LookupRecord is an audit record for a single cache lookup.
// Only metadata is persisted; cached values themselves never leave memory.
type LookupRecord struct {
	ID         string // uuid assigned by the gateway
	Query      string
	Key        string // fingerprint of (query, context)
	Hit        bool
	DurationMS float64
	ResolvedAt time.Time
}

// Storage is the interface for persisting cache lookup records.
type Storage interface {
	// RecordLookup persists a lookup record.
	RecordLookup(ctx context.Context, rec *LookupRecord) error

	// Close closes the storage connection.
	Close() error
}
