// Package gateway resolves queries through the response cache, falling
// back to the upstream resolver on a miss.
package gateway

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nvarley/querycache/internal/storage"
	"github.com/nvarley/querycache/pkg/cache"
	"go.uber.org/zap"
)

// Upstream produces fresh results for cache misses.
type Upstream interface {
	Resolve(ctx context.Context, query string, queryCtx map[string]interface{}) (json.RawMessage, error)
}

// Service memoizes upstream resolutions.
type Service struct {
	cache    *cache.ResponseCache
	upstream Upstream
	storage  storage.Storage
	logger   *zap.Logger
}

// Config holds service configuration.
type Config struct {
	Cache    *cache.ResponseCache
	Upstream Upstream
	Storage  storage.Storage
	Logger   *zap.Logger
}

// New creates a new gateway service.
func New(cfg *Config) *Service {
	return &Service{
		cache:    cfg.Cache,
		upstream: cfg.Upstream,
		storage:  cfg.Storage,
		logger:   cfg.Logger,
	}
}

// Result is the outcome of a resolve.
type Result struct {
	Value  interface{}
	Key    string
	Cached bool
}

// Resolve returns the cached value for (query, context) when fresh,
// otherwise calls the upstream resolver and memoizes its response.
// Every lookup is recorded to storage, best-effort.
func (s *Service) Resolve(ctx context.Context, query string, queryCtx map[string]interface{}) (*Result, error) {
	start := time.Now()

	key, err := s.cache.Key(query, queryCtx)
	if err != nil {
		return nil, err
	}

	value, found, err := s.cache.Get(query, queryCtx)
	if err != nil {
		return nil, err
	}
	if found {
		ResolveDuration.Observe(time.Since(start).Seconds())
		s.recordLookup(ctx, query, key, true, start)
		return &Result{Value: value, Key: key, Cached: true}, nil
	}

	raw, err := s.upstream.Resolve(ctx, query, queryCtx)
	if err != nil {
		UpstreamErrorsTotal.Inc()
		return nil, fmt.Errorf("resolve upstream: %w", err)
	}

	err = s.cache.Set(query, queryCtx, raw)
	if err != nil {
		return nil, err
	}

	ResolveDuration.Observe(time.Since(start).Seconds())
	s.recordLookup(ctx, query, key, false, start)

	return &Result{Value: raw, Key: key, Cached: false}, nil
}

// Invalidate removes the cached entry for (query, context).
func (s *Service) Invalidate(query string, queryCtx map[string]interface{}) (bool, error) {
	return s.cache.Invalidate(query, queryCtx)
}

// Clear drops every cached entry.
func (s *Service) Clear() {
	s.cache.Clear()
}

// SweepExpired removes expired entries, returning the count removed.
func (s *Service) SweepExpired() int {
	return s.cache.SweepExpired()
}

// recordLookup persists an audit record for one lookup. A storage failure
// is logged and counted, never surfaced to the caller.
func (s *Service) recordLookup(ctx context.Context, query, key string, hit bool, start time.Time) {
	if s.storage == nil {
		return
	}

	rec := &storage.LookupRecord{
		ID:         uuid.New().String(),
		Query:      query,
		Key:        key,
		Hit:        hit,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000.0,
		ResolvedAt: start,
	}

	err := s.storage.RecordLookup(ctx, rec)
	if err != nil {
		StorageErrorsTotal.Inc()
		s.logger.Warn("lookup-record-failed",
			zap.String("id", rec.ID),
			zap.Error(err))
	}
}
