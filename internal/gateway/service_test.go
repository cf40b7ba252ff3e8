package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/nvarley/querycache/internal/storage"
	"github.com/nvarley/querycache/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubUpstream returns a fixed payload and counts calls.
type stubUpstream struct {
	mu      sync.Mutex
	calls   int
	payload json.RawMessage
	err     error
}

func (s *stubUpstream) Resolve(ctx context.Context, query string, queryCtx map[string]interface{}) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func (s *stubUpstream) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// memStorage collects lookup records in memory.
type memStorage struct {
	mu      sync.Mutex
	records []*storage.LookupRecord
}

func (m *memStorage) RecordLookup(ctx context.Context, rec *storage.LookupRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memStorage) Close() error { return nil }

func newTestService(t *testing.T, up Upstream, store storage.Storage) *Service {
	t.Helper()

	memStore, err := cache.NewMemoryStore(&cache.MemoryConfig{TTL: time.Minute})
	require.NoError(t, err)

	logger, _ := zap.NewDevelopment()
	return New(&Config{
		Cache:    cache.NewResponseCache(memStore, logger),
		Upstream: up,
		Storage:  store,
		Logger:   logger,
	})
}

func TestService_Resolve_MissThenHit(t *testing.T) {
	up := &stubUpstream{payload: json.RawMessage(`{"answer":42}`)}
	store := &memStorage{}
	svc := newTestService(t, up, store)

	queryCtx := map[string]interface{}{"lang": "en"}

	// First resolve misses and calls upstream.
	result, err := svc.Resolve(context.Background(), "q", queryCtx)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 1, up.callCount())

	// Second resolve is served from cache.
	result2, err := svc.Resolve(context.Background(), "q", queryCtx)
	require.NoError(t, err)
	assert.True(t, result2.Cached)
	assert.Equal(t, result.Key, result2.Key)
	assert.Equal(t, 1, up.callCount())

	// Both lookups were recorded.
	require.Len(t, store.records, 2)
	assert.False(t, store.records[0].Hit)
	assert.True(t, store.records[1].Hit)
	assert.NotEqual(t, store.records[0].ID, store.records[1].ID)
}

func TestService_Resolve_UpstreamError(t *testing.T) {
	up := &stubUpstream{err: errors.New("boom")}
	svc := newTestService(t, up, &memStorage{})

	_, err := svc.Resolve(context.Background(), "q", nil)
	require.Error(t, err)
}

func TestService_Resolve_SerializationError(t *testing.T) {
	up := &stubUpstream{payload: json.RawMessage(`{}`)}
	svc := newTestService(t, up, &memStorage{})

	_, err := svc.Resolve(context.Background(), "q", map[string]interface{}{
		"fn": func() {},
	})
	require.Error(t, err)
	assert.Equal(t, 0, up.callCount())
}

func TestService_Invalidate(t *testing.T) {
	up := &stubUpstream{payload: json.RawMessage(`{"v":1}`)}
	svc := newTestService(t, up, &memStorage{})

	_, err := svc.Resolve(context.Background(), "q", nil)
	require.NoError(t, err)

	removed, err := svc.Invalidate("q", nil)
	require.NoError(t, err)
	assert.True(t, removed)

	// Next resolve goes upstream again.
	result, err := svc.Resolve(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, up.callCount())
}

func TestService_Clear(t *testing.T) {
	up := &stubUpstream{payload: json.RawMessage(`{"v":1}`)}
	svc := newTestService(t, up, &memStorage{})

	for _, q := range []string{"q1", "q2"} {
		_, err := svc.Resolve(context.Background(), q, nil)
		require.NoError(t, err)
	}

	svc.Clear()

	result, err := svc.Resolve(context.Background(), "q1", nil)
	require.NoError(t, err)
	assert.False(t, result.Cached)
}

func TestService_NilStorage(t *testing.T) {
	up := &stubUpstream{payload: json.RawMessage(`{"v":1}`)}
	svc := newTestService(t, up, nil)

	_, err := svc.Resolve(context.Background(), "q", nil)
	require.NoError(t, err)
}
