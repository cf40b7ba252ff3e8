package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/nvarley/querycache/pkg/fingerprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponseCache(t *testing.T, ttl time.Duration, clk *fakeClock) *ResponseCache {
	t.Helper()
	return NewResponseCache(newTestStore(t, ttl, clk), nil)
}

func TestResponseCache_MissThenHit(t *testing.T) {
	rc := newTestResponseCache(t, time.Minute, newFakeClock())
	ctx := map[string]interface{}{"model": "small", "lang": "en"}

	_, found, err := rc.Get("q", ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, rc.Set("q", ctx, "answer"))

	value, found, err := rc.Get("q", ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "answer", value)
}

func TestResponseCache_ContextOrderIndependent(t *testing.T) {
	rc := newTestResponseCache(t, time.Minute, newFakeClock())

	a := map[string]interface{}{}
	a["a"] = 1
	a["b"] = 2

	b := map[string]interface{}{}
	b["b"] = 2
	b["a"] = 1

	require.NoError(t, rc.Set("q", a, "v"))

	value, found, err := rc.Get("q", b)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v", value)
}

func TestResponseCache_DifferingContextIsolates(t *testing.T) {
	rc := newTestResponseCache(t, time.Minute, newFakeClock())

	require.NoError(t, rc.Set("q", map[string]interface{}{"x": 1}, "v1"))

	_, found, err := rc.Get("q", map[string]interface{}{"x": 2})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResponseCache_NilContextIsEmpty(t *testing.T) {
	rc := newTestResponseCache(t, time.Minute, newFakeClock())

	require.NoError(t, rc.Set("q", nil, "v"))

	value, found, err := rc.Get("q", map[string]interface{}{})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v", value)
}

func TestResponseCache_Invalidate(t *testing.T) {
	rc := newTestResponseCache(t, time.Minute, newFakeClock())

	require.NoError(t, rc.Set("q", nil, "v"))

	removed, err := rc.Invalidate("q", nil)
	require.NoError(t, err)
	assert.True(t, removed)

	_, found, err := rc.Get("q", nil)
	require.NoError(t, err)
	assert.False(t, found)

	removed, err = rc.Invalidate("q", nil)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestResponseCache_Clear(t *testing.T) {
	rc := newTestResponseCache(t, time.Minute, newFakeClock())

	require.NoError(t, rc.Set("q1", nil, "v1"))
	require.NoError(t, rc.Set("q2", map[string]interface{}{"x": 1}, "v2"))

	rc.Clear()

	_, found, err := rc.Get("q1", nil)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = rc.Get("q2", map[string]interface{}{"x": 1})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResponseCache_Expiry(t *testing.T) {
	clk := newFakeClock()
	rc := newTestResponseCache(t, time.Second, clk)

	require.NoError(t, rc.Set("q", nil, "v"))

	clk.Advance(time.Second + time.Millisecond)

	_, found, err := rc.Get("q", nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResponseCache_SerializationErrorPropagates(t *testing.T) {
	rc := newTestResponseCache(t, time.Minute, newFakeClock())
	bad := map[string]interface{}{"fn": func() {}}

	var serr *fingerprint.SerializationError

	_, _, err := rc.Get("q", bad)
	require.Error(t, err)
	assert.True(t, errors.As(err, &serr))

	err = rc.Set("q", bad, "v")
	require.Error(t, err)
	assert.True(t, errors.As(err, &serr))

	_, err = rc.Invalidate("q", bad)
	require.Error(t, err)
	assert.True(t, errors.As(err, &serr))
}
