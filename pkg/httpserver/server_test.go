package httpserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/nvarley/querycache/internal/gateway"
	"github.com/nvarley/querycache/pkg/cache"
	"github.com/nvarley/querycache/pkg/healthprobe"
	"go.uber.org/zap"
)

type staticUpstream struct {
	payload json.RawMessage
}

func (s *staticUpstream) Resolve(ctx context.Context, query string, queryCtx map[string]interface{}) (json.RawMessage, error) {
	return s.payload, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()

	store, err := cache.NewMemoryStore(&cache.MemoryConfig{TTL: time.Minute})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	gw := gateway.New(&gateway.Config{
		Cache:    cache.NewResponseCache(store, logger),
		Upstream: &staticUpstream{payload: json.RawMessage(`{"answer":42}`)},
		Logger:   logger,
	})

	healthChecker := healthprobe.New()
	healthChecker.SetReady(true)

	server := New(&Config{
		Port:          "0",
		Logger:        logger,
		HealthChecker: healthChecker,
		Gateway:       gw,
	})

	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestServer_Query(t *testing.T) {
	ts := newTestServer(t)

	req := QueryRequest{
		Query:   "q",
		Context: map[string]interface{}{"lang": "en"},
	}

	// First call: resolved upstream.
	resp := postJSON(t, ts.URL+"/v1/query", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var first QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if first.Cached {
		t.Error("expected first query to be uncached")
	}
	if first.Key == "" {
		t.Error("expected a fingerprint key in the response")
	}

	// Second call: served from cache.
	resp2 := postJSON(t, ts.URL+"/v1/query", req)
	defer resp2.Body.Close()

	var second QueryResponse
	if err := json.NewDecoder(resp2.Body).Decode(&second); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !second.Cached {
		t.Error("expected second query to be cached")
	}
	if second.Key != first.Key {
		t.Errorf("expected same key, got %q and %q", first.Key, second.Key)
	}
}

func TestServer_Query_MissingQuery(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/query", QueryRequest{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServer_Invalidate(t *testing.T) {
	ts := newTestServer(t)

	req := QueryRequest{Query: "q"}

	resp := postJSON(t, ts.URL+"/v1/query", req)
	resp.Body.Close()

	// Invalidate the cached entry.
	resp = postJSON(t, ts.URL+"/v1/cache/invalidate", req)

	var inv InvalidateResponse
	err := json.NewDecoder(resp.Body).Decode(&inv)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !inv.Invalidated {
		t.Error("expected invalidation to remove an entry")
	}

	// A second invalidate finds nothing.
	resp = postJSON(t, ts.URL+"/v1/cache/invalidate", req)

	err = json.NewDecoder(resp.Body).Decode(&inv)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if inv.Invalidated {
		t.Error("expected second invalidation to be a no-op")
	}
}

func TestServer_Sweep(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/cache/sweep", struct{}{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var sweep SweepResponse
	if err := json.NewDecoder(resp.Body).Decode(&sweep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if sweep.Removed != 0 {
		t.Errorf("expected 0 removed from fresh cache, got %d", sweep.Removed)
	}
}

func TestServer_Clear(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/query", QueryRequest{Query: "q"})
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/v1/cache", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	clearResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer clearResp.Body.Close()

	if clearResp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", clearResp.StatusCode)
	}

	// Entry is gone: resolve is uncached again.
	resp = postJSON(t, ts.URL+"/v1/query", QueryRequest{Query: "q"})
	defer resp.Body.Close()

	var qr QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if qr.Cached {
		t.Error("expected query to be uncached after clear")
	}
}

func TestServer_HealthAndReady(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
