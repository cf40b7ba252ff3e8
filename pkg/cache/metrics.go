package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	HitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querycache_cache_hits_total",
		Help: "Total number of cache hits",
	})

	MissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querycache_cache_misses_total",
		Help: "Total number of cache misses",
	})

	SetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querycache_cache_sets_total",
		Help: "Total number of cache sets",
	})

	DeletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querycache_cache_deletes_total",
		Help: "Total number of explicit cache deletions",
	})

	ExpiredEvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querycache_cache_expired_evictions_total",
		Help: "Total number of entries evicted because their TTL elapsed",
	})

	SweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querycache_cache_sweeps_total",
		Help: "Total number of explicit expiry sweeps",
	})

	EntriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "querycache_cache_entries",
		Help: "Number of entries currently held by the memory store",
	})
)
