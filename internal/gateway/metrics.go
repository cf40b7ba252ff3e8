package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolveDuration tracks end-to-end resolve latency, hits and misses alike.
	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "querycache_gateway_resolve_duration_seconds",
		Help:    "Duration of gateway resolve calls",
		Buckets: prometheus.DefBuckets,
	})

	// UpstreamErrorsTotal tracks failed upstream resolutions.
	UpstreamErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querycache_gateway_upstream_errors_total",
		Help: "Total number of upstream resolver failures",
	})

	// StorageErrorsTotal tracks failed lookup-record writes.
	StorageErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "querycache_gateway_storage_errors_total",
		Help: "Total number of lookup record persistence failures",
	})
)
