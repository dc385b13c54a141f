package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts orchestrator cache lookups by result ("hit" or "miss")
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aislemap_cache_lookups_total",
			Help: "Total number of item cache lookups",
		},
		[]string{"result"},
	)

	// RemoteAttempts counts categorization attempts against the inference backend
	RemoteAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aislemap_remote_attempts_total",
			Help: "Total number of remote categorization attempts",
		},
		[]string{"outcome"}, // success, transport_error, parse_error
	)

	// FallbackBatches counts batches answered by the keyword rules
	FallbackBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aislemap_fallback_batches_total",
			Help: "Total number of batches categorized without the inference backend",
		},
		[]string{"reason"}, // breaker_open, retries_exhausted, cancelled
	)

	// ItemsCategorized counts output records by provenance
	ItemsCategorized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aislemap_items_categorized_total",
			Help: "Total number of items categorized",
		},
		[]string{"source"}, // cache, remote, fallback, quick
	)

	// BatchLatency tracks how long Categorize takes per batch
	BatchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aislemap_batch_latency_seconds",
			Help:    "Batch categorization latency in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// ConsecutiveFailures mirrors the health monitor failure counter
	ConsecutiveFailures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aislemap_backend_consecutive_failures",
			Help: "Consecutive failed calls to the inference backend",
		},
	)

	// ModelLoading is 1 while the backend reports a model pull or load
	ModelLoading = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aislemap_backend_model_loading",
			Help: "Whether the inference backend is loading a model (1) or not (0)",
		},
	)
)
