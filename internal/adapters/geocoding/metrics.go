package geocoding

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for LookupsTotal.
const (
	outcomeOK        = "ok"
	outcomeNoResults = "no_results"
	outcomeError     = "error"
	outcomeCacheHit  = "cache_hit"
)

var (
	// LookupsTotal counts geocoding lookups by outcome.
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventfinder_geocoding_lookups_total",
			Help: "Total geocoding lookups by outcome",
		},
		[]string{"outcome"},
	)

	// UpstreamLatency observes the latency of calls to the geocoding API.
	UpstreamLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventfinder_geocoding_upstream_duration_seconds",
			Help:    "Latency of geocoding API requests",
			Buckets: prometheus.DefBuckets,
		},
	)
)
