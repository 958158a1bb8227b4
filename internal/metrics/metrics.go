// Package metrics provides Prometheus metrics for filter execution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage and chain results. Stages use computed, cached, error and
// cancelled; chains use ok, identity, error and cancelled.
const (
	ResultComputed  = "computed"
	ResultCached    = "cached"
	ResultError     = "error"
	ResultCancelled = "cancelled"
	ResultOK        = "ok"
	ResultIdentity  = "identity"
)

var (
	// StagesTotal counts executed chain stages by kind and result.
	StagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgfx",
			Name:      "stages_total",
			Help:      "Total number of executed chain stages",
		},
		[]string{"kind", "result"},
	)

	// StageDuration measures backend time per stage.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imgfx",
			Name:      "stage_duration_seconds",
			Help:      "Duration of backend transformations in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	// CacheLookups counts stage cache lookups by result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgfx",
			Name:      "cache_lookups_total",
			Help:      "Total number of stage cache lookups",
		},
		[]string{"result"},
	)

	// ChainsTotal counts Apply calls by result.
	ChainsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgfx",
			Name:      "chains_total",
			Help:      "Total number of chain executions",
		},
		[]string{"result"},
	)

	// AllocationRejections counts pre-flight and allocator rejections.
	AllocationRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "imgfx",
			Name:      "allocation_rejections_total",
			Help:      "Total number of rejected allocations and failed memory pre-flights",
		},
	)
)

// RecordStage records one finished stage.
func RecordStage(kind, result string, seconds float64) {
	StagesTotal.WithLabelValues(kind, result).Inc()
	if result == ResultComputed {
		StageDuration.WithLabelValues(kind).Observe(seconds)
	}
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// RecordChain records the outcome of a chain execution.
func RecordChain(result string) {
	ChainsTotal.WithLabelValues(result).Inc()
}

// RecordRejection records a rejected allocation.
func RecordRejection() {
	AllocationRejections.Inc()
}
