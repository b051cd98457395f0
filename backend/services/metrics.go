// ABOUTME: Prometheus instrumentation for the analysis engine
// ABOUTME: Cache effectiveness, search size, and recommendation outcomes

package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analyzeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cea_analyze_duration_seconds",
			Help:    "Duration of uncached analyze computations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	analyzeCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cea_analyze_cache_results_total",
			Help: "Analyze result cache lookups by outcome",
		},
		[]string{"result"},
	)

	candidatesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cea_recommend_candidates_evaluated_total",
			Help: "Total number of candidate configurations evaluated",
		},
	)

	recommendOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cea_recommend_outcomes_total",
			Help: "Recommendation searches by outcome",
		},
		[]string{"outcome"},
	)

	catalogFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cea_catalog_lookup_failures_total",
			Help: "Catalog lookups that failed and degraded to no recommendation",
		},
	)
)
