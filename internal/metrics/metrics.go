// Package metrics provides the centralized Prometheus metrics registry
// for the analyzer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SlatesComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regulation_radar",
		Name:      "slates_computed_total",
		Help:      "Total number of slates computed",
	})
	MatchupsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regulation_radar",
		Name:      "matchups_scored_total",
		Help:      "Total number of matchups scored",
	})
	MatchupsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regulation_radar",
		Name:      "matchups_skipped_total",
		Help:      "Total number of matchups skipped by risk flags",
	})
	MatchupFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regulation_radar",
		Name:      "matchup_failures_total",
		Help:      "Total number of matchups that failed to score",
	})
	DataSourceErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "regulation_radar",
		Name:      "datasource_errors_total",
		Help:      "Total number of data source errors by source",
	}, []string{"source"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regulation_radar",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of HTTP circuit breaker trips",
	})
)

// Gauge metrics
var (
	SlateSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "regulation_radar",
		Name:      "slate_size",
		Help:      "Number of games in the most recent slate",
	})
	SlateTopConfidence = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "regulation_radar",
		Name:      "slate_top_confidence",
		Help:      "Confidence of the highest-ranked game in the most recent slate",
	})
	SlateAvgDataConfidence = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "regulation_radar",
		Name:      "slate_avg_data_confidence",
		Help:      "Average data-confidence across the most recent slate",
	})
)

// Histogram metrics
var (
	SlateComputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "regulation_radar",
		Name:      "slate_compute_duration_seconds",
		Help:      "Duration of full slate computations in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})
	MatchupScoreDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "regulation_radar",
		Name:      "matchup_score_duration_seconds",
		Help:      "Duration of single-matchup signal extraction and scoring in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SlatesComputedTotal)
		registry.MustRegister(MatchupsScoredTotal)
		registry.MustRegister(MatchupsSkippedTotal)
		registry.MustRegister(MatchupFailuresTotal)
		registry.MustRegister(DataSourceErrorsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(SlateSize)
		registry.MustRegister(SlateTopConfidence)
		registry.MustRegister(SlateAvgDataConfidence)

		// Register histogram metrics
		registry.MustRegister(SlateComputeDuration)
		registry.MustRegister(MatchupScoreDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSlateComputed records a completed slate computation.
func RecordSlateComputed(size int, durationSeconds float64) {
	SlatesComputedTotal.Inc()
	SlateSize.Set(float64(size))
	SlateComputeDuration.Observe(durationSeconds)
}

// RecordMatchupScored records one scored matchup.
func RecordMatchupScored(durationSeconds float64) {
	MatchupsScoredTotal.Inc()
	MatchupScoreDuration.Observe(durationSeconds)
}

// RecordMatchupSkipped records a matchup excluded by risk flags.
func RecordMatchupSkipped() {
	MatchupsSkippedTotal.Inc()
}

// RecordMatchupFailure records a matchup that could not be scored.
func RecordMatchupFailure() {
	MatchupFailuresTotal.Inc()
}

// RecordDataSourceError records a failed upstream fetch.
func RecordDataSourceError(source string) {
	DataSourceErrorsTotal.WithLabelValues(source).Inc()
}

// RecordCircuitBreakerTrip records an HTTP circuit breaker trip.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
