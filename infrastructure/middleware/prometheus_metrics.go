// Package middleware provides cross-cutting concerns for the scoring
// and ranking engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/podiumhq/podium/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of submission intake,
// reconciliation outcomes, and ranking computation performance.
type PrometheusMetrics struct {
	submissionsTotal  *prometheus.CounterVec
	reconcileOutcomes *prometheus.CounterVec
	operationLatency  *prometheus.HistogramVec
	scoreDistribution *prometheus.HistogramVec
	systemGauges      *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and
// registers all metrics with the provided registerer. Pass
// prometheus.DefaultRegisterer for the global registry; tests pass a
// private one to avoid duplicate registration.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		submissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "podium_submissions_total",
				Help: "Total evaluation submissions by area and outcome.",
			},
			[]string{"area", "status"},
		),
		reconcileOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "podium_reconcile_outcomes_total",
				Help: "Offline reconciliation outcomes by result.",
			},
			[]string{"result"},
		),
		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "podium_operation_duration_seconds",
				Help:    "Execution time of engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		scoreDistribution: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "podium_area_score_percentage",
				Help:    "Distribution of aggregated area percentages.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"area"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "podium_system_state",
				Help: "Current engine state values, such as stored evaluation keys.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// operation latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, _ map[string]string) {
	pm.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by
// incrementing Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "submissions_total":
		pm.submissionsTotal.WithLabelValues(
			labelOr(labels, "area", "unknown"),
			labelOr(labels, "status", "unknown"),
		).Add(value)
	case "reconcile_outcomes_total":
		pm.reconcileOutcomes.WithLabelValues(
			labelOr(labels, "result", "unknown"),
		).Add(value)
	default:
		pm.submissionsTotal.WithLabelValues("unknown", metric).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, _ map[string]string) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by
// observing values in score or latency histograms.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	switch metric {
	case "area_score_percentage":
		pm.scoreDistribution.WithLabelValues(
			labelOr(labels, "area", "unknown"),
		).Observe(value)
	default:
		pm.operationLatency.WithLabelValues(metric).Observe(value)
	}
}

func labelOr(labels map[string]string, key, fallback string) string {
	if v, ok := labels[key]; ok && v != "" {
		return v
	}
	return fallback
}
