// Package metrics exposes Prometheus metrics for update handling and
// booker API calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Update metrics
	UpdatesTotal          *prometheus.CounterVec
	UpdateDurationSeconds *prometheus.HistogramVec
	RateLimitDroppedTotal prometheus.Counter

	// Callback metrics
	CallbacksTotal *prometheus.CounterVec

	// Booker client metrics
	BookerRequestsTotal   *prometheus.CounterVec
	BookerDurationSeconds *prometheus.HistogramVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		UpdatesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wanabot_updates_total",
				Help: "Total number of handled updates by type and status",
			},
			[]string{"type", "status"}, // type: command, callback; status: success, error, dropped
		),

		UpdateDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wanabot_update_duration_seconds",
				Help:    "Update handling duration in seconds by type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"type"},
		),

		RateLimitDroppedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "wanabot_rate_limit_dropped_total",
				Help: "Total number of updates dropped by the per-chat rate limiter",
			},
		),

		CallbacksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wanabot_callbacks_total",
				Help: "Total number of routed callbacks by action tag and outcome",
			},
			[]string{"action", "outcome"}, // outcome: completed, failed
		),

		BookerRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wanabot_booker_requests_total",
				Help: "Total number of booker API requests by operation and status",
			},
			[]string{"operation", "status"}, // status: success, error
		),

		BookerDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wanabot_booker_duration_seconds",
				Help:    "Booker API request duration in seconds by operation",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15},
			},
			[]string{"operation"},
		),
	}
}

// RecordUpdate records a handled update with its outcome and duration.
func (m *Metrics) RecordUpdate(updateType, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.UpdatesTotal.WithLabelValues(updateType, status).Inc()
	if durationSeconds > 0 {
		m.UpdateDurationSeconds.WithLabelValues(updateType).Observe(durationSeconds)
	}
}

// RecordCallback records a routed callback by action tag.
func (m *Metrics) RecordCallback(action, outcome string) {
	if m == nil {
		return
	}
	m.CallbacksTotal.WithLabelValues(action, outcome).Inc()
}

// RecordBookerRequest records a booker API call.
func (m *Metrics) RecordBookerRequest(operation, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.BookerRequestsTotal.WithLabelValues(operation, status).Inc()
	if durationSeconds > 0 {
		m.BookerDurationSeconds.WithLabelValues(operation).Observe(durationSeconds)
	}
}

// RecordRateLimitDrop records an update dropped by the per-chat limiter.
func (m *Metrics) RecordRateLimitDrop() {
	if m == nil {
		return
	}
	m.RateLimitDroppedTotal.Inc()
}
