package securestore

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	fallbackTotal     *prometheus.CounterVec

	metricsOnce       sync.Once
	metricsRegistered bool
)

// Metrics records observability counters for SecureStore operations,
// grounded on the teacher's RotationMetrics (internal/rotation/health/metrics.go):
// a sync.Once-guarded promauto registration so multiple SecureStore
// instances (provider keys, tool keys, OAuth tokens) share one registry.
type Metrics struct{}

// NewMetrics returns a Metrics handle, registering the underlying
// Prometheus collectors on first call.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		operationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "securestore_operations_total",
				Help: "Total number of SecureStore operations by kind, route, and outcome",
			},
			[]string{"operation", "route", "outcome"},
		)

		operationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "securestore_operation_duration_seconds",
				Help:    "Duration of SecureStore operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation", "route"},
		)

		fallbackTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "securestore_fallback_total",
				Help: "Total number of operations that fell through to the encrypted fallback store",
			},
			[]string{"operation"},
		)

		metricsRegistered = true
	})
	return &Metrics{}
}

// Record emits one structured observability entry per spec §4.6: the
// Prometheus side of the record. The hashed-key/no-raw-value logging
// side is handled by the caller via internal/logging.
func (m *Metrics) Record(operation, route, outcome string, seconds float64, triggeredFallback bool) {
	if !metricsRegistered {
		return
	}
	operationsTotal.WithLabelValues(operation, route, outcome).Inc()
	operationDuration.WithLabelValues(operation, route).Observe(seconds)
	if triggeredFallback {
		fallbackTotal.WithLabelValues(operation).Inc()
	}
}
