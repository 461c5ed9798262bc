package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GatewayMetrics records processor exchanges. It satisfies fss.Recorder.
type GatewayMetrics struct {
	transactionsTotal *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// NewGatewayMetrics registers the gateway collectors with reg.
// Pass prometheus.DefaultRegisterer to expose them on /metrics.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)
	return &GatewayMetrics{
		transactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fss_transactions_total",
			Help: "Total number of FSS transactions",
		}, []string{
			"action",  // purchase, authorize, capture, refund, start_preauth, use_preauth
			"outcome", // success, failure, error
		}),

		// Buckets: 100ms to 30s, the transport timeout
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fss_request_duration_seconds",
			Help:    "Duration of FSS requests in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"action"}),
	}
}

// RecordTransaction counts one exchange and observes its latency
func (m *GatewayMetrics) RecordTransaction(action, outcome string, elapsed time.Duration) {
	m.transactionsTotal.WithLabelValues(action, outcome).Inc()
	m.requestDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}
