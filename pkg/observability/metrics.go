package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap"
)

// GatewayMetrics records Prometheus metrics for every BlueSnap call. It is
// a bluesnap.Listener; register it with bluesnap.WithListener.
type GatewayMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// NewGatewayMetrics registers the gateway metrics with reg. A nil reg uses
// the default registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &GatewayMetrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bluesnap_requests_total",
				Help: "Total number of BlueSnap API requests",
			},
			[]string{"operation", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bluesnap_request_duration_seconds",
				Help:    "Duration of BlueSnap API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bluesnap_requests_in_flight",
				Help: "Number of BlueSnap API requests awaiting a response",
			},
		),
	}
}

// HandleEvent implements bluesnap.Listener.
func (m *GatewayMetrics) HandleEvent(e bluesnap.Event) {
	switch e.Type {
	case bluesnap.EventRequestSending:
		m.requestsInFlight.Inc()
	case bluesnap.EventResponseReceived:
		m.requestsInFlight.Dec()
		m.requestDuration.WithLabelValues(e.Operation).Observe(e.Duration.Seconds())
		m.requestsTotal.WithLabelValues(e.Operation, statusClass(e.StatusCode)).Inc()
	case bluesnap.EventRequestFailed:
		m.requestsInFlight.Dec()
		m.requestDuration.WithLabelValues(e.Operation).Observe(e.Duration.Seconds())
		m.requestsTotal.WithLabelValues(e.Operation, "transport_error").Inc()
	}
}

// statusClass buckets codes as "2xx", "4xx" and so on.
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
