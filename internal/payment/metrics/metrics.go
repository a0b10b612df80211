// Package metrics wraps Prometheus metrics for the payment service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chaoslab/commerce/internal/payment/chain"
)

// Metrics exposes chain and payment counters on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	stepLatency  *prometheus.HistogramVec
	stepTotal    *prometheus.CounterVec
	chainTotal   *prometheus.CounterVec
	chainLatency prometheus.Histogram

	paymentsProcessed *prometheus.CounterVec
	refundsTotal      prometheus.Counter
}

// New creates a metrics registry and registers the payment metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	stepLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chain_step_latency_ms",
		Help:    "Latency of individual chain steps in milliseconds.",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 15000},
	}, []string{"service"})

	stepTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chain_step_total",
		Help: "Total chain steps by downstream service and status.",
	}, []string{"service", "status"})

	chainTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chain_total",
		Help: "Total chain executions by overall status.",
	}, []string{"overall_status"})

	chainLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chain_total_time_ms",
		Help:    "End-to-end chain duration in milliseconds.",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
	})

	paymentsProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_processed_total",
		Help: "Total single-call payments by status.",
	}, []string{"status"})

	refundsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "refunds_total",
		Help: "Total refunds issued.",
	})

	registry.MustRegister(stepLatency, stepTotal, chainTotal, chainLatency, paymentsProcessed, refundsTotal)

	return &Metrics{
		registry:          registry,
		stepLatency:       stepLatency,
		stepTotal:         stepTotal,
		chainTotal:        chainTotal,
		chainLatency:      chainLatency,
		paymentsProcessed: paymentsProcessed,
		refundsTotal:      refundsTotal,
	}
}

// Handler exposes the metrics registry via HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStep records one step outcome. Implements chain.Observer.
func (m *Metrics) ObserveStep(service string, status chain.Status, latencyMS float64) {
	m.stepLatency.WithLabelValues(service).Observe(latencyMS)
	m.stepTotal.WithLabelValues(service, string(status)).Inc()
}

// ObserveChain records one chain execution. Implements chain.Observer.
func (m *Metrics) ObserveChain(status chain.OverallStatus, totalMS float64) {
	m.chainTotal.WithLabelValues(string(status)).Inc()
	m.chainLatency.Observe(totalMS)
}

// IncPaymentProcessed counts a single-call payment by its top-level status.
func (m *Metrics) IncPaymentProcessed(status string) {
	m.paymentsProcessed.WithLabelValues(status).Inc()
}

// IncRefund counts a refund.
func (m *Metrics) IncRefund() {
	m.refundsTotal.Inc()
}
