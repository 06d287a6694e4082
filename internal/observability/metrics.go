// Package observability provides Prometheus metrics for the comparison service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// Each instance owns its registry, so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	// RPC metrics
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	// Simulation metrics
	Simulations           *prometheus.CounterVec
	Comparisons           prometheus.Counter
	InvalidConfigurations prometheus.Counter
	HorizonYears          prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "vehiclecompare"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RPCRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of RPC requests by method and status code",
		}, []string{"method", "code"}),
		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "RPC handling latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"method"}),

		Simulations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of vehicle simulations run",
		}, []string{"vehicle"}),
		Comparisons: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "comparisons_total",
			Help:      "Total number of ETF vs fund comparisons completed",
		}),
		InvalidConfigurations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "invalid_configurations_total",
			Help:      "Total number of requests rejected by validation",
		}),
		HorizonYears: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "horizon_years",
			Help:      "Distribution of requested horizons in years",
			Buckets:   []float64{1, 5, 10, 20, 30, 50, 100},
		}),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving this instance's metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRPC records one finished RPC
func (m *Metrics) ObserveRPC(method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(method, code).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveSimulation records one simulation run of vehicle over horizon years
func (m *Metrics) ObserveSimulation(vehicle string, horizon int) {
	if m == nil {
		return
	}
	m.Simulations.WithLabelValues(vehicle).Inc()
	m.HorizonYears.Observe(float64(horizon))
}

// ObserveComparison records one completed comparison
func (m *Metrics) ObserveComparison() {
	if m == nil {
		return
	}
	m.Comparisons.Inc()
}

// ObserveInvalidConfiguration records one rejected request
func (m *Metrics) ObserveInvalidConfiguration() {
	if m == nil {
		return
	}
	m.InvalidConfigurations.Inc()
}
