package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics owns the order counters and the registry they are exposed from.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	ordersPlaced      prometheus.Counter
	placementFailures *prometheus.CounterVec
	orderAmount       prometheus.Histogram
}

// New builds a Metrics with its own registry, including Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pasar",
			Name:      "orders_placed_total",
			Help:      "Orders committed.",
		}),
		placementFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pasar",
			Name:      "order_placement_failures_total",
			Help:      "Order placements that did not commit, by reason.",
		}, []string{"reason"}),
		orderAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pasar",
			Name:      "order_total_amount",
			Help:      "Total amount of committed orders.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 5000},
		}),
	}
	reg.MustRegister(
		m.ordersPlaced,
		m.placementFailures,
		m.orderAmount,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// OrderPlaced records a committed order.
func (m *Metrics) OrderPlaced(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderAmount.Observe(total.InexactFloat64())
}

// PlacementFailed records a placement that was rejected or rolled back.
func (m *Metrics) PlacementFailed(reason string) {
	if m == nil {
		return
	}
	m.placementFailures.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
