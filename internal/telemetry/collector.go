// Package telemetry exposes the order book's Prometheus metrics surface.
// Scoped down from VictorVVedtion-perp-dex's metrics.Collector to the
// handful of gauges and histograms a single-symbol matching engine needs.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds every metric obbench and any embedding service reports.
type Collector struct {
	OrdersTotal     *prometheus.CounterVec
	InstructionsTotal *prometheus.CounterVec
	MatchLatency    prometheus.Histogram
	BookDepth       *prometheus.GaugeVec
	BestPrice       *prometheus.GaugeVec
	SpreadTicks     prometheus.Gauge
}

// GetCollector returns the process-wide metrics collector, creating and
// registering it with the default registry on first use.
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

func newCollector() *Collector {
	c := &Collector{
		OrdersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "obcore",
				Subsystem: "orders",
				Name:      "total",
				Help:      "Total number of Insert operations evaluated, by side and time-in-force.",
			},
			[]string{"side", "tif"},
		),
		InstructionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "obcore",
				Subsystem: "evaluator",
				Name:      "instructions_total",
				Help:      "Instructions emitted by the evaluator, by kind.",
			},
			[]string{"kind"},
		),
		MatchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "obcore",
				Subsystem: "evaluator",
				Name:      "match_latency_seconds",
				Help:      "Wall time to evaluate one Insert or Cancel operation.",
				Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
			},
		),
		BookDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "obcore",
				Subsystem: "book",
				Name:      "depth",
				Help:      "Number of distinct resting price levels.",
			},
			[]string{"side"},
		),
		BestPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "obcore",
				Subsystem: "book",
				Name:      "best_price",
				Help:      "Best resting price on each side.",
			},
			[]string{"side"},
		),
		SpreadTicks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "obcore",
				Subsystem: "book",
				Name:      "spread_ticks",
				Help:      "Best ask minus best bid, in price ticks.",
			},
		),
	}
	c.registerAll()
	return c
}

func (c *Collector) registerAll() {
	prometheus.MustRegister(c.OrdersTotal)
	prometheus.MustRegister(c.InstructionsTotal)
	prometheus.MustRegister(c.MatchLatency)
	prometheus.MustRegister(c.BookDepth)
	prometheus.MustRegister(c.BestPrice)
	prometheus.MustRegister(c.SpreadTicks)
}

// Handler returns the HTTP handler obbench's serve command mounts at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
