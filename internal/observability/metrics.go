package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the sweep.
type Metrics struct {
	WatershedsProcessed prometheus.Counter
	WatershedsSkipped   prometheus.Counter
	ScenariosEvaluated  prometheus.Counter
	RankingFailures     prometheus.Counter
	SweepRunning        prometheus.Gauge

	// Per-stage wall time: aggregate, summarize, rank.
	StageDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all sweep metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.WatershedsProcessed,
		m.WatershedsSkipped,
		m.ScenariosEvaluated,
		m.RankingFailures,
		m.SweepRunning,
		m.StageDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		WatershedsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salt_sweep",
			Name:      "watersheds_processed_total",
			Help:      "Watersheds whose scenario set was fully evaluated.",
		}),
		WatershedsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salt_sweep",
			Name:      "watersheds_skipped_total",
			Help:      "Watersheds dropped for invalid land-use input.",
		}),
		ScenariosEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salt_sweep",
			Name:      "scenarios_evaluated_total",
			Help:      "Rate-combination scenarios evaluated across all watersheds.",
		}),
		RankingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salt_sweep",
			Name:      "ranking_failures_total",
			Help:      "Watersheds whose ranking was undefined (zero total-salt median).",
		}),
		SweepRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "salt_sweep",
			Name:      "running",
			Help:      "1 while a sweep is in progress, 0 otherwise.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salt_sweep",
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
	}
}
