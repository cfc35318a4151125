// Package observability holds the Prometheus instrumentation for the
// poll and display paths.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for
// the monitoring engine.
type Metrics struct {
	PollCycles      *prometheus.CounterVec // labels: outcome={success,retry}
	AlertsEmitted   prometheus.Counter
	EventsFetched   prometheus.Histogram
	FetchDuration   prometheus.Histogram
	FeaturesSkipped prometheus.Counter
	// CheckpointWriteFailures counts writes that failed after an alert
	// was already emitted, i.e. cycles at risk of a duplicate alert.
	CheckpointWriteFailures prometheus.Counter
	PollerRunning           prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PollCycles,
		m.AlertsEmitted,
		m.EventsFetched,
		m.FetchDuration,
		m.FeaturesSkipped,
		m.CheckpointWriteFailures,
		m.PollerRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// parallel tests do not trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PollCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "poll_cycles_total",
			Help:      "Completed poll cycles by outcome.",
		}, []string{"outcome"}),
		AlertsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "alerts_emitted_total",
			Help:      "Alerts handed to the notifier.",
		}),
		EventsFetched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quakewatch",
			Name:      "events_fetched",
			Help:      "Events per feed snapshot.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quakewatch",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a feed fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FeaturesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "feed_features_skipped_total",
			Help:      "Malformed feed features dropped from snapshots.",
		}),
		CheckpointWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "checkpoint_write_failures_total",
			Help:      "Checkpoint writes that failed after an alert was emitted.",
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakewatch",
			Name:      "poller_running",
			Help:      "1 while the poller loop is active.",
		}),
	}
}
