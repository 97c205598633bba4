package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weekly report pipeline.
type Metrics struct {
	RunsTotal         *prometheus.CounterVec // labels: outcome={success,error}
	RecordsFetched    prometheus.Counter
	RecordsNormalized prometheus.Counter

	RunDuration   prometheus.Histogram
	FetchDuration prometheus.Histogram

	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_report",
			Name:      "runs_total",
			Help:      "Completed pipeline runs by outcome.",
		}, []string{"outcome"}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crash_report",
			Name:      "records_fetched_total",
			Help:      "Raw incident records returned by the feed.",
		}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crash_report",
			Name:      "records_normalized_total",
			Help:      "Canonical records after merge and municipality filter.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crash_report",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-aggregate-compose-publish run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crash_report",
			Name:      "fetch_duration_seconds",
			Help:      "Feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_report",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RecordsFetched,
		m.RecordsNormalized,
		m.RunDuration,
		m.FetchDuration,
		m.LastSuccessTimestamp,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crash_report", Name: "runs_total"}, []string{"outcome"}),
		RecordsFetched:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crash_report", Name: "records_fetched_total"}),
		RecordsNormalized:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crash_report", Name: "records_normalized_total"}),
		RunDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crash_report", Name: "run_duration_seconds"}),
		FetchDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crash_report", Name: "fetch_duration_seconds"}),
		LastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_report", Name: "last_success_timestamp_seconds"}),
	}
}
