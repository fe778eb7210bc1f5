package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// reconciliation service.
type Metrics struct {
	Refreshes         *prometheus.CounterVec // labels: mode={recent,full}, outcome={success,error}
	CacheLookups      *prometheus.CounterVec // labels: mode, result={hit,miss}
	FetchDuration     *prometheus.HistogramVec
	RefreshDuration   prometheus.Histogram
	RecordsReconciled *prometheus.GaugeVec // labels: mode
	UnmatchedReadings *prometheus.GaugeVec // labels: mode

	// Kafka export metrics.
	ExportPublished prometheus.Counter
	ExportErrors    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Refreshes,
		m.CacheLookups,
		m.FetchDuration,
		m.RefreshDuration,
		m.RecordsReconciled,
		m.UnmatchedReadings,
		m.ExportPublished,
		m.ExportErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so parallel tests avoid
// "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pluvio",
			Name:      "refreshes_total",
			Help:      "Dataset rebuilds by mode and outcome.",
		}, []string{"mode", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pluvio",
			Name:      "cache_lookups_total",
			Help:      "Dataset cache lookups by mode and result.",
		}, []string{"mode", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pluvio",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Upstream feed fetch duration by feed.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pluvio",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-and-reconcile cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RecordsReconciled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pluvio",
			Name:      "records_reconciled",
			Help:      "Record count of the most recent dataset by mode.",
		}, []string{"mode"}),
		UnmatchedReadings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pluvio",
			Name:      "unmatched_readings",
			Help:      "Readings with no matching station in the most recent dataset by mode.",
		}, []string{"mode"}),
		ExportPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pluvio",
			Name:      "export_records_published_total",
			Help:      "Reconciled records published to the export topic.",
		}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pluvio",
			Name:      "export_errors_total",
			Help:      "Failed dataset export attempts.",
		}),
	}
}
