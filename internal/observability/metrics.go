package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ingestion
// pipeline.
type Metrics struct {
	ReadingsIngested *prometheus.CounterVec // label: risk={LOW,MEDIUM,HIGH}
	ValidationErrors prometheus.Counter
	StorageErrors    prometheus.Counter
	AlertsSent       prometheus.Counter
	AlertsSuppressed prometheus.Counter
	NotifyErrors     prometheus.Counter
	IngestDuration   prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReadingsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_watch",
			Name:      "readings_ingested_total",
			Help:      "Total readings persisted, by risk tier.",
		}, []string{"risk"}),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_watch",
			Name:      "validation_errors_total",
			Help:      "Total payloads rejected by validation.",
		}),
		StorageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_watch",
			Name:      "storage_errors_total",
			Help:      "Total failed sensor record inserts.",
		}),
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_watch",
			Name:      "alerts_sent_total",
			Help:      "Total alert notifications attempted after a gate grant.",
		}),
		AlertsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_watch",
			Name:      "alerts_suppressed_total",
			Help:      "Total HIGH-risk events suppressed by the cooldown gate.",
		}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_watch",
			Name:      "notify_errors_total",
			Help:      "Total failed notification deliveries (non-fatal).",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_watch",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete validate-classify-persist-alert cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
	}

	prometheus.MustRegister(
		m.ReadingsIngested,
		m.ValidationErrors,
		m.StorageErrors,
		m.AlertsSent,
		m.AlertsSuppressed,
		m.NotifyErrors,
		m.IngestDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReadingsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_watch", Name: "readings_ingested_total"}, []string{"risk"}),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_watch", Name: "validation_errors_total"}),
		StorageErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_watch", Name: "storage_errors_total"}),
		AlertsSent:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_watch", Name: "alerts_sent_total"}),
		AlertsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_watch", Name: "alerts_suppressed_total"}),
		NotifyErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_watch", Name: "notify_errors_total"}),
		IngestDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_watch", Name: "ingest_duration_seconds"}),
	}
}
