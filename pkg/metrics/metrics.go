// Package metrics exposes Prometheus collectors for the parsing pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline collectors. One instance is created at startup
// and registered on the application registry.
type Metrics struct {
	DocumentsParsed *prometheus.CounterVec
	ParseDuration   prometheus.Histogram
	ItemsExtracted  prometheus.Counter
	ParseWarnings   *prometheus.CounterVec
}

// New creates and registers the pipeline collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bidledger",
			Subsystem: "parser",
			Name:      "documents_total",
			Help:      "Documents run through the extraction engine, by outcome.",
		}, []string{"status"}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bidledger",
			Subsystem: "parser",
			Name:      "duration_seconds",
			Help:      "Wall time of a single document parse.",
			Buckets:   prometheus.DefBuckets,
		}),
		ItemsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bidledger",
			Subsystem: "parser",
			Name:      "items_total",
			Help:      "Bid items extracted across all documents.",
		}),
		ParseWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bidledger",
			Subsystem: "parser",
			Name:      "warnings_total",
			Help:      "Non-fatal parse warnings, by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.DocumentsParsed, m.ParseDuration, m.ItemsExtracted, m.ParseWarnings)
	return m
}
