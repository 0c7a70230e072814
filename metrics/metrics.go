// Package metrics holds the Prometheus collectors for the journal engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocklog_import_rows_total",
			Help: "CSV rows seen by the importer, by result",
		},
		[]string{"result"},
	)

	importBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocklog_import_batches_total",
			Help: "CSV import batches, by result",
		},
		[]string{"result"},
	)

	calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocklog_calculations_total",
			Help: "Trade calculations performed",
		},
		[]string{"direction"},
	)

	priceLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocklog_price_lookups_total",
			Help: "Price source lookups, by provider and result",
		},
		[]string{"provider", "result"},
	)

	priceLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stocklog_price_lookup_duration_seconds",
			Help:    "Price source lookup latency",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)

	analyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocklog_ai_analyses_total",
			Help: "AI feedback runs, by result",
		},
		[]string{"result"},
	)
)

func RecordImportedRows(n int) { importRows.WithLabelValues("imported").Add(float64(n)) }

func RecordSkippedRow() { importRows.WithLabelValues("skipped").Inc() }

// RecordImportBatch records whether a batch was committed.
func RecordImportBatch(err error) {
	if err != nil {
		importBatches.WithLabelValues("failed").Inc()
		return
	}
	importBatches.WithLabelValues("committed").Inc()
}

func RecordCalculation(direction string) { calculations.WithLabelValues(direction).Inc() }

// RecordPriceLookup records the outcome and latency of a price lookup.
func RecordPriceLookup(provider string, found bool, d time.Duration) {
	result := "miss"
	if found {
		result = "hit"
	}
	priceLookups.WithLabelValues(provider, result).Inc()
	priceLookupDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func RecordAnalysis(err error) {
	if err != nil {
		analyses.WithLabelValues("failed").Inc()
		return
	}
	analyses.WithLabelValues("completed").Inc()
}
