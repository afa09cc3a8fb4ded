// Package metrics exposes Prometheus instrumentation for the backup engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cashbook_imports_total",
		Help: "Import attempts by detected layout and outcome status.",
	}, []string{"layout", "status"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cashbook_import_rows_total",
		Help: "Rows processed by imports, by outcome.",
	}, []string{"outcome"})

	importDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cashbook_import_duration_seconds",
		Help:    "Wall time of import attempts.",
		Buckets: prometheus.DefBuckets,
	})

	exportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cashbook_exports_total",
		Help: "Successful backup exports.",
	})
)

// ImportObserved records one finished import attempt, whatever its outcome.
func ImportObserved(layout, status string, created, updated, skipped, failed int, elapsed time.Duration) {
	if layout == "" {
		layout = "unknown"
	}
	importsTotal.WithLabelValues(layout, status).Inc()
	importRows.WithLabelValues("created").Add(float64(created))
	importRows.WithLabelValues("updated").Add(float64(updated))
	importRows.WithLabelValues("skipped").Add(float64(skipped))
	importRows.WithLabelValues("failed").Add(float64(failed))
	importDuration.Observe(elapsed.Seconds())
}

// ExportObserved records one successful backup export.
func ExportObserved() {
	exportsTotal.Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
