// Package metrics exposes Prometheus instrumentation for the ETL pipeline
// and the HTTP API. All metrics are registered on the default registry and
// served on GET /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsStaged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "obeta_rows_staged_total",
		Help: "Rows bulk-loaded into staging per dataset",
	}, []string{"dataset"}) // dataset=pick_data|product_details|warehouse_sections

	stagingAnomalies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "obeta_staging_anomalies_total",
		Help: "Anomalous source rows seen during staging by class",
	}, []string{"class"}) // class=zero_volume|negative_volume

	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "obeta_pipeline_phase_duration_seconds",
		Help:    "Wall-clock duration of pipeline phases",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"phase"}) // phase=stage|curate|marts|run

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "obeta_pipeline_runs_total",
		Help: "Pipeline runs by final status",
	}, []string{"status"}) // status=succeeded|failed

	martExports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "obeta_mart_exports_total",
		Help: "Mart CSV artifact exports by outcome",
	}, []string{"mart", "outcome"}) // outcome=success|failure
)

// RowsStaged records rows loaded into one staging dataset.
func RowsStaged(dataset string, n int64) {
	rowsStaged.WithLabelValues(dataset).Add(float64(n))
}

// StagingAnomaly counts anomalous source rows of one class.
func StagingAnomaly(class string, n int64) {
	stagingAnomalies.WithLabelValues(class).Add(float64(n))
}

// ObservePhase records the duration of a completed phase.
func ObservePhase(phase string, d time.Duration) {
	phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RunFinished counts a run outcome.
func RunFinished(status string) {
	runsTotal.WithLabelValues(status).Inc()
}

// MartExport counts one artifact export attempt.
func MartExport(mart, outcome string) {
	martExports.WithLabelValues(mart, outcome).Inc()
}
