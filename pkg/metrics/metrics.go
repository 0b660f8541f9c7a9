// Package metrics provides Prometheus metrics for sapling. A CLI run has no
// scrape endpoint, so the registry is written to a node-exporter textfile
// when the run ends.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReadinessQueriesTotal tracks readiness queries by mode and status
	ReadinessQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sapling",
			Subsystem: "readiness",
			Name:      "queries_total",
			Help:      "Total number of readiness queries by mode and status",
		},
		[]string{"mode", "status"},
	)

	// ReadinessQueryDuration tracks readiness query duration in seconds
	ReadinessQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sapling",
			Subsystem: "readiness",
			Name:      "query_duration_seconds",
			Help:      "Duration of readiness queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"mode"},
	)

	// ReadinessRowsTotal tracks result rows by entity kind and outcome
	ReadinessRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sapling",
			Subsystem: "readiness",
			Name:      "rows_total",
			Help:      "Total number of readiness rows by entity kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	RoadmapItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sapling",
			Subsystem: "roadmap",
			Name:      "items",
			Help:      "Items on the last roadmap built, by view",
		},
		[]string{"view"},
	)

	RoadmapOmittedItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sapling",
			Subsystem: "roadmap",
			Name:      "omitted_items",
			Help:      "Eligible items left off the last roadmap built, by view",
		},
		[]string{"view"},
	)

	// RestoreRecordsTotal tracks records merged from a backup
	RestoreRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sapling",
			Subsystem: "backup",
			Name:      "restored_records_total",
			Help:      "Total number of records merged from backups by table and action",
		},
		[]string{"table", "action"},
	)
)

// RecordReadinessQuery records a readiness query metric
func RecordReadinessQuery(mode, status string, durationSeconds float64) {
	ReadinessQueriesTotal.WithLabelValues(mode, status).Inc()
	ReadinessQueryDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordReadinessRows records the rows of one result section
func RecordReadinessRows(kind string, ok, failed int) {
	ReadinessRowsTotal.WithLabelValues(kind, "ok").Add(float64(ok))
	ReadinessRowsTotal.WithLabelValues(kind, "error").Add(float64(failed))
}

func RecordRoadmap(view string, items, omitted int) {
	RoadmapItems.WithLabelValues(view).Set(float64(items))
	RoadmapOmittedItems.WithLabelValues(view).Set(float64(omitted))
}

func RecordRestore(table string, added, updated int) {
	RestoreRecordsTotal.WithLabelValues(table, "added").Add(float64(added))
	RestoreRecordsTotal.WithLabelValues(table, "updated").Add(float64(updated))
}

// WriteTextfile writes every registered metric to path in the text
// exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
