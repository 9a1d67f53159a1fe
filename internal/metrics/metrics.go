// Package metrics provides Prometheus metrics for the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UploadsTotal counts dataset uploads by format and outcome.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "uploads_total",
			Help:      "Total number of dataset uploads",
		},
		[]string{"format", "status"},
	)

	// DatasetRows observes the size of uploaded datasets.
	DatasetRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "insights",
			Name:      "dataset_rows",
			Help:      "Distribution of uploaded dataset row counts",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		},
	)

	// RenderDuration measures "generate all charts" batches.
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insights",
			Name:      "render_duration_seconds",
			Help:      "Duration of chart page renders in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	// ChartsRendered counts rendered charts by type.
	ChartsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "charts_rendered_total",
			Help:      "Total number of charts rendered",
		},
		[]string{"chart_type"},
	)

	// QueriesTotal counts keyword queries by the rule that answered them.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "queries_total",
			Help:      "Total number of dataset queries",
		},
		[]string{"rule"},
	)
)

// RecordUpload records one upload attempt.
func RecordUpload(format, status string, rows int) {
	UploadsTotal.WithLabelValues(format, status).Inc()
	if status == "ok" {
		DatasetRows.Observe(float64(rows))
	}
}

// RecordRender records one page render and the chart types it contained.
func RecordRender(status string, seconds float64, chartTypes []string) {
	RenderDuration.WithLabelValues(status).Observe(seconds)
	for _, t := range chartTypes {
		ChartsRendered.WithLabelValues(t).Inc()
	}
}

// RecordQuery records one answered query.
func RecordQuery(rule string) {
	QueriesTotal.WithLabelValues(rule).Inc()
}
