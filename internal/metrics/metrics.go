// Package metrics exposes Prometheus collectors for refreshes and HTTP traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	// RefreshTotal counts dashboard refreshes by outcome.
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maildash_refresh_total",
			Help: "Total number of dashboard refreshes",
		},
		[]string{"status"},
	)

	// RefreshDuration is the time spent reading and aggregating the log.
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maildash_refresh_duration_seconds",
			Help:    "Dashboard refresh duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
	)

	// LogRows is the number of records in the last successful refresh.
	LogRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "maildash_log_rows",
			Help: "Records loaded by the last successful refresh",
		},
	)

	// SkippedRows counts malformed rows dropped under the skip policy.
	SkippedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maildash_log_skipped_rows_total",
			Help: "Total number of malformed log rows skipped",
		},
	)

	// HTTPRequestDuration is the latency of dashboard HTTP requests.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordRefresh records one refresh outcome and its duration. rows and
// skipped are only applied on success.
func RecordRefresh(status string, duration time.Duration, rows, skipped int) {
	RefreshTotal.WithLabelValues(status).Inc()
	RefreshDuration.Observe(duration.Seconds())
	if status != StatusOK {
		return
	}
	LogRows.Set(float64(rows))
	if skipped > 0 {
		SkippedRows.Add(float64(skipped))
	}
}

// RecordHTTPRequestDuration records the latency of one HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
