package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	AnalysisRuns       *prometheus.CounterVec
	AnalysisLatency    prometheus.Histogram
	OverlapsDetected   prometheus.Gauge
	PairErrors         prometheus.Counter
	AlertsPublished    *prometheus.CounterVec
	ChatRequests       *prometheus.CounterVec
	ChatLatency        prometheus.Histogram
	DatasetReloads     *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers the Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		AnalysisRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jalak_analysis_runs_total",
				Help: "Total number of overlap analysis runs.",
			},
			[]string{"result", "cache"},
		),
		AnalysisLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "jalak_analysis_latency_seconds",
				Help:    "Latency of overlap analysis runs.",
				Buckets: prometheus.DefBuckets,
			},
		),
		OverlapsDetected: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "jalak_overlaps_detected",
				Help: "Overlap records found by the most recent analysis run.",
			},
		),
		PairErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "jalak_pair_errors_total",
				Help: "Total number of geometry pairs whose intersection failed.",
			},
		),
		AlertsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jalak_alerts_published_total",
				Help: "Total number of alerts published to the event sink.",
			},
			[]string{"type", "result"},
		),
		ChatRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jalak_chat_requests_total",
				Help: "Total number of AI chat requests.",
			},
			[]string{"result"},
		),
		ChatLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "jalak_chat_latency_seconds",
				Help:    "Latency of AI chat completions.",
				Buckets: prometheus.DefBuckets,
			},
		),
		DatasetReloads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jalak_dataset_reloads_total",
				Help: "Total number of dataset loads, by kind and source.",
			},
			[]string{"kind", "source"},
		),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jalak_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jalak_http_request_latency_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordAnalysisRun records one analysis run.
func (m *Metrics) RecordAnalysisRun(result, cache string, overlaps, pairErrors int, duration time.Duration) {
	m.AnalysisRuns.WithLabelValues(result, cache).Inc()
	m.AnalysisLatency.Observe(duration.Seconds())
	m.OverlapsDetected.Set(float64(overlaps))
	m.PairErrors.Add(float64(pairErrors))
}

// RecordAlertPublished records one alert publish attempt.
func (m *Metrics) RecordAlertPublished(alertType, result string) {
	m.AlertsPublished.WithLabelValues(alertType, result).Inc()
}

// RecordChatRequest records one chat round trip.
func (m *Metrics) RecordChatRequest(result string, duration time.Duration) {
	m.ChatRequests.WithLabelValues(result).Inc()
	m.ChatLatency.Observe(duration.Seconds())
}

// RecordDatasetReload records one dataset load.
func (m *Metrics) RecordDatasetReload(kind, source string) {
	m.DatasetReloads.WithLabelValues(kind, source).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}
