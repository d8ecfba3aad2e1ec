// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	uploadsTotal     *prometheus.CounterVec
	uploadBytesTotal prometheus.Counter
	uploadDuration   prometheus.Histogram

	geocodeLookupsTotal *prometheus.CounterVec
	geocodeDuration     prometheus.Histogram

	sweepDeletedTotal *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_uploads_total",
			Help: "Photo uploads by outcome",
		},
		[]string{"status"}, // status: success, error, rejected
	)
	m.uploadBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "journal_upload_bytes_total",
		Help: "Bytes written to object storage",
	})
	m.uploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "journal_upload_duration_seconds",
		Help:    "Time taken to store one photo",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	m.geocodeLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_geocode_lookups_total",
			Help: "Location suggestion lookups by result",
		},
		[]string{"result"}, // result: hit, miss, error, skipped
	)
	m.geocodeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "journal_geocode_duration_seconds",
		Help:    "Time taken by the geocoding endpoint",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
	})

	m.sweepDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_sweep_objects_total",
			Help: "Orphaned uploads handled by the sweeper",
		},
		[]string{"status"},
	)

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"method", "route", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journal_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.uploadsTotal.Describe(ch)
	m.uploadBytesTotal.Describe(ch)
	m.uploadDuration.Describe(ch)
	m.geocodeLookupsTotal.Describe(ch)
	m.geocodeDuration.Describe(ch)
	m.sweepDeletedTotal.Describe(ch)
	m.httpRequestsTotal.Describe(ch)
	m.httpRequestDuration.Describe(ch)
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.uploadsTotal.Collect(ch)
	m.uploadBytesTotal.Collect(ch)
	m.uploadDuration.Collect(ch)
	m.geocodeLookupsTotal.Collect(ch)
	m.geocodeDuration.Collect(ch)
	m.sweepDeletedTotal.Collect(ch)
	m.httpRequestsTotal.Collect(ch)
	m.httpRequestDuration.Collect(ch)
}

func (m *Metrics) RecordUpload(status string, bytes int64, d time.Duration) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		m.uploadBytesTotal.Add(float64(bytes))
		m.uploadDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) RecordGeocodeLookup(result string) {
	if m == nil {
		return
	}
	m.geocodeLookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordGeocodeDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.geocodeDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordSweep(status string) {
	if m == nil {
		return
	}
	m.sweepDeletedTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
