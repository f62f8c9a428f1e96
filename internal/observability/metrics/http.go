package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	submissionsTotal   *prometheus.CounterVec
	submittedDocuments *prometheus.HistogramVec
	statusLookupsTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssp",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssp",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ssp",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	submissionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssp",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Total application submissions by outcome.",
		},
		[]string{"service", "status"},
	)
	submittedDocuments := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssp",
			Subsystem: "intake",
			Name:      "submitted_documents",
			Help:      "Distribution of documents per accepted submission.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
		[]string{"service"},
	)
	statusLookupsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssp",
			Subsystem: "intake",
			Name:      "status_lookups_total",
			Help:      "Total application status lookups by outcome.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		submissionsTotal,
		submittedDocuments,
		statusLookupsTotal,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		submissionsTotal:   submissionsTotal,
		submittedDocuments: submittedDocuments,
		statusLookupsTotal: statusLookupsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &metricsRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/applications/"):
		return "/v1/applications/{application_id}"
	case strings.HasPrefix(path, "/v1/workflows/"):
		return "/v1/workflows/{workflow_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordSubmission(service, status string, documentCount int) {
	if status == "" {
		status = "unknown"
	}
	m.submissionsTotal.WithLabelValues(service, status).Inc()
	if status == "accepted" && documentCount > 0 {
		m.submittedDocuments.WithLabelValues(service).Observe(float64(documentCount))
	}
}

func (m *HTTPServerMetrics) RecordStatusLookup(service, status string) {
	if status == "" {
		status = "unknown"
	}
	m.statusLookupsTotal.WithLabelValues(service, status).Inc()
}

type metricsRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *metricsRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
