package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	workflowTotal    *prometheus.CounterVec
	workflowDuration *prometheus.HistogramVec
	workflowInFlight prometheus.Gauge
	documentTotal    *prometheus.CounterVec
	decisionTotal    *prometheus.CounterVec
	queueLag         *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	workflowTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssp",
			Subsystem: "worker",
			Name:      "workflow_total",
			Help:      "Total completed application workflows by terminal status.",
		},
		[]string{"service", "status"},
	)
	workflowDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssp",
			Subsystem: "worker",
			Name:      "workflow_duration_seconds",
			Help:      "End-to-end workflow duration in seconds by terminal status.",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	workflowInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ssp",
			Subsystem: "worker",
			Name:      "workflow_in_flight",
			Help:      "Number of in-flight application workflows.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	documentTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssp",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by declared type and status.",
		},
		[]string{"service", "document_type", "status"},
	)
	decisionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssp",
			Subsystem: "worker",
			Name:      "assessment_decision_total",
			Help:      "Total eligibility decisions by outcome.",
		},
		[]string{"service", "decision"},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssp",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between workflow submission and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(workflowTotal, workflowDuration, workflowInFlight, documentTotal, decisionTotal, queueLag)

	return &WorkerMetrics{
		registry:         registry,
		workflowTotal:    workflowTotal,
		workflowDuration: workflowDuration,
		workflowInFlight: workflowInFlight,
		documentTotal:    documentTotal,
		decisionTotal:    decisionTotal,
		queueLag:         queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartWorkflow() {
	m.workflowInFlight.Inc()
}

func (m *WorkerMetrics) FinishWorkflow(service, status string, duration time.Duration) {
	m.workflowInFlight.Dec()
	if status == "" {
		status = "unknown"
	}
	m.workflowTotal.WithLabelValues(service, status).Inc()
	m.workflowDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordDocument(service, documentType string, err error) {
	if documentType == "" {
		documentType = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.documentTotal.WithLabelValues(service, documentType, status).Inc()
}

func (m *WorkerMetrics) RecordDecision(service, decision string) {
	if decision == "" {
		decision = "unknown"
	}
	m.decisionTotal.WithLabelValues(service, decision).Inc()
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
