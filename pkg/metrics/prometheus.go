// Package metrics provides Prometheus metrics for the acumen competency
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Telemetry capture
	eventsRecorded prometheus.Counter
	eventsDropped  prometheus.Counter
	storeErrors    *prometheus.CounterVec

	// Sync queue & transport
	syncQueueSize     prometheus.Gauge
	syncOnline        prometheus.Gauge
	syncFlushes       prometheus.Counter
	syncFlushFailures prometheus.Counter
	syncBatchEvents   prometheus.Histogram

	// Collector
	eventsCollected prometheus.Counter
	eventsDuplicate prometheus.Counter

	// Assessment & gating
	assessments     prometheus.Counter
	gatingDecisions *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors by component
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "acumen",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_recorded_total",
		Help:      "Total telemetry events accepted into the durable store",
	})

	m.eventsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dropped_total",
		Help:      "Total malformed events dropped at the recording boundary",
	})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total durable store faults, absorbed and logged",
	}, []string{"op"})

	m.syncQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_queue_size",
		Help:      "Events currently awaiting a flush to the collector",
	})

	m.syncOnline = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_online",
		Help:      "Connectivity as seen by the sync queue (1 online, 0 offline)",
	})

	m.syncFlushes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_flushes_total",
		Help:      "Total successful batch deliveries to the collector",
	})

	m.syncFlushFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_flush_failures_total",
		Help:      "Total failed batch deliveries (batch requeued for retry)",
	})

	m.syncBatchEvents = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_batch_events",
		Help:      "Events per delivered batch",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 250},
	})

	m.eventsCollected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_collected_total",
		Help:      "Total events accepted by the collector endpoint",
	})

	m.eventsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Total redelivered events the collector acknowledged without recounting",
	})

	m.assessments = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessments_total",
		Help:      "Total skill assessment runs",
	})

	m.gatingDecisions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gating_decisions_total",
		Help:      "Total capability access decisions by strategy and outcome",
	}, []string{"strategy", "outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total absorbed errors by component and kind",
	}, []string{"component", "kind"})
}

// RecordEventRecorded increments the accepted events counter.
func RecordEventRecorded() {
	globalManager.eventsRecorded.Inc()
}

// RecordEventDropped increments the dropped events counter.
func RecordEventDropped() {
	globalManager.eventsDropped.Inc()
}

// RecordStoreError increments the store fault counter for an operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// UpdateSyncQueueSize sets the current sync queue depth.
func UpdateSyncQueueSize(size int) {
	globalManager.syncQueueSize.Set(float64(size))
}

// UpdateSyncOnline records the queue's current connectivity view.
func UpdateSyncOnline(online bool) {
	v := 0.0
	if online {
		v = 1.0
	}
	globalManager.syncOnline.Set(v)
}

// RecordFlushSuccess records a delivered batch and its size.
func RecordFlushSuccess(batchSize int) {
	globalManager.syncFlushes.Inc()
	globalManager.syncBatchEvents.Observe(float64(batchSize))
}

// RecordFlushFailure increments the failed flush counter.
func RecordFlushFailure() {
	globalManager.syncFlushFailures.Inc()
}

// RecordEventCollected increments the collector accept counter.
func RecordEventCollected() {
	globalManager.eventsCollected.Inc()
}

// RecordEventDuplicate increments the collector duplicate counter.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordAssessment increments the assessment run counter.
func RecordAssessment() {
	globalManager.assessments.Inc()
}

// RecordGatingDecision counts one access decision.
func RecordGatingDecision(strategy string, granted bool) {
	outcome := "denied"
	if granted {
		outcome = "granted"
	}
	globalManager.gatingDecisions.WithLabelValues(strategy, outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent counts an absorbed error.
func RecordErrorByComponent(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// GetRegistry returns the custom registry used for the /healthz exposition.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
