// Package metrics provides Prometheus metrics for the trackmeet service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the trackmeet service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Meet workflow
	teamAssignments    prometheus.Counter
	athleteMoves       prometheus.Counter
	athletesImported   prometheus.Counter
	sequencesGenerated prometheus.Counter
	eventsRevealed     prometheus.Counter
	resultsRecorded    prometheus.Counter
	rejections         *prometheus.CounterVec

	// Current state
	athletes       prometheus.Gauge
	teams          prometheus.Gauge
	revealedIndex  prometheus.Gauge
	sequenceLength prometheus.Gauge

	// Persistence
	storeOperations *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorRateByComponent *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "trackmeet",
		subsystem:        "meet",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.teamAssignments = m.counter("team_assignments_total", "Total number of team assignments")
	m.athleteMoves = m.counter("athlete_moves_total", "Total number of athletes moved between teams")
	m.athletesImported = m.counter("athletes_imported_total", "Total number of athletes added by import")
	m.sequencesGenerated = m.counter("sequences_generated_total", "Total number of event sequences generated")
	m.eventsRevealed = m.counter("events_revealed_total", "Total number of events revealed")
	m.resultsRecorded = m.counter("results_recorded_total", "Total number of event results recorded")
	m.rejections = m.counterVec("rejections_total", "Operations rejected by error kind", "op", "kind")

	m.athletes = m.gauge("athletes", "Athletes on the roster")
	m.teams = m.gauge("teams", "Teams in the current assignment")
	m.revealedIndex = m.gauge("revealed_index", "Events revealed in the current sequence")
	m.sequenceLength = m.gauge("sequence_length", "Events in the current sequence")

	m.storeOperations = m.counterVec("store_operations_total", "Store operations by backend and op", "backend", "op")
	m.storeErrors = m.counterVec("store_errors_total", "Failed store operations by op", "op")
	m.storeLatency = m.histogramVec("store_latency_seconds", "Store operation latency in seconds", "backend", "op")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_seconds", "HTTP request duration in seconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_ms",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
		ConstLabels: m.customLabels,
	})
}

// RecordTeamAssignment increments the team assignment counter.
func RecordTeamAssignment() {
	globalManager.teamAssignments.Inc()
}

// RecordAthleteMove increments the athlete move counter.
func RecordAthleteMove() {
	globalManager.athleteMoves.Inc()
}

// RecordAthletesImported adds n imported athletes.
func RecordAthletesImported(n int) {
	globalManager.athletesImported.Add(float64(n))
}

// RecordSequenceGenerated increments the generated sequence counter.
func RecordSequenceGenerated() {
	globalManager.sequencesGenerated.Inc()
}

// RecordEventRevealed increments the reveal counter.
func RecordEventRevealed() {
	globalManager.eventsRevealed.Inc()
}

// RecordResultRecorded increments the recorded result counter.
func RecordResultRecorded() {
	globalManager.resultsRecorded.Inc()
}

// RecordRejection counts an operation rejected with an error kind code.
func RecordRejection(op, kind string) {
	globalManager.rejections.WithLabelValues(op, kind).Inc()
}

// UpdateAthletes sets the roster size.
func UpdateAthletes(count int) {
	globalManager.athletes.Set(float64(count))
}

// UpdateTeams sets the team count.
func UpdateTeams(count int) {
	globalManager.teams.Set(float64(count))
}

// UpdateSequence sets the sequence length and reveal progress.
func UpdateSequence(length, revealed int) {
	globalManager.sequenceLength.Set(float64(length))
	globalManager.revealedIndex.Set(float64(revealed))
}

// RecordStoreOperation records one store call and its latency in seconds.
func RecordStoreOperation(backend, op string, seconds float64) {
	globalManager.storeOperations.WithLabelValues(backend, op).Inc()
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(seconds)
}

// RecordStoreError increments the failed store operation counter.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
