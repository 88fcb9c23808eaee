// Package metrics provides Prometheus metrics for the matchup simulation service.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Latency histograms are in milliseconds. A table lookup is sub-millisecond,
// a full simulation tens to hundreds.
var (
	defaultLatencyBuckets   = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	defaultBandwidthBuckets = prometheus.ExponentialBuckets(0.125, 2, 10)
)

// Simulation outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager manages all Prometheus metrics for the matchup service.
type Manager struct {
	namespace        string
	subsystem        string
	latencyBuckets   []float64
	bandwidthBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	constLabels      map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Simulation metrics
	simulations       *prometheus.CounterVec
	simulationLatency prometheus.Histogram
	predictionLatency prometheus.Histogram
	densityBandwidth  *prometheus.HistogramVec
	densityFallbacks  prometheus.Counter
	homeWinPct        prometheus.Histogram

	// Lookup metrics
	lookupLatency prometheus.Histogram
	storeRecords  prometheus.Gauge

	// Batch metrics
	batchInFlight prometheus.Gauge
	batchMatchups *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByKind *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
	lastNumGC            uint32
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchup",
		subsystem:        "simulation",
		latencyBuckets:   defaultLatencyBuckets,
		bandwidthBuckets: defaultBandwidthBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: m.name(name), Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: m.name(name), Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	latency := m.latencyBuckets

	m.simulations = auto.NewCounterVec(
		m.counterOpts("simulations_total", "Total number of matchup simulations by outcome"),
		[]string{"outcome"},
	)
	m.simulationLatency = auto.NewHistogram(
		m.histogramOpts("simulation_latency_milliseconds", "End-to-end simulation latency in milliseconds", latency))
	m.predictionLatency = auto.NewHistogram(
		m.histogramOpts("prediction_latency_milliseconds", "Batched predictor call latency in milliseconds", latency))
	m.densityBandwidth = auto.NewHistogramVec(
		m.histogramOpts("density_bandwidth", "Selected KDE bandwidth by series", m.bandwidthBuckets),
		[]string{"series"},
	)
	m.densityFallbacks = auto.NewCounter(
		m.counterOpts("density_fallbacks_total", "Density curves that used the configured fallback bandwidth"))
	m.homeWinPct = auto.NewHistogram(
		m.histogramOpts("home_win_pct", "Distribution of simulated home win fractions",
			prometheus.LinearBuckets(0, 0.1, 11)))

	m.lookupLatency = auto.NewHistogram(
		m.histogramOpts("lookup_latency_milliseconds", "Team-season lookup latency in milliseconds", latency))
	m.storeRecords = auto.NewGauge(
		m.gaugeOpts("store_records", "Number of team-season records in the lookup store"))

	m.batchInFlight = auto.NewGauge(
		m.gaugeOpts("batch_in_flight", "Batch matchups currently being simulated"))
	m.batchMatchups = auto.NewCounterVec(
		m.counterOpts("batch_matchups_total", "Batch matchups processed by outcome"),
		[]string{"outcome"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", latency),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByKind = auto.NewCounterVec(
		m.counterOpts("errors_total", "Total number of errors by component and kind"),
		[]string{"component", "kind"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Collect samples runtime statistics every refresh interval until ctx is done.
func (m *Manager) Collect(ctx context.Context) {
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()
	m.sampleRuntime()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sampleRuntime()
		}
	}
}

func (m *Manager) sampleRuntime() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapInuse))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))

	// PauseNs is a ring of the most recent 256 pauses.
	from := m.lastNumGC
	if ms.NumGC-from > uint32(len(ms.PauseNs)) {
		from = ms.NumGC - uint32(len(ms.PauseNs))
	}
	for n := from; n < ms.NumGC; n++ {
		m.systemGCPauseTime.Observe(float64(ms.PauseNs[n%uint32(len(ms.PauseNs))]) / 1e6)
	}
	m.lastNumGC = ms.NumGC
}

// CollectRuntime runs the global manager's runtime collector until ctx is done.
func CollectRuntime(ctx context.Context) {
	globalManager.Collect(ctx)
}

// RecordSimulation counts one simulation and records its latency.
func RecordSimulation(outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.simulations.WithLabelValues(outcome).Inc()
	globalManager.simulationLatency.Observe(latencyMs)
}

// RecordPredictionLatency records one batched predictor call.
func RecordPredictionLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordDensityBandwidth records the bandwidth chosen for series ("total" or "spread").
func RecordDensityBandwidth(series string, bw float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.densityBandwidth.WithLabelValues(series).Observe(bw)
}

// RecordDensityFallback counts a curve built with the fallback bandwidth.
func RecordDensityFallback() {
	if !globalManager.enabled {
		return
	}
	globalManager.densityFallbacks.Inc()
}

// RecordHomeWinPct records a simulated home win fraction.
func RecordHomeWinPct(pct float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.homeWinPct.Observe(pct)
}

// RecordLookupLatency records a team-season lookup.
func RecordLookupLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.lookupLatency.Observe(latencyMs)
}

// UpdateStoreRecords sets the lookup store size.
func UpdateStoreRecords(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeRecords.Set(float64(count))
}

// AddBatchInFlight adjusts the number of in-flight batch matchups.
func AddBatchInFlight(delta int) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchInFlight.Add(float64(delta))
}

// RecordBatchMatchup counts one processed batch matchup.
func RecordBatchMatchup(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchMatchups.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordError counts an error of kind raised by component.
func RecordError(component, kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByKind.WithLabelValues(component, kind).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
