package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Every method is safe on a nil
// receiver so components can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Window metrics
	WindowsOpen      prometheus.Gauge
	WindowOpens      *prometheus.CounterVec
	WindowCloses     *prometheus.CounterVec
	FocusChanges     prometheus.Counter
	InitFailures     *prometheus.CounterVec
	InitDuration     *prometheus.HistogramVec
	StaleCompletions *prometheus.CounterVec

	// Event stream metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec
	EventsDropped prometheus.Counter

	// Snapshot for JSON API - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON health API
type Snapshot struct {
	TotalRequests int64 `json:"total_requests"`
	TotalErrors   int64 `json:"total_errors"`
	OpenWindows   int64 `json:"open_windows"`
	InitFailures  int64 `json:"init_failures"`
	EventsDropped int64 `json:"events_dropped"`
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktop_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_windows_open",
				Help: "Number of open windows",
			},
		),
		WindowOpens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_window_opens_total",
				Help: "Total number of windows opened",
			},
			[]string{"app"},
		),
		WindowCloses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_window_closes_total",
				Help: "Total number of windows closed",
			},
			[]string{"app"},
		),
		FocusChanges: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_focus_changes_total",
				Help: "Total number of active window changes",
			},
		),
		InitFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_app_init_failures_total",
				Help: "Total number of failed app initializations",
			},
			[]string{"app"},
		),
		InitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktop_app_init_duration_seconds",
				Help:    "App initialization duration in seconds",
				Buckets: []float64{.001, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"app"},
		),
		StaleCompletions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_app_init_stale_total",
				Help: "Init completions discarded because the window was closed",
			},
			[]string{"app"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
		EventsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_events_dropped_total",
				Help: "Events dropped for slow subscribers",
			},
		),
	}
}

// Registry returns the Prometheus registry backing m
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// SetWindowsOpen sets the number of open windows
func (m *Metrics) SetWindowsOpen(count int) {
	if m == nil {
		return
	}
	m.WindowsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenWindows = int64(count)
	m.mu.Unlock()
}

// IncWindowOpened counts a newly opened window
func (m *Metrics) IncWindowOpened(app string) {
	if m == nil {
		return
	}
	m.WindowOpens.WithLabelValues(app).Inc()
}

// IncWindowClosed counts a closed window
func (m *Metrics) IncWindowClosed(app string) {
	if m == nil {
		return
	}
	m.WindowCloses.WithLabelValues(app).Inc()
}

// IncFocusChange counts an active window change
func (m *Metrics) IncFocusChange() {
	if m == nil {
		return
	}
	m.FocusChanges.Inc()
}

// IncInitFailure counts a failed app initialization
func (m *Metrics) IncInitFailure(app string) {
	if m == nil {
		return
	}
	m.InitFailures.WithLabelValues(app).Inc()
	m.mu.Lock()
	m.snapshot.InitFailures++
	m.mu.Unlock()
}

// ObserveInitDuration records how long an app initialization took
func (m *Metrics) ObserveInitDuration(app string, d time.Duration) {
	if m == nil {
		return
	}
	m.InitDuration.WithLabelValues(app).Observe(d.Seconds())
}

// IncStaleCompletion counts a discarded init completion
func (m *Metrics) IncStaleCompletion(app string) {
	if m == nil {
		return
	}
	m.StaleCompletions.WithLabelValues(app).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncEventsDropped counts an event dropped for a slow subscriber
func (m *Metrics) IncEventsDropped() {
	if m == nil {
		return
	}
	m.EventsDropped.Inc()
	m.mu.Lock()
	m.snapshot.EventsDropped++
	m.mu.Unlock()
}

// GetSnapshot returns the current snapshot values
func (m *Metrics) GetSnapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
