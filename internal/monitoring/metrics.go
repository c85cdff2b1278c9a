package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsOpened prometheus.Counter
	SessionsClosed prometheus.Counter
	WindowsActive  prometheus.Gauge

	// Evaluation metrics
	Evaluations        *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec

	// Command metrics
	CommandInvocations *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
	stop      chan struct{}
	stopOnce  sync.Once

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	TotalRequests    int64   `json:"total_requests"`
	TotalErrors      int64   `json:"total_errors"`
	SessionsOpened   int64   `json:"sessions_opened"`
	SessionsClosed   int64   `json:"sessions_closed"`
	ActiveWindows    int64   `json:"active_windows"`
	Evaluations      int64   `json:"evaluations"`
	TotalDuration    float64 `json:"-"`
	RequestCount     int64   `json:"-"`
	AvgRequestMillis float64 `json:"avg_request_ms"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics collector. Metrics register with the
// default Prometheus registry, so construct at most one per process.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
		stop:      make(chan struct{}),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roslyn_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roslyn_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		SessionsOpened: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "roslyn_sessions_opened_total",
				Help: "Total number of interactive sessions opened",
			},
		),
		SessionsClosed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "roslyn_sessions_closed_total",
				Help: "Total number of interactive sessions closed",
			},
		),
		WindowsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "roslyn_windows_active",
				Help: "Number of live tool windows",
			},
		),

		Evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roslyn_evaluations_total",
				Help: "Total number of submissions evaluated",
			},
			[]string{"language", "status"},
		),
		EvaluationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roslyn_evaluation_duration_seconds",
				Help:    "Submission evaluation duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"language"},
		),

		CommandInvocations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roslyn_command_invocations_total",
				Help: "Total number of window command invocations",
			},
			[]string{"command", "status"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "roslyn_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roslyn_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "roslyn_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric until Stop.
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Uptime.Set(time.Since(m.startTime).Seconds())
		case <-m.stop:
			return
		}
	}
}

// Stop terminates the uptime updater. Safe to call more than once.
func (m *Metrics) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordSessionOpened records a new interactive session
func (m *Metrics) RecordSessionOpened() {
	m.SessionsOpened.Inc()
	m.mu.Lock()
	m.snapshot.SessionsOpened++
	m.mu.Unlock()
}

// RecordSessionClosed records a session teardown
func (m *Metrics) RecordSessionClosed() {
	m.SessionsClosed.Inc()
	m.mu.Lock()
	m.snapshot.SessionsClosed++
	m.mu.Unlock()
}

// SetWindowsActive sets the live window count
func (m *Metrics) SetWindowsActive(count int) {
	m.WindowsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveWindows = int64(count)
	m.mu.Unlock()
}

// RecordEvaluation records one submission
func (m *Metrics) RecordEvaluation(language, status string, duration time.Duration) {
	m.Evaluations.WithLabelValues(language, status).Inc()
	m.EvaluationDuration.WithLabelValues(language).Observe(duration.Seconds())
	m.mu.Lock()
	m.snapshot.Evaluations++
	m.mu.Unlock()
}

// RecordCommand records a command invocation
func (m *Metrics) RecordCommand(command, status string) {
	m.CommandInvocations.WithLabelValues(command, status).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// GetSnapshot returns current values for the JSON metrics endpoint
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.RequestCount > 0 {
		s.AvgRequestMillis = s.TotalDuration / float64(s.RequestCount) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
