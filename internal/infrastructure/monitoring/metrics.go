package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Resource protocol metrics
	ResourceRequests *prometheus.CounterVec

	// Install metrics
	Installs        *prometheus.CounterVec
	InstallDuration prometheus.Histogram
	InstallsActive  prometheus.Gauge
	Launches        *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a metrics collector on its own registry, so several
// servers (tests) can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		Registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installer_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "installer_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		ResourceRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installer_resource_requests_total",
				Help: "Total number of local resource requests",
			},
			[]string{"root", "status"},
		),

		Installs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installer_installs_total",
				Help: "Total number of install attempts by outcome",
			},
			[]string{"outcome"},
		),
		InstallDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "installer_install_duration_seconds",
				Help:    "Duration of the privileged install command in seconds",
				Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),
		InstallsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "installer_installs_active",
				Help: "Number of installs currently running",
			},
		),
		Launches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installer_launches_total",
				Help: "Total number of runner launch attempts by outcome",
			},
			[]string{"outcome"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "installer_ws_connections",
				Help: "Number of active UI bridge connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "installer_ws_messages_total",
				Help: "Total number of UI bridge messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "installer_uptime_seconds",
			Help: "Installer uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordResource records a resource protocol request
func (m *Metrics) RecordResource(root, status string) {
	m.ResourceRequests.WithLabelValues(root, status).Inc()
}

// InstallStarted marks an install as running
func (m *Metrics) InstallStarted() {
	m.InstallsActive.Inc()
}

// InstallFinished records the outcome of an install
func (m *Metrics) InstallFinished(outcome string, duration time.Duration) {
	m.InstallsActive.Dec()
	m.Installs.WithLabelValues(outcome).Inc()
	m.InstallDuration.Observe(duration.Seconds())
}

// RecordLaunch records a runner launch attempt
func (m *Metrics) RecordLaunch(outcome string) {
	m.Launches.WithLabelValues(outcome).Inc()
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
