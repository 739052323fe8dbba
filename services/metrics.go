package services

import (
	"github.com/prometheus/client_golang/prometheus"

	"pushbridge/internal/models"
)

var (
	apiRequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pushbridge_api_requests_total",
			Help: "Total API requests received",
		},
		[]string{"path"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pushbridge_api_request_duration_seconds",
			Help:    "Duration of API request handling",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	apiErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pushbridge_api_errors_total",
			Help: "Total API requests answered with an error status",
		},
		[]string{"path"},
	)

	tunnelStateChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pushbridge_tunnel_state_changes_total",
			Help: "Tunnel process state transitions observed",
		},
		[]string{"state"},
	)

	tunnelURLDiscoveries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pushbridge_tunnel_url_discoveries_total",
			Help: "Distinct public tunnel URLs discovered from process output",
		},
	)

	tunnelRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pushbridge_tunnel_running",
			Help: "Whether the supervised tunnel process is currently running",
		},
	)
)

func init() {
	prometheus.MustRegister(apiRequestCount)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(apiErrorCount)
	prometheus.MustRegister(tunnelStateChanges)
	prometheus.MustRegister(tunnelURLDiscoveries)
	prometheus.MustRegister(tunnelRunning)
}

// IncrementRequestCount counts one handled API request.
func IncrementRequestCount(path string) {
	apiRequestCount.WithLabelValues(path).Inc()
}

// RecordRequestDuration records how long one API request took.
func RecordRequestDuration(path string, seconds float64) {
	apiRequestDuration.WithLabelValues(path).Observe(seconds)
}

// IncrementErrorCount counts one API request answered with status >= 400.
func IncrementErrorCount(path string) {
	apiErrorCount.WithLabelValues(path).Inc()
}

// RecordTunnelStatus mirrors a supervisor status change into the metrics.
func RecordTunnelStatus(status models.ProcessStatus) {
	tunnelStateChanges.WithLabelValues(string(status.State)).Inc()
	if status.Running {
		tunnelRunning.Set(1)
	} else {
		tunnelRunning.Set(0)
	}
}

// RecordURLDiscovery counts one distinct tunnel URL discovery.
func RecordURLDiscovery() {
	tunnelURLDiscoveries.Inc()
}
