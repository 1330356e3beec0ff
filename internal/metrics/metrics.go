package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalsentinel_signals_total",
			Help: "Signals emitted per producing path and direction",
		},
		[]string{"path", "type"}, // path: advanced|simple|degenerate|static
	)

	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalsentinel_fallbacks_total",
			Help: "Stage failures that moved an asset to its fallback stage",
		},
		[]string{"reason"},
	)

	AssetFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signalsentinel_asset_failures_total",
			Help: "Assets dropped from a batch after an unrecovered failure",
		},
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signalsentinel_batch_duration_seconds",
			Help:    "Signal batch computation time in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// Provider metrics
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalsentinel_provider_requests_total",
			Help: "Market data provider requests",
		},
		[]string{"endpoint", "status"}, // status: success|error|rate_limited
	)

	// Delivery metrics
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalsentinel_notifications_total",
			Help: "Signal report deliveries",
		},
		[]string{"status"}, // status: success|error
	)

	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signalsentinel_runs_total",
			Help: "Scheduled refresh runs",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(SignalsTotal)
		prometheus.MustRegister(FallbacksTotal)
		prometheus.MustRegister(AssetFailuresTotal)
		prometheus.MustRegister(BatchDuration)
		prometheus.MustRegister(ProviderRequests)
		prometheus.MustRegister(NotificationsTotal)
		prometheus.MustRegister(RunsTotal)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSignal counts one emitted signal.
func RecordSignal(path, signalType string) {
	SignalsTotal.WithLabelValues(path, signalType).Inc()
}

// RecordFallback counts one stage failure.
func RecordFallback(reason string) {
	FallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordBatch observes a batch duration.
func RecordBatch(duration time.Duration) {
	BatchDuration.Observe(duration.Seconds())
}

// RecordProviderRequest counts a provider call.
func RecordProviderRequest(endpoint, status string) {
	ProviderRequests.WithLabelValues(endpoint, status).Inc()
}

// RecordNotification counts a report delivery attempt.
func RecordNotification(err error) {
	NotificationsTotal.WithLabelValues(statusOf(err)).Inc()
}

// RecordRun counts a scheduled run.
func RecordRun(err error) {
	RunsTotal.WithLabelValues(statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
