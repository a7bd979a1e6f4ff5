package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for skydesk
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Reservation backend metrics
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsCreatedTotal prometheus.Counter
	LoginFailuresTotal   prometheus.Counter
	LoginLockoutsTotal   prometheus.Counter

	// Business Metrics
	RowMutationsTotal     *prometheus.CounterVec
	TicketsCreatedTotal   prometheus.Counter
	PartialBookingsTotal  prometheus.Counter
	ReportsGeneratedTotal *prometheus.CounterVec
}

// NewMetricsRegistry registers every metric on reg. Pass
// prometheus.DefaultRegisterer in main and a fresh prometheus.NewRegistry()
// in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skydesk_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skydesk_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skydesk_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		BackendRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skydesk_backend_requests_total",
				Help: "Calls made to the reservation backend by endpoint, method, and outcome",
			},
			[]string{"endpoint", "method", "outcome"},
		),
		BackendRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skydesk_backend_request_duration_seconds",
				Help:    "Reservation backend call latency in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),

		SessionsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skydesk_sessions_created_total",
				Help: "Sessions created after a successful login",
			},
		),
		LoginFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skydesk_login_failures_total",
				Help: "Failed login attempts",
			},
		),
		LoginLockoutsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skydesk_login_lockouts_total",
				Help: "Login lockouts triggered by consecutive failures",
			},
		),

		// Business Metrics
		RowMutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skydesk_row_mutations_total",
				Help: "Row mutations issued from list views by resource and outcome",
			},
			[]string{"resource", "outcome"},
		),
		TicketsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skydesk_tickets_created_total",
				Help: "Tickets created through the booking flow",
			},
		),
		PartialBookingsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skydesk_partial_bookings_total",
				Help: "Bookings where a later ticket failed after earlier tickets were created",
			},
		),
		ReportsGeneratedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skydesk_reports_generated_total",
				Help: "Survey reports rendered by report kind",
			},
			[]string{"kind"},
		),
	}
}
