package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for the club API.
// A nil *Registry is valid and records nothing.
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	HourReviewsTotal       *prometheus.CounterVec
	HourGrantsTotal        prometheus.Counter
	DesignTransitionsTotal *prometheus.CounterVec
	RegistrationsTotal     *prometheus.CounterVec
	CheckInsTotal          *prometheus.CounterVec
	NotificationsTotal     *prometheus.CounterVec
}

// NewRegistry creates the metrics and registers them with reg
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhub_http_requests_total",
				Help: "Total HTTP requests processed by route, method, and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clubhub_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route", "method"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "clubhub_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		HourReviewsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhub_hour_reviews_total",
				Help: "Hour request reviews by resulting status",
			},
			[]string{"status"},
		),
		HourGrantsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clubhub_hour_grants_total",
				Help: "Manual hour grants recorded by club leadership",
			},
		),
		DesignTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhub_design_transitions_total",
				Help: "Design request status transitions by target status",
			},
			[]string{"status"},
		),
		RegistrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhub_event_registrations_total",
				Help: "Event registrations by role and result",
			},
			[]string{"role", "result"},
		),
		CheckInsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhub_checkins_total",
				Help: "Check-in attempts by outcome",
			},
			[]string{"outcome"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubhub_notifications_total",
				Help: "Notifications dispatched by type",
			},
			[]string{"type"},
		),
	}
}

// ObserveHourReview counts a completed review
func (r *Registry) ObserveHourReview(status string) {
	if r == nil {
		return
	}
	r.HourReviewsTotal.WithLabelValues(status).Inc()
}

// ObserveHourGrant counts a manual grant
func (r *Registry) ObserveHourGrant() {
	if r == nil {
		return
	}
	r.HourGrantsTotal.Inc()
}

// ObserveDesignTransition counts a design request reaching status
func (r *Registry) ObserveDesignTransition(status string) {
	if r == nil {
		return
	}
	r.DesignTransitionsTotal.WithLabelValues(status).Inc()
}

// ObserveRegistration counts a registration attempt
func (r *Registry) ObserveRegistration(role, result string) {
	if r == nil {
		return
	}
	r.RegistrationsTotal.WithLabelValues(role, result).Inc()
}

// ObserveCheckIn counts a check-in attempt
func (r *Registry) ObserveCheckIn(outcome string) {
	if r == nil {
		return
	}
	r.CheckInsTotal.WithLabelValues(outcome).Inc()
}

// ObserveNotification counts a dispatched notification
func (r *Registry) ObserveNotification(notificationType string) {
	if r == nil {
		return
	}
	r.NotificationsTotal.WithLabelValues(notificationType).Inc()
}
