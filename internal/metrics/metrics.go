package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Message processing metrics
	MessagesTotal          *prometheus.CounterVec
	MessageDurationSeconds *prometheus.HistogramVec
	RepliesTotal           *prometheus.CounterVec

	// Triage metrics
	TriageCategoryTotal *prometheus.CounterVec

	// Session metrics
	ActiveSessions prometheus.Gauge

	// Appointment metrics
	AppointmentsTotal *prometheus.CounterVec

	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Sink metrics
	SinkWritesTotal     *prometheus.CounterVec
	SinkDurationSeconds prometheus.Histogram

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Message processing metrics
		MessagesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_messages_total",
				Help: "Total number of processed messages by module and status",
			},
			[]string{"module", "status"}, // status: success, error, rate_limited
		),

		MessageDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triage_message_duration_seconds",
				Help:    "Message processing duration in seconds by module",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"module"}, // module: flow, emergency, booking, symptom, selfcare, fallback
		),

		RepliesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_replies_total",
				Help: "Total number of replies emitted by module",
			},
			[]string{"module"},
		),

		// Triage metrics
		TriageCategoryTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_category_total",
				Help: "Total number of messages per triage category",
			},
			[]string{"category"}, // category: emergency, urgent, gp, none
		),

		// Session metrics
		ActiveSessions: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "triage_active_sessions",
				Help: "Number of booking sessions currently collecting patient details",
			},
		),

		// Appointment metrics
		AppointmentsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_appointments_total",
				Help: "Total number of appointment operations by action",
			},
			[]string{"action"}, // action: created, cancelled, rescheduled
		),

		// Webhook metrics
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_webhook_requests_total",
				Help: "Total number of webhook requests by status",
			},
			[]string{"status"}, // status: success, error
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triage_webhook_duration_seconds",
				Help:    "Webhook request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"status"},
		),

		// Sink metrics
		SinkWritesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_sink_writes_total",
				Help: "Total number of appointment mirror writes by status",
			},
			[]string{"status"}, // status: success, error
		),

		SinkDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "triage_sink_duration_seconds",
				Help:    "Appointment mirror write duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
			},
		),

		// Rate limiter metrics
		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: user
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: timeout, bad_request, etc.
		),
	}

	return m
}

// RecordMessage records a processed message with status
func (m *Metrics) RecordMessage(module, status string, duration float64) {
	m.MessagesTotal.WithLabelValues(module, status).Inc()
	m.MessageDurationSeconds.WithLabelValues(module).Observe(duration)
}

// RecordReplies records replies emitted by a module
func (m *Metrics) RecordReplies(module string, count int) {
	m.RepliesTotal.WithLabelValues(module).Add(float64(count))
}

// RecordTriageCategory records the triage grade of a message
func (m *Metrics) RecordTriageCategory(category string) {
	m.TriageCategoryTotal.WithLabelValues(category).Inc()
}

// SetActiveSessions updates the active booking session gauge
func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}

// RecordAppointment records an appointment lifecycle action
func (m *Metrics) RecordAppointment(action string) {
	m.AppointmentsTotal.WithLabelValues(action).Inc()
}

// RecordWebhook records a webhook request
func (m *Metrics) RecordWebhook(status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(status).Observe(duration)
}

// RecordSinkWrite records an appointment mirror write
func (m *Metrics) RecordSinkWrite(status string, duration float64) {
	m.SinkWritesTotal.WithLabelValues(status).Inc()
	m.SinkDurationSeconds.Observe(duration)
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}
