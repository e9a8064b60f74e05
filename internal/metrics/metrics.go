package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "makerslot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "makerslot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "makerslot_bookings_total",
			Help: "Total number of booking decisions",
		},
		[]string{"outcome", "reason"},
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "makerslot_cancellations_total",
			Help: "Total number of reservation cancellations",
		},
	)

	ReschedulesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "makerslot_reschedules_total",
			Help: "Total number of reschedule attempts",
		},
		[]string{"outcome"},
	)

	CertificationsGrantedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "makerslot_certifications_granted_total",
			Help: "Total number of certifications granted",
		},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "makerslot_notifications_sent_total",
			Help: "Total number of notifications sent",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "makerslot_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	IndexedSlots = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "makerslot_indexed_slots",
			Help: "Number of live slots in the availability index",
		},
		[]string{"resource_id"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(outcome, reason string) {
	BookingsTotal.WithLabelValues(outcome, reason).Inc()
}

func RecordCancellation() {
	CancellationsTotal.Inc()
}

func RecordReschedule(outcome string) {
	ReschedulesTotal.WithLabelValues(outcome).Inc()
}

func RecordCertificationGrant() {
	CertificationsGrantedTotal.Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsSentTotal.WithLabelValues(notifType, status).Inc()
}
