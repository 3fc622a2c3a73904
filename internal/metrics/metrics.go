package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status code.",
		},
		[]string{"endpoint", "method", "code"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_created_total",
			Help:      "Bookings created.",
		},
	)

	bookingDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_decisions_total",
			Help:      "Owner decisions by resulting status.",
		},
		[]string{"status"},
	)

	commentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "comments_created_total",
			Help:      "Comments created.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingDecisions, commentsCreated)
	})
}

// IncHTTP increments the request counter for an endpoint/method/code triple.
func IncHTTP(endpoint, method, code string) {
	httpRequests.WithLabelValues(endpoint, method, code).Inc()
}

// IncBookingCreated increments the created-bookings counter.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingDecision increments the decision counter for a status.
func IncBookingDecision(status string) {
	bookingDecisions.WithLabelValues(status).Inc()
}

// IncCommentCreated increments the created-comments counter.
func IncCommentCreated() {
	commentsCreated.Inc()
}
