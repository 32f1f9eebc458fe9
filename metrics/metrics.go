package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	signups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "suvidhaa",
			Name:      "signups_total",
			Help:      "Count of accounts created.",
		},
	)

	logins = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "suvidhaa",
			Name:      "logins_total",
			Help:      "Count of successful logins.",
		},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "suvidhaa",
			Name:      "bookings_created_total",
			Help:      "Count of bookings placed.",
		},
	)

	bookingStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "suvidhaa",
			Name:      "booking_status_changes_total",
			Help:      "Count of booking status changes by target status.",
		},
		[]string{"status"},
	)

	contactMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "suvidhaa",
			Name:      "contact_messages_total",
			Help:      "Count of contact messages received.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(signups, logins, bookingsCreated, bookingStatusChanges, contactMessages)
	})
}

func IncSignup() {
	signups.Inc()
}

func IncLogin() {
	logins.Inc()
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func IncBookingStatusChange(status string) {
	bookingStatusChanges.WithLabelValues(status).Inc()
}

func IncContactMessage() {
	contactMessages.Inc()
}
