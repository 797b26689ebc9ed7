package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallbacksProcessed The total number of processed payment callbacks by result (counter)
	CallbacksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "callbacks_processed_total",
			Help:      "The total number of processed payment callbacks",
		},
		[]string{"result"},
	)

	// BookingsCreated total number of bookings created by the reconciliation pipeline (counter)
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		},
	)

	// DuplicateCallbacks total number of callbacks that found an existing booking (counter)
	DuplicateCallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "duplicate_callbacks_total",
			Help:      "The total number of duplicate callbacks for an already-booked transaction",
		},
	)

	// NotificationFailures total number of failed notification attempts (counter)
	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "notification_failures_total",
			Help:      "The total number of failed notification attempts",
		},
	)

	// CallbackDuration The total time spent processing payment callbacks (summary with quantiles 0.5, 0.9, and 0.99)
	CallbackDuration = promauto.NewSummary(
		prometheus.SummaryOpts{
			Namespace:  "payments",
			Name:       "callback_duration_seconds",
			Help:       "The total time spent processing payment callbacks",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
	)
)

const (
	ResultBooked     = "booked"
	ResultDuplicate  = "duplicate"
	ResultConflict   = "conflict"
	ResultVerifyFail = "verify_failed"
	ResultNotPaid    = "not_paid"
	ResultError      = "error"
)
