package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application-level counters, exposed on /metrics.
var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "travel_booking",
		Name:      "bookings_created_total",
		Help:      "The total number of bookings created",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "travel_booking",
		Name:      "bookings_cancelled_total",
		Help:      "The total number of bookings cancelled",
	})

	EmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "travel_booking",
		Name:      "emails_sent_total",
		Help:      "The total number of emails sent",
	})

	EmailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "travel_booking",
		Name:      "emails_failed_total",
		Help:      "The total number of email sends that failed",
	})

	RefundAmounts = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "travel_booking",
		Name:      "refund_amount",
		Help:      "Refund amounts computed at cancellation",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
	})
)
