// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_resolutions_total",
			Help: "Total number of technician resolutions by outcome",
		},
		[]string{"outcome"},
	)

	TechnicianSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_technician_source_total",
			Help: "Which source supplied the assigned technician",
		},
		[]string{"source"},
	)

	FallbackLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_fallback_lookups_total",
			Help: "Fallback registry lookups by trigger reason",
		},
		[]string{"reason"},
	)

	DegradedEstimates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_degraded_estimates_total",
			Help: "Route estimates served with the fixed placeholder values",
		},
	)

	RouteEstimateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "dispatch_route_estimate_duration_seconds",
			Help: "Duration of routing service calls in seconds",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_notifications_sent_total",
			Help: "Booking confirmation notifications by channel and status",
		},
		[]string{"channel", "status"},
	)
)
