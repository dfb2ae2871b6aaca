package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solomanager_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solomanager_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MembersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solomanager_members_created_total",
			Help: "Total number of members added",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solomanager_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"plan"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solomanager_notifications_total",
			Help: "Total number of WhatsApp notifications dispatched",
		},
		[]string{"type", "status"},
	)

	SweepRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solomanager_sweep_runs_total",
			Help: "Total number of subscription sweep runs",
		},
	)

	SweepItemErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solomanager_sweep_item_errors_total",
			Help: "Per-subscription failures inside a sweep pass",
		},
		[]string{"pass"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordMemberCreated() {
	MembersCreatedTotal.Inc()
}

func RecordSubscriptionCreated(planName string) {
	SubscriptionsCreatedTotal.WithLabelValues(planName).Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}

func RecordSweepRun() {
	SweepRunsTotal.Inc()
}

func RecordSweepItemError(pass string) {
	SweepItemErrorsTotal.WithLabelValues(pass).Inc()
}
