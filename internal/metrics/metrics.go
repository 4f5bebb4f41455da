package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Pipeline metrics
	ArticlesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_articles_fetched_total",
			Help: "Total number of articles fetched, per source",
		},
		[]string{"source"},
	)

	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_fetch_errors_total",
			Help: "Total number of failed source fetches, per source",
		},
		[]string{"source"},
	)

	ArticlesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "herald_articles_delivered_total",
			Help: "Total number of articles delivered to subscribers",
		},
	)

	DeliveryErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "herald_delivery_errors_total",
			Help: "Total number of failed deliveries",
		},
	)

	// Job metrics
	JobExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_job_executions_total",
			Help: "Total number of scheduled job executions",
		},
		[]string{"job", "status"}, // status: success|error|skipped
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "herald_job_duration_seconds",
			Help:    "Job execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"job"},
	)
)

// Register registers all metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		ArticlesFetched,
		FetchErrors,
		ArticlesDelivered,
		DeliveryErrors,
		JobExecutions,
		JobDuration,
	)
}
