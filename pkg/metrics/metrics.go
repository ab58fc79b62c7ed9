package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records staff authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wage_survey_auth_attempts_total",
			Help: "Total number of staff authentication attempts",
		},
		[]string{"result"},
	)

	// SurveySubmissions counts survey submission attempts by result (success|failure|invalid).
	SurveySubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wage_survey_submissions_total",
			Help: "Total number of survey submission attempts",
		},
		[]string{"result"},
	)

	// RateLinesWritten counts rate line rows persisted with accepted submissions.
	RateLinesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wage_survey_rate_lines_written_total",
			Help: "Total number of rate line rows written",
		},
	)

	// ExportRequests counts admin export requests by kind (csv|stats) and result.
	ExportRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wage_survey_export_requests_total",
			Help: "Total number of admin export requests",
		},
		[]string{"kind", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wage_survey_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
