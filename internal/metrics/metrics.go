package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	InspectionsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "franchiseops", Name: "inspections_submitted_total", Help: "Sector inspections persisted",
	})
	SubmissionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "franchiseops", Name: "submission_failures_total", Help: "Aborted inspection submissions by failing sector",
	}, []string{"sector"})
	AICalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "franchiseops", Name: "ai_calls_total", Help: "Generative model calls by model and outcome",
	}, []string{"model", "outcome"})
	AIFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "franchiseops", Name: "ai_fallbacks_total", Help: "Analysis requests served without the model",
	}, []string{"kind", "reason"})
	HTTPRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "franchiseops", Name: "http_request_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "franchiseops", Name: "job_runs_total", Help: "Background job runs",
	}, []string{"job"})
	JobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "franchiseops", Name: "job_errors_total", Help: "Background job errors",
	}, []string{"job"})
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "franchiseops", Name: "job_duration_seconds", Help: "Background job duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
)

func init() {
	prometheus.MustRegister(
		InspectionsSubmitted, SubmissionFailures,
		AICalls, AIFallbacks,
		HTTPRequests,
		JobRuns, JobErrors, JobDuration,
	)
}

func Handler() http.Handler { return promhttp.Handler() }
