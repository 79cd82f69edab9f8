package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	answersRecordedTotal  *prometheus.CounterVec
	submissionsCompleted  prometheus.Counter
	reportCacheLookups    *prometheus.CounterVec
	submissionEventsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_http_requests_total",
			Help: "API requests served, by scope (admin or api).",
		}, []string{"scope", "method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quiz_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"scope", "method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_http_errors_total",
			Help: "Error responses returned by the API.",
		}, []string{"scope", "method", "route", "status"})

		answersRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_answers_recorded_total",
			Help: "Answers recorded by the submission ledger.",
		}, []string{"kind", "result"})

		submissionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_submissions_completed_total",
			Help: "Submissions that reached completion.",
		})

		reportCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_report_cache_lookups_total",
			Help: "Report cache lookups by outcome.",
		}, []string{"outcome"})

		submissionEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_submission_events_total",
			Help: "Submission events published to the message bus.",
		}, []string{"event", "status"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			answersRecordedTotal,
			submissionsCompleted,
			reportCacheLookups,
			submissionEventsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for 4xx and 5xx responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AnswersRecorded counts ledger writes labelled by kind (first, revision) and result (correct, incorrect).
func AnswersRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return answersRecordedTotal
}

// SubmissionsCompleted counts submissions whose last unanswered question was answered.
func SubmissionsCompleted() prometheus.Counter {
	RegisterMetrics()
	return submissionsCompleted
}

// ReportCacheLookups counts report cache hits and misses.
func ReportCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return reportCacheLookups
}

// SubmissionEvents counts published submission events.
func SubmissionEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionEventsTotal
}
