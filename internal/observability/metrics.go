package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	apiRequestsTotal         *prometheus.CounterVec
	apiLatencySeconds        *prometheus.HistogramVec
	apiErrorsTotal           *prometheus.CounterVec
	activitySubmissionsTotal prometheus.Counter
	reviewDecisionsTotal     *prometheus.CounterVec
	reviewConflictsTotal     prometheus.Counter
	portfolioRecomputeTime   prometheus.Histogram
	analyticsCacheLookups    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		activitySubmissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "activity_submissions_total",
			Help: "Total number of activities submitted by students.",
		})

		reviewDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_decisions_total",
			Help: "Total number of review decisions applied, by outcome status.",
		}, []string{"decision"})

		reviewConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_conflicts_total",
			Help: "Total number of review or edit attempts rejected by the status guard.",
		})

		portfolioRecomputeTime = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_recompute_seconds",
			Help:    "Time spent rebuilding a portfolio snapshot.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		analyticsCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_cache_lookups_total",
			Help: "Analytics cache lookups by view and result.",
		}, []string{"view", "result"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			activitySubmissionsTotal,
			reviewDecisionsTotal,
			reviewConflictsTotal,
			portfolioRecomputeTime,
			analyticsCacheLookups,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ActivitySubmissions counts accepted submissions.
func ActivitySubmissions() prometheus.Counter {
	RegisterMetrics()
	return activitySubmissionsTotal
}

// ReviewDecisions counts committed review decisions.
func ReviewDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewDecisionsTotal
}

// ReviewConflicts counts status guard misses.
func ReviewConflicts() prometheus.Counter {
	RegisterMetrics()
	return reviewConflictsTotal
}

// PortfolioRecomputeDuration observes recompute latency.
func PortfolioRecomputeDuration() prometheus.Histogram {
	RegisterMetrics()
	return portfolioRecomputeTime
}

// AnalyticsCacheLookups counts cache hits and misses per analytics view.
func AnalyticsCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return analyticsCacheLookups
}
