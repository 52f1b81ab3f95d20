package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the analysis worker

var (
	// Feed metrics
	FeedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spoilerfree_feed_calls_total",
			Help: "Total number of scoreboard feed calls",
		},
		[]string{"endpoint", "status"},
	)

	FeedCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spoilerfree_feed_call_duration_seconds",
			Help:    "Duration of scoreboard feed calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Rating service metrics
	RatingCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spoilerfree_rating_calls_total",
			Help: "Total number of rating service calls",
		},
		[]string{"source", "status"},
	)

	RatingCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spoilerfree_rating_call_duration_seconds",
			Help:    "Duration of rating service calls in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	// Analysis run metrics
	AnalysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spoilerfree_analysis_runs_total",
			Help: "Total number of analysis pipeline runs",
		},
		[]string{"status"},
	)

	AnalysisRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spoilerfree_analysis_run_duration_seconds",
			Help:    "Duration of analysis pipeline runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	GamesAnalyzedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spoilerfree_games_analyzed_total",
			Help: "Total number of games rated and stored",
		},
	)

	GamesStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spoilerfree_games_stored",
			Help: "Total number of game records in the database",
		},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spoilerfree_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spoilerfree_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spoilerfree_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spoilerfree_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spoilerfree_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spoilerfree_last_successful_run_timestamp",
			Help: "Timestamp of the last successful analysis run",
		},
	)
)

// RecordFeedCall records a scoreboard feed call
func RecordFeedCall(endpoint, status string, duration float64) {
	FeedCallsTotal.WithLabelValues(endpoint, status).Inc()
	FeedCallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordRatingCall records a rating service call by source (live or fallback)
func RecordRatingCall(source, status string, duration float64) {
	RatingCallsTotal.WithLabelValues(source, status).Inc()
	RatingCallDuration.WithLabelValues(source).Observe(duration)
}

// RecordAnalysisRun records a completed pipeline run
func RecordAnalysisRun(status string, duration float64) {
	AnalysisRunsTotal.WithLabelValues(status).Inc()
	AnalysisRunDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordGameAnalyzed records one game rated and stored
func RecordGameAnalyzed() {
	GamesAnalyzedTotal.Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(operation, status string) {
	DBQueriesTotal.WithLabelValues(operation, status).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateGamesStored updates the stored-games gauge
func UpdateGamesStored(count int64) {
	GamesStored.Set(float64(count))
}
