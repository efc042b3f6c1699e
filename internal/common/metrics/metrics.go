// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carehome_candidates_scored_total",
			Help: "Total number of candidate facilities scored",
		},
	)

	EnrichmentFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carehome_enrichment_fetch_failures_total",
			Help: "Enrichment lookups that degraded to an empty bundle",
		},
		[]string{"reason"},
	)

	SelectionSubstitutions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carehome_selection_substitutions_total",
			Help: "Shortlist slots filled by a diversified alternative",
		},
	)

	MatchPercent = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carehome_match_percent",
			Help:    "Distribution of normalized match percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

// Track marks a job active for taskType and returns a func that records
// its duration and outcome. An empty errorCode counts as completed.
func Track(taskType string) func(errorCode string) {
	timer := prometheus.NewTimer(WorkerJobDuration.WithLabelValues(taskType))
	WorkerJobsActive.WithLabelValues(taskType).Inc()

	return func(errorCode string) {
		timer.ObserveDuration()
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}
