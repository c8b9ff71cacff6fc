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

	LeadScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lead_score",
			Help:    "Distribution of computed lead scores",
			Buckets: []float64{5, 10, 15, 20, 25, 30, 40, 50, 60},
		},
	)

	LeadTiers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_tier_total",
			Help: "Scored leads by tier",
		},
		[]string{"tier"},
	)

	GateVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questionnaire_gate_verdicts_total",
			Help: "Eligibility gate evaluations by gate and outcome",
		},
		[]string{"gate", "blocked", "reason"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_notifications_total",
			Help: "Lead notification attempts by channel and status",
		},
		[]string{"channel", "status"},
	)

	SubmissionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_submissions_in_flight_rejected_total",
			Help: "Submissions ignored because one was already in flight for the applicant",
		},
	)
)

// RecordJobResult counts the outcome of one job. An empty errorCode counts
// as completed. Durations are observed by the worker wrapper.
func RecordJobResult(taskType, errorCode string) {
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
