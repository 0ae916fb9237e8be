package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(trainingJobsFinishedTotal, trainingJobsStartedTotal) }

var trainingJobsStartedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "training_jobs_started_total",
		Help: "Total number of training jobs accepted for processing.",
	},
)

var trainingJobsFinishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "training_jobs_finished_total",
		Help: "Total number of training jobs finished, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

func IncJobStarted() {
	trainingJobsStartedTotal.Inc()
}

func IncJobFinished(status string) {
	trainingJobsFinishedTotal.WithLabelValues(status).Inc()
}
