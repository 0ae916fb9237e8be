package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(llmRequestsTotal, llmRequestDurationSeconds) }

var llmRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Total number of LLM completion calls, labeled by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'transport_error', 'parse_fallback'
)

var llmRequestDurationSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Latency of LLM completion calls including retries.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	},
)

func IncLLMRequest(outcome string) {
	llmRequestsTotal.WithLabelValues(outcome).Inc()
}

func ObserveLLMRequestDuration(s float64) {
	llmRequestDurationSeconds.Observe(s)
}
