package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_pipeline_runs_total",
			Help: "Total number of NL-to-SQL pipeline runs by final status.",
		},
		[]string{"status"},
	)
	pipelineLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aichat_pipeline_latency_ms",
			Help:    "End-to-end pipeline latency in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 20000, 40000, 80000},
		},
	)
	pipelineAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aichat_pipeline_generation_attempts",
			Help:    "SQL generation attempts used per pipeline run.",
			Buckets: []float64{1, 2, 3},
		},
	)
	pipelineTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_pipeline_tokens_total",
			Help: "Tokens consumed by pipeline runs.",
		},
		[]string{"kind"},
	)
	validationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_sql_validation_failures_total",
			Help: "SQL validation failures by failed check.",
		},
		[]string{"check"},
	)
	llmCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_llm_calls_total",
			Help: "Completion calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
	llmCallDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aichat_llm_call_duration_seconds",
			Help:    "Completion call latency by provider.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"provider"},
	)
	queryExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_query_executions_total",
			Help: "SQL executions by engine and outcome.",
		},
		[]string{"engine", "outcome"},
	)
	queryDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aichat_query_duration_ms",
			Help:    "SQL execution latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
		[]string{"engine"},
	)
)

func init() {
	prometheus.MustRegister(
		pipelineRunsTotal,
		pipelineLatencyMs,
		pipelineAttempts,
		pipelineTokensTotal,
		validationFailuresTotal,
		llmCallsTotal,
		llmCallDurationSeconds,
		queryExecutionsTotal,
		queryDurationMs,
	)
}

func ObservePipelineRun(status string, attempts int, promptTokens, completionTokens int, elapsed time.Duration) {
	pipelineRunsTotal.WithLabelValues(status).Inc()
	pipelineLatencyMs.Observe(float64(elapsed.Milliseconds()))
	if attempts > 0 {
		pipelineAttempts.Observe(float64(attempts))
	}
	if promptTokens > 0 {
		pipelineTokensTotal.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		pipelineTokensTotal.WithLabelValues("completion").Add(float64(completionTokens))
	}
}

func IncrementValidationFailure(check string) {
	validationFailuresTotal.WithLabelValues(check).Inc()
}

func ObserveLLMCall(provider string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	llmCallsTotal.WithLabelValues(provider, outcome).Inc()
	llmCallDurationSeconds.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func ObserveQueryExecution(engine string, success bool, elapsed time.Duration) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	queryExecutionsTotal.WithLabelValues(engine, outcome).Inc()
	queryDurationMs.WithLabelValues(engine).Observe(float64(elapsed.Milliseconds()))
}
