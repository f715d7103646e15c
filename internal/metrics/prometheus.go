package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tool metrics
	ToolExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_tool_executions_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool", "status"}, // status: success|error
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minerva_tool_duration_seconds",
			Help:    "Tool execution duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tool"},
	)

	// Agent metrics
	AgentCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_agent_calls_total",
			Help: "Total number of agent model calls",
		},
		[]string{"agent", "model", "status"}, // status: success|error
	)

	AgentTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_agent_tokens_total",
			Help: "Total tokens used by agents",
		},
		[]string{"agent", "model", "type"}, // type: input|output
	)

	// Formula resolution metrics
	FormulaRewrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_formula_rewrites_total",
			Help: "Total formula rewrite attempts",
		},
		[]string{"status"}, // status: success|unresolved|malformed
	)
)

func init() {
	prometheus.MustRegister(
		ToolExecutions,
		ToolDuration,
		AgentCalls,
		AgentTokens,
		FormulaRewrites,
	)
}

// ObserveToolExecution records one tool run.
func ObserveToolExecution(tool string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ToolExecutions.WithLabelValues(tool, status).Inc()
	ToolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts the metrics endpoint on addr. Blocks; intended to run in its
// own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}
