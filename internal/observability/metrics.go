package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerMetricsOnce sync.Once

	OracleCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patch_suggester_oracle_calls_total",
			Help: "Total oracle calls",
		},
		[]string{"provider"},
	)

	OracleErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patch_suggester_oracle_errors_total",
			Help: "Total oracle errors",
		},
		[]string{"provider"},
	)

	OracleLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "patch_suggester_oracle_latency_seconds",
			Help:    "Oracle call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	OracleTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patch_suggester_oracle_tokens_total",
			Help: "Total oracle tokens",
		},
		[]string{"provider", "model", "type"},
	)

	OracleCostUSD = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patch_suggester_oracle_cost_usd_total",
			Help: "Total estimated oracle cost in USD",
		},
		[]string{"provider", "model"},
	)

	SuggestionsPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patch_suggester_suggestions_posted_total",
			Help: "Total review suggestions posted",
		},
		[]string{"kind"},
	)

	LinesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patch_suggester_lines_skipped_total",
			Help: "Total candidate lines skipped",
		},
		[]string{"reason"},
	)

	BudgetBlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patch_suggester_budget_block_total",
			Help: "Total budget block events",
		},
		[]string{"scope"},
	)
)

func InitMetrics() {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(
			OracleCalls,
			OracleErrors,
			OracleLatency,
			OracleTokens,
			OracleCostUSD,
			SuggestionsPosted,
			LinesSkipped,
			BudgetBlocks,
		)
	})
}
