package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline stages reported in PipelineFailures.
const (
	StageConfig   = "config"
	StagePrice    = "price"
	StageLevels   = "levels"
	StageExchange = "exchange"
	StagePersist  = "persist"
)

var (
	SignalsEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmibot_signals_evaluated_total",
			Help: "Total number of webhook readings evaluated (by resulting signal).",
		},
		[]string{"signal"},
	)

	OrdersRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmibot_orders_recorded_total",
			Help: "Total number of simulated orders persisted (by side).",
		},
		[]string{"side"},
	)

	PipelineFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmibot_pipeline_failures_total",
			Help: "Total number of signal pipeline runs aborted (by failing stage).",
		},
		[]string{"stage"},
	)
)

func init() {
	prometheus.MustRegister(SignalsEvaluated, OrdersRecorded, PipelineFailures)
}
