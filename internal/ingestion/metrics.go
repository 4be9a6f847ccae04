package ingestion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeProcessed = "processed"
	outcomeNotFound  = "not_found"
	outcomeFailed    = "failed"

	stepRecord  = "record"
	stepHold    = "hold"
	stepPublish = "publish"
)

var (
	ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraudcheck",
		Name:      "orders_total",
		Help:      "Orders taken from the hub, by platform and ingestion outcome",
	}, []string{"platform", "outcome"})

	verdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraudcheck",
		Name:      "verdicts_total",
		Help:      "Fraud check verdicts, by platform and verdict",
	}, []string{"platform", "verdict"})

	sinkErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraudcheck",
		Name:      "decision_sink_errors_total",
		Help:      "Failures while recording, holding or announcing a flagged order",
	}, []string{"step"})

	batchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fraudcheck",
		Name:      "batch_failures_total",
		Help:      "Batches aborted because the hub listing failed",
	})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fraudcheck",
		Name:      "batch_duration_seconds",
		Help:      "Duration of a full ingestion batch",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	})
)

func verdictLabel(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}
