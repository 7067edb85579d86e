// ABOUTME: Prometheus collectors for cv invocations
// ABOUTME: Counts calls by entity/action/outcome and records their latency
package civicrm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeInvalid      = "invalid"
	outcomeProcessError = "process_error"
	outcomeDecodeError  = "decode_error"
)

var (
	// Labels: entity, action, outcome (ok, invalid, process_error, decode_error)
	invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civibridge",
		Subsystem: "crm",
		Name:      "invocations_total",
		Help:      "Total cv api4 invocations by entity, action and outcome",
	}, []string{"entity", "action", "outcome"})

	invocationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "civibridge",
		Subsystem: "crm",
		Name:      "invocation_seconds",
		Help:      "Wall time of cv api4 invocations including process start",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"entity", "action"})
)

func recordInvocation(entity, action, outcome string, elapsed time.Duration) {
	invocationsTotal.WithLabelValues(entity, action, outcome).Inc()
	if outcome != outcomeInvalid {
		invocationSeconds.WithLabelValues(entity, action).Observe(elapsed.Seconds())
	}
}
