// ABOUTME: Prometheus collectors for tool calls
// ABOUTME: Counts calls per tool by outcome and records their latency
package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civibridge",
		Subsystem: "tool",
		Name:      "calls_total",
		Help:      "Total tool calls by tool and outcome (success, failure, panic)",
	}, []string{"tool", "outcome"})

	toolCallSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "civibridge",
		Subsystem: "tool",
		Name:      "call_seconds",
		Help:      "Tool call latency including all CRM invocations",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})
)
