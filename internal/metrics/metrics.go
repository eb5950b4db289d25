// Package metrics registers Prometheus collectors for the expertise engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pathexplorer"

// Accrual job counters.
var (
	// AccrualCycles counts started accrual cycles.
	AccrualCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "accrual",
		Name:      "cycles_total",
		Help:      "Number of accrual cycles started.",
	})

	// AccrualCyclesSkipped counts cycles skipped by the run-date guard.
	AccrualCyclesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "accrual",
		Name:      "cycles_skipped_total",
		Help:      "Number of accrual cycles skipped because the day already ran.",
	})

	// AccrualPairIncrements counts successful per-pair score increments.
	AccrualPairIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "accrual",
		Name:      "pair_increments_total",
		Help:      "Number of (employee, area) score increments applied.",
	})

	// AccrualPairFailures counts per-pair writes that were logged and skipped.
	AccrualPairFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "accrual",
		Name:      "pair_failures_total",
		Help:      "Number of (employee, area) score increments that failed.",
	})
)

// UpstreamErrors counts external recommendation failures by kind
// (unavailable vs malformed), so model drift is distinguishable from outages.
var UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "recommendation",
	Name:      "upstream_errors_total",
	Help:      "External recommendation service failures by kind.",
}, []string{"kind"})

// Upstream error kinds.
const (
	KindUnavailable = "unavailable"
	KindMalformed   = "malformed"
)
