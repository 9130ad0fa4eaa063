// Package metrics defines the engine's Prometheus metrics. They are
// registered by the metrics server and incremented where the
// corresponding event happens.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Rule execution result labels.
const (
	ResultSuccess         = "success"
	ResultInactive        = "inactive"
	ResultConditionReject = "condition_reject"
	ResultActionFailure   = "action_failure"
)

var (
	// RuleExecutionsTotal counts rule executions by outcome.
	RuleExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_rule_executions_total",
			Help: "Total number of rule executions by result",
		},
		[]string{"rule_id", "result"},
	)

	// ActionFailuresTotal counts failed action dispatches.
	ActionFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_action_failures_total",
			Help: "Total number of failed action executions",
		},
		[]string{"rule_id", "action_type"},
	)

	// EventsDispatchedTotal counts event-bus dispatches by event name.
	EventsDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_events_dispatched_total",
			Help: "Total number of domain events dispatched to rules",
		},
		[]string{"event"},
	)

	// ThresholdChecksTotal counts threshold evaluations by crossing.
	ThresholdChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_threshold_checks_total",
			Help: "Total number of threshold checks by metric and crossing result",
		},
		[]string{"metric", "crossed"},
	)

	// SchedulerTicksSkippedTotal counts ticks dropped by the
	// re-entrancy guard.
	SchedulerTicksSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "automation_scheduler_ticks_skipped_total",
			Help: "Total number of scheduler ticks skipped because the previous tick was still running",
		},
	)
)

// Register registers all engine metrics with the given registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		RuleExecutionsTotal,
		ActionFailuresTotal,
		EventsDispatchedTotal,
		ThresholdChecksTotal,
		SchedulerTicksSkippedTotal,
	)
}
