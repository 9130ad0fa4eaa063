package engine

import (
	"context"

	"github.com/crewops/automation-engine/pkg/metrics"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/service"
	"github.com/sirupsen/logrus"
)

// ThresholdMonitor pulls business metrics from the metrics provider
// and runs threshold-triggered rules when a value crosses its bound.
// The host process invokes CheckThresholds periodically.
type ThresholdMonitor struct {
	registry *rule.Registry
	executor *Executor
	provider service.MetricsProvider
}

// NewThresholdMonitor creates a monitor over the given registry,
// executor and metrics provider.
func NewThresholdMonitor(registry *rule.Registry, executor *Executor, provider service.MetricsProvider) *ThresholdMonitor {
	return &ThresholdMonitor{
		registry: registry,
		executor: executor,
		provider: provider,
	}
}

// CheckThresholds evaluates every active threshold-triggered rule
// once. A rule fires on each call for which its metric still crosses
// the bound. A failed metric fetch is isolated to its rule; the
// remaining rules are still checked.
func (m *ThresholdMonitor) CheckThresholds(ctx context.Context) {
	for _, r := range m.registry.ListByTrigger(rule.TriggerThreshold) {
		trigger := r.Trigger

		value, err := m.provider.MetricValue(ctx, trigger.MetricName, trigger.Period)
		if err != nil {
			logrus.Errorf("failed to fetch metric %s for rule %s: %v", trigger.MetricName, r.ID, err)
			continue
		}

		crossed := crossesBound(trigger.Operator, value, trigger.Bound)
		metrics.ThresholdChecksTotal.WithLabelValues(trigger.MetricName, boolLabel(crossed)).Inc()

		if !crossed {
			continue
		}

		logrus.Infof("metric %s=%v crossed bound %v (%s), firing rule %s",
			trigger.MetricName, value, trigger.Bound, trigger.Operator, r.ID)

		runCtx := rule.Context{
			"metric": map[string]interface{}{
				"name":   trigger.MetricName,
				"value":  value,
				"bound":  trigger.Bound,
				"period": trigger.Period,
			},
		}
		m.executor.ExecuteRule(ctx, r, runCtx)
	}
}

// crossesBound applies the condition evaluator's comparison semantics
// to the metric value. An unknown operator never crosses.
func crossesBound(operator string, value, bound float64) bool {
	switch operator {
	case rule.OpGreaterThan:
		return value > bound
	case rule.OpLessThan:
		return value < bound
	default:
		return false
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
