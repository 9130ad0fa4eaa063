package engine

import (
	"context"

	"github.com/crewops/automation-engine/pkg/metrics"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/sirupsen/logrus"
)

// EventBus fans a domain event out to the rules subscribed to it.
// Dispatch is synchronous and sequential; the event payload becomes
// the run context for each matching rule.
type EventBus struct {
	registry *rule.Registry
	executor *Executor
}

// NewEventBus creates an event bus over the given registry and executor.
func NewEventBus(registry *rule.Registry, executor *Executor) *EventBus {
	return &EventBus{
		registry: registry,
		executor: executor,
	}
}

// Trigger runs every active event-triggered rule whose event name
// exactly equals eventName. There is no wildcard matching. Iteration
// is over a registry snapshot, so a handler that mutates the registry
// mid-pass cannot invalidate it.
func (b *EventBus) Trigger(ctx context.Context, eventName string, payload rule.Context) {
	metrics.EventsDispatchedTotal.WithLabelValues(eventName).Inc()

	matched := 0
	for _, r := range b.registry.ListByTrigger(rule.TriggerEvent) {
		if r.Trigger.EventName != eventName {
			continue
		}

		matched++
		b.executor.ExecuteRule(ctx, r, payload)
	}

	logrus.Debugf("event %q dispatched to %d rules", eventName, matched)
}
