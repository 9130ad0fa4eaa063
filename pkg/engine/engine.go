// Package engine wires the rule registry, condition evaluator, action
// dispatcher, scheduler, event bus and threshold monitor into one
// automation engine instance. Engines are explicitly constructed and
// hold no global state, so tests can run several independently.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/schedule"
	"github.com/crewops/automation-engine/pkg/service"
)

// Options configures a new engine.
type Options struct {
	// Handlers is the action handler registry. Required.
	Handlers *action.Registry

	// Metrics is the provider for threshold-triggered rules. May be
	// nil when no threshold rules are used; CheckThresholds is then a
	// no-op.
	Metrics service.MetricsProvider

	// TickInterval is the scheduler resolution. Zero means the
	// default of one minute.
	TickInterval time.Duration

	// ActionTimeout bounds each action handler invocation. Zero means
	// the dispatcher default.
	ActionTimeout time.Duration

	// Recorder receives execution outcomes. Nil disables recording.
	Recorder Recorder
}

// Engine is the automation engine facade exposed to the host process.
type Engine struct {
	registry  *rule.Registry
	executor  *Executor
	scheduler *schedule.Scheduler
	bus       *EventBus
	monitor   *ThresholdMonitor
}

// New creates an engine from the given options.
func New(opts Options) (*Engine, error) {
	if opts.Handlers == nil {
		return nil, fmt.Errorf("engine requires an action handler registry")
	}

	registry := rule.NewRegistry()
	dispatcher := action.NewDispatcher(opts.Handlers, opts.ActionTimeout)
	executor := NewExecutor(dispatcher, opts.Recorder)

	e := &Engine{
		registry:  registry,
		executor:  executor,
		scheduler: schedule.NewScheduler(registry, executor, opts.TickInterval),
		bus:       NewEventBus(registry, executor),
	}

	if opts.Metrics != nil {
		e.monitor = NewThresholdMonitor(registry, executor, opts.Metrics)
	}

	return e, nil
}

// AddRule registers a rule, replacing any prior definition with the
// same id.
func (e *Engine) AddRule(r *rule.Rule) error {
	return e.registry.Upsert(r)
}

// RemoveRule deletes a rule by id. Returns true if a rule existed.
func (e *Engine) RemoveRule(ruleID string) bool {
	return e.registry.Remove(ruleID)
}

// ListRules returns a snapshot of the registered rules.
func (e *Engine) ListRules() []*rule.Rule {
	return e.registry.List()
}

// SetRuleActive toggles a rule's active flag.
func (e *Engine) SetRuleActive(ruleID string, active bool) bool {
	return e.registry.SetActive(ruleID, active)
}

// ExecuteRule runs a registered rule by id against the given context.
// Returns an error only when no rule with that id exists; a rule that
// declines to run (inactive, conditions, action failure) returns false.
func (e *Engine) ExecuteRule(ctx context.Context, ruleID string, runCtx rule.Context) (bool, error) {
	r := e.registry.Get(ruleID)
	if r == nil {
		return false, fmt.Errorf("rule %s not found", ruleID)
	}

	return e.executor.ExecuteRule(ctx, r, runCtx), nil
}

// TriggerEvent dispatches a domain event to the event-triggered rules
// subscribed to it.
func (e *Engine) TriggerEvent(ctx context.Context, eventName string, payload rule.Context) {
	e.bus.Trigger(ctx, eventName, payload)
}

// CheckThresholds evaluates all threshold-triggered rules once.
func (e *Engine) CheckThresholds(ctx context.Context) {
	if e.monitor == nil {
		return
	}

	e.monitor.CheckThresholds(ctx)
}

// Start launches the scheduler tick loop.
func (e *Engine) Start(ctx context.Context) {
	e.scheduler.Start(ctx)
}

// Stop halts the scheduler, waiting for an in-flight tick to finish.
func (e *Engine) Stop() {
	e.scheduler.Stop()
}

// Scheduler returns the engine's scheduler, mainly so hosts and tests
// can drive ticks deterministically.
func (e *Engine) Scheduler() *schedule.Scheduler {
	return e.scheduler
}

// Registry returns the engine's rule registry.
func (e *Engine) Registry() *rule.Registry {
	return e.registry
}
