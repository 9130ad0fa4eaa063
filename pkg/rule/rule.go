package rule

import (
	"sync"
	"time"
)

// Trigger type tags.
const (
	TriggerSchedule  = "schedule"
	TriggerEvent     = "event"
	TriggerThreshold = "threshold"
)

// Condition operators.
const (
	OpEquals      = "equals"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpContains    = "contains"
)

// Trigger is the stimulus that makes a rule eligible to run.
// Exactly one variant is populated, selected by Type. A trigger is
// immutable once the rule is registered; changing the trigger type
// means replacing the rule.
type Trigger struct {
	Type string `yaml:"type" json:"type"`

	// schedule variant
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// event variant
	EventName string `yaml:"event,omitempty" json:"eventName,omitempty"`

	// threshold variant
	MetricName string  `yaml:"metric,omitempty" json:"metricName,omitempty"`
	Bound      float64 `yaml:"bound,omitempty" json:"bound,omitempty"`
	Operator   string  `yaml:"operator,omitempty" json:"operator,omitempty"`
	Period     string  `yaml:"period,omitempty" json:"period,omitempty"`
}

// Condition is a single predicate over the run context. Conditions
// within a rule are AND-ed; an empty condition list always passes.
type Condition struct {
	Field    string      `yaml:"field" json:"field"`
	Operator string      `yaml:"operator" json:"operator"`
	Value    interface{} `yaml:"value" json:"value"`
}

// Action is one declarative side-effecting step. Type keys into the
// action handler registry; Config is opaque to the engine and is
// interpreted by the handler.
type Action struct {
	Type   string                 `yaml:"type" json:"type"`
	Config map[string]interface{} `yaml:"config,omitempty" json:"config,omitempty"`
}

// Context is the ephemeral key-value tree a single rule run evaluates
// conditions and actions against. It is never persisted.
type Context map[string]interface{}

// Rule bundles a trigger, conditions and actions under a unique id.
type Rule struct {
	ID         string
	Name       string
	Trigger    Trigger
	Conditions []Condition
	Actions    []Action
	Active     bool
	CreatedAt  time.Time

	// lastRun is written by the executor after a fully successful run
	// and read by the scheduler's double-fire guard. Scheduled ticks
	// and event dispatches may run concurrently, so access is
	// serialized per rule.
	mu      sync.Mutex
	lastRun time.Time
}

// New creates an active rule with the given id and name.
func New(id, name string, trigger Trigger) *Rule {
	return &Rule{
		ID:        id,
		Name:      name,
		Trigger:   trigger,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

// WithConditions sets the rule's conditions and returns it for chaining.
func (r *Rule) WithConditions(conditions ...Condition) *Rule {
	r.Conditions = conditions
	return r
}

// WithActions sets the rule's actions and returns it for chaining.
func (r *Rule) WithActions(actions ...Action) *Rule {
	r.Actions = actions
	return r
}

// LastRun returns the completion time of the rule's last fully
// successful run, or the zero time if it never completed one.
func (r *Rule) LastRun() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastRun
}

// MarkRun records a fully successful run. The timestamp only ever
// advances; a stale write from a slower concurrent run is dropped.
func (r *Rule) MarkRun(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.After(r.lastRun) {
		r.lastRun = now
	}
}
