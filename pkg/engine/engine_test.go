package engine

import (
	"context"
	"testing"
	"time"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
)

func newTestEngine(t *testing.T, opts Options, handlers ...action.Handler) *Engine {
	t.Helper()

	registry := action.NewRegistry()
	for _, h := range handlers {
		if err := registry.Register(h); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	opts.Handlers = registry

	eng, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return eng
}

func TestNew_RequiresHandlers(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("Expected error without a handler registry")
	}
}

func TestEngine_RuleManagement(t *testing.T) {
	eng := newTestEngine(t, Options{})

	r := rule.New("r-1", "first", rule.Trigger{Type: rule.TriggerEvent, EventName: "job_created"})
	if err := eng.AddRule(r); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}

	if got := len(eng.ListRules()); got != 1 {
		t.Fatalf("Expected 1 rule, got %d", got)
	}

	if !eng.SetRuleActive("r-1", false) {
		t.Error("Expected SetRuleActive to find the rule")
	}
	if eng.Registry().Get("r-1").Active {
		t.Error("Expected rule deactivated")
	}

	if !eng.RemoveRule("r-1") {
		t.Error("Expected RemoveRule to find the rule")
	}
	if eng.RemoveRule("r-1") {
		t.Error("Expected second RemoveRule to report missing rule")
	}
}

func TestEngine_ExecuteRuleByID(t *testing.T) {
	handler := &countingHandler{actionType: "noop"}
	eng := newTestEngine(t, Options{}, handler)

	eng.AddRule(rule.New("r-1", "direct", rule.Trigger{Type: rule.TriggerEvent, EventName: "manual"}).
		WithActions(rule.Action{Type: "noop"}))

	ok, err := eng.ExecuteRule(context.Background(), "r-1", rule.Context{})
	if err != nil {
		t.Fatalf("ExecuteRule() error = %v", err)
	}
	if !ok {
		t.Error("Expected run to succeed")
	}

	if _, err := eng.ExecuteRule(context.Background(), "missing", rule.Context{}); err == nil {
		t.Error("Expected error for unknown rule id")
	}
}

func TestEngine_CheckThresholdsWithoutProvider(t *testing.T) {
	eng := newTestEngine(t, Options{})

	// No metrics provider configured: must be a silent no-op
	eng.CheckThresholds(context.Background())
}

// TestEngine_EndToEnd exercises the three trigger paths against one
// engine: an event rule guarded by conditions, a scheduled rule driven
// through deterministic ticks and a threshold rule over a stubbed
// metrics provider.
func TestEngine_EndToEnd(t *testing.T) {
	assign := &countingHandler{actionType: "assign_worker"}
	remind := &countingHandler{actionType: "send_notification"}
	alert := &countingHandler{actionType: "send_email"}

	provider := &stubProvider{values: map[string]float64{"worker_utilization": 40}}
	recorder := NewMemoryRecorder(0)

	eng := newTestEngine(t, Options{
		Metrics:      provider,
		TickInterval: time.Minute,
		Recorder:     recorder,
	}, assign, remind, alert)

	// Pin the executor clock to the simulated timeline so LastRun
	// stamps line up with the tick instants below.
	simNow := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	eng.executor.clock = func() time.Time { return simNow }

	eng.AddRule(rule.New("assign-urgent", "assign urgent jobs",
		rule.Trigger{Type: rule.TriggerEvent, EventName: "job_created"}).
		WithConditions(
			rule.Condition{Field: "job.priority", Operator: rule.OpEquals, Value: "high"},
			rule.Condition{Field: "job.status", Operator: rule.OpEquals, Value: "open"},
		).
		WithActions(rule.Action{Type: "assign_worker"}))

	eng.AddRule(rule.New("daily-reminders", "daily shift reminders",
		rule.Trigger{Type: rule.TriggerSchedule, Pattern: "daily_8am"}).
		WithActions(rule.Action{Type: "send_notification"}))

	eng.AddRule(rule.New("low-util", "low utilization alert",
		rule.Trigger{Type: rule.TriggerThreshold, MetricName: "worker_utilization", Operator: rule.OpLessThan, Bound: 50, Period: "7d"}).
		WithActions(rule.Action{Type: "send_email"}))

	// Event path: only the qualifying payload fires
	eng.TriggerEvent(context.Background(), "job_created", rule.Context{
		"job": map[string]interface{}{"priority": "high", "status": "open"},
	})
	eng.TriggerEvent(context.Background(), "job_created", rule.Context{
		"job": map[string]interface{}{"priority": "low", "status": "open"},
	})
	if assign.callCount() != 1 {
		t.Errorf("Expected 1 assignment, got %d", assign.callCount())
	}

	// Schedule path: two ticks in the same day fire once
	day1 := simNow
	eng.Scheduler().Tick(context.Background(), day1)
	eng.Scheduler().Tick(context.Background(), day1.Add(30*time.Second))
	if remind.callCount() != 1 {
		t.Errorf("Expected 1 reminder run on day one, got %d", remind.callCount())
	}
	simNow = day1.Add(24 * time.Hour)
	eng.Scheduler().Tick(context.Background(), simNow)
	if remind.callCount() != 2 {
		t.Errorf("Expected reminder run again next day, got %d", remind.callCount())
	}

	// Threshold path
	eng.CheckThresholds(context.Background())
	if alert.callCount() != 1 {
		t.Errorf("Expected 1 alert, got %d", alert.callCount())
	}

	// Every fired run above passed conditions, so each is recorded
	if got := len(recorder.Outcomes()); got != 4 {
		t.Errorf("Expected 4 recorded outcomes, got %d", got)
	}
}
