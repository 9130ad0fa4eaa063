package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
)

// countingHandler records every invocation and can be told to fail.
type countingHandler struct {
	actionType string
	err        error

	mu    sync.Mutex
	calls int
}

func (h *countingHandler) Type() string {
	return h.actionType
}

func (h *countingHandler) Execute(ctx context.Context, cfg action.Config, runCtx rule.Context) error {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return h.err
}

func (h *countingHandler) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func newTestExecutor(t *testing.T, recorder Recorder, handlers ...action.Handler) *Executor {
	t.Helper()

	registry := action.NewRegistry()
	for _, h := range handlers {
		if err := registry.Register(h); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	return NewExecutor(action.NewDispatcher(registry, 0), recorder)
}

func TestExecuteRule_Success(t *testing.T) {
	first := &countingHandler{actionType: "first"}
	second := &countingHandler{actionType: "second"}
	recorder := NewMemoryRecorder(0)

	executor := newTestExecutor(t, recorder, first, second)

	r := rule.New("r-1", "two actions", rule.Trigger{Type: rule.TriggerEvent, EventName: "job_created"}).
		WithActions(rule.Action{Type: "first"}, rule.Action{Type: "second"})

	if !executor.ExecuteRule(context.Background(), r, rule.Context{}) {
		t.Fatal("Expected successful run")
	}

	if first.callCount() != 1 || second.callCount() != 1 {
		t.Errorf("Expected each action invoked once, got %d and %d", first.callCount(), second.callCount())
	}
	if r.LastRun().IsZero() {
		t.Error("Expected LastRun set after a fully successful run")
	}

	outcomes := recorder.Outcomes()
	if len(outcomes) != 1 {
		t.Fatalf("Expected 1 outcome, got %d", len(outcomes))
	}
	if !outcomes[0].Success || outcomes[0].RuleID != "r-1" || outcomes[0].FailingActionIndex != nil {
		t.Errorf("Unexpected outcome: %+v", outcomes[0])
	}
}

func TestExecuteRule_InactiveRule(t *testing.T) {
	handler := &countingHandler{actionType: "noop"}
	executor := newTestExecutor(t, nil, handler)

	r := rule.New("r-1", "inactive", rule.Trigger{Type: rule.TriggerEvent, EventName: "job_created"}).
		WithActions(rule.Action{Type: "noop"})
	r.Active = false

	if executor.ExecuteRule(context.Background(), r, rule.Context{}) {
		t.Error("Expected inactive rule not to run")
	}
	if handler.callCount() != 0 {
		t.Error("Expected no action dispatch for an inactive rule")
	}
}

func TestExecuteRule_ConditionsNotMet(t *testing.T) {
	handler := &countingHandler{actionType: "noop"}
	recorder := NewMemoryRecorder(0)
	executor := newTestExecutor(t, recorder, handler)

	r := rule.New("r-1", "guarded", rule.Trigger{Type: rule.TriggerEvent, EventName: "job_created"}).
		WithConditions(rule.Condition{Field: "job.priority", Operator: rule.OpEquals, Value: "high"}).
		WithActions(rule.Action{Type: "noop"})

	runCtx := rule.Context{"job": map[string]interface{}{"priority": "low"}}

	if executor.ExecuteRule(context.Background(), r, runCtx) {
		t.Error("Expected run rejected by conditions")
	}
	if handler.callCount() != 0 {
		t.Error("Expected no action dispatch when conditions fail")
	}
	// Condition rejections are not execution outcomes
	if len(recorder.Outcomes()) != 0 {
		t.Errorf("Expected no outcome recorded, got %d", len(recorder.Outcomes()))
	}
}

func TestExecuteRule_StopsAtFirstFailure(t *testing.T) {
	first := &countingHandler{actionType: "first"}
	second := &countingHandler{actionType: "second", err: errors.New("downstream unavailable")}
	third := &countingHandler{actionType: "third"}
	recorder := NewMemoryRecorder(0)

	executor := newTestExecutor(t, recorder, first, second, third)

	r := rule.New("r-1", "three actions", rule.Trigger{Type: rule.TriggerEvent, EventName: "job_created"}).
		WithActions(rule.Action{Type: "first"}, rule.Action{Type: "second"}, rule.Action{Type: "third"})

	if executor.ExecuteRule(context.Background(), r, rule.Context{}) {
		t.Fatal("Expected failed run")
	}

	// The first action's effect stands, the failing one stops the run
	if first.callCount() != 1 {
		t.Errorf("Expected first action to have run, got %d calls", first.callCount())
	}
	if third.callCount() != 0 {
		t.Errorf("Expected third action never dispatched, got %d calls", third.callCount())
	}
	if !r.LastRun().IsZero() {
		t.Error("Expected LastRun unchanged after a failed run")
	}

	outcomes := recorder.Outcomes()
	if len(outcomes) != 1 {
		t.Fatalf("Expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Success {
		t.Error("Expected failure outcome")
	}
	if outcomes[0].FailingActionIndex == nil || *outcomes[0].FailingActionIndex != 1 {
		t.Errorf("Expected failing action index 1, got %v", outcomes[0].FailingActionIndex)
	}
}

func TestExecuteRule_UnknownActionTypeIsNoOp(t *testing.T) {
	executor := newTestExecutor(t, nil)

	r := rule.New("r-1", "ghost action", rule.Trigger{Type: rule.TriggerEvent, EventName: "job_created"}).
		WithActions(rule.Action{Type: "teleport_worker"})

	// An unregistered action type is skipped, not failed
	if !executor.ExecuteRule(context.Background(), r, rule.Context{}) {
		t.Error("Expected run to succeed past an unknown action type")
	}
}

func TestMemoryRecorder_Eviction(t *testing.T) {
	recorder := NewMemoryRecorder(3)

	for _, id := range []string{"a", "b", "c", "d"} {
		recorder.Record(ExecutionOutcome{RuleID: id, Success: true})
	}

	outcomes := recorder.Outcomes()
	if len(outcomes) != 3 {
		t.Fatalf("Expected capacity 3, got %d outcomes", len(outcomes))
	}
	if outcomes[0].RuleID != "b" || outcomes[2].RuleID != "d" {
		t.Errorf("Expected oldest outcome evicted, got %v..%v", outcomes[0].RuleID, outcomes[2].RuleID)
	}
}
