package action

import (
	"context"
	"testing"

	"github.com/crewops/automation-engine/pkg/rule"
)

// mockHandler is a simple handler implementation for testing
type mockHandler struct {
	actionType string
	err        error
	calls      int
}

func (m *mockHandler) Type() string {
	return m.actionType
}

func (m *mockHandler) Execute(ctx context.Context, cfg Config, runCtx rule.Context) error {
	m.calls++
	return m.err
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	if registry == nil {
		t.Fatal("Expected non-nil registry")
	}

	if registry.Count() != 0 {
		t.Errorf("Expected empty registry, got count %d", registry.Count())
	}
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()
	handler := &mockHandler{actionType: "test_action"}

	if err := registry.Register(handler); err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}

	if registry.Count() != 1 {
		t.Errorf("Expected count 1, got %d", registry.Count())
	}

	// Try to register the same type again
	if err := registry.Register(&mockHandler{actionType: "test_action"}); err == nil {
		t.Error("Expected error when registering duplicate handler type")
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockHandler{actionType: "test_action"})

	if registry.Get("test_action") == nil {
		t.Fatal("Expected to retrieve handler")
	}

	if registry.Get("non_existent") != nil {
		t.Error("Expected nil for unregistered type")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockHandler{actionType: "test_action"})

	if err := registry.Unregister("test_action"); err != nil {
		t.Fatalf("Failed to unregister handler: %v", err)
	}

	if registry.Count() != 0 {
		t.Errorf("Expected count 0, got %d", registry.Count())
	}

	if err := registry.Unregister("test_action"); err == nil {
		t.Error("Expected error when unregistering missing handler")
	}
}

func TestConfig_Getters(t *testing.T) {
	cfg := Config{
		"name":       "reminder",
		"count":      3,
		"countFloat": 4.0,
		"rate":       1.5,
		"enabled":    true,
		"recipients": []interface{}{"a@example.com", "b@example.com"},
	}

	if got := cfg.GetString("name", "x"); got != "reminder" {
		t.Errorf("GetString = %q", got)
	}
	if got := cfg.GetString("missing", "fallback"); got != "fallback" {
		t.Errorf("GetString default = %q", got)
	}
	if got := cfg.GetInt("count", 0); got != 3 {
		t.Errorf("GetInt = %d", got)
	}
	// JSON decodes whole numbers as float64
	if got := cfg.GetInt("countFloat", 0); got != 4 {
		t.Errorf("GetInt from float64 = %d", got)
	}
	if got := cfg.GetFloat("rate", 0); got != 1.5 {
		t.Errorf("GetFloat = %v", got)
	}
	if got := cfg.GetBool("enabled", false); !got {
		t.Error("GetBool = false")
	}
	if got := cfg.GetStringSlice("recipients", nil); len(got) != 2 || got[0] != "a@example.com" {
		t.Errorf("GetStringSlice = %v", got)
	}
	if got := cfg.GetStringSlice("missing", []string{"d"}); len(got) != 1 {
		t.Errorf("GetStringSlice default = %v", got)
	}
}
