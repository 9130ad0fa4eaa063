package rule

import (
	"fmt"
	"sync"
)

// Registry manages rule definitions keyed by id.
// It provides thread-safe upsert, removal and snapshot listing.
type Registry struct {
	rules map[string]*Rule
	mu    sync.RWMutex
}

// NewRegistry creates a new empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]*Rule),
	}
}

// Upsert adds a rule to the registry, replacing any prior definition
// with the same id entirely. The only validation performed here is a
// non-empty id; invalid triggers or actions surface at execution time.
func (r *Registry) Upsert(rule *Rule) error {
	if rule == nil || rule.ID == "" {
		return fmt.Errorf("rule id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules[rule.ID] = rule
	return nil
}

// Remove deletes a rule by id. Returns true if a rule existed.
// Runs already in flight for the removed rule are allowed to finish.
func (r *Registry) Remove(ruleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[ruleID]; !exists {
		return false
	}

	delete(r.rules, ruleID)
	return true
}

// Get returns a rule by id.
// Returns nil if the rule doesn't exist.
func (r *Registry) Get(ruleID string) *Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rules[ruleID]
}

// List returns a snapshot of all registered rules. Callers iterate the
// snapshot safely even if a handler mutates the registry mid-pass.
func (r *Registry) List() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]*Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}

	return rules
}

// ListByTrigger returns a snapshot of all active rules whose trigger
// type matches triggerType. Inactive rules are never selected.
func (r *Registry) ListByTrigger(triggerType string) []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matching []*Rule
	for _, rule := range r.rules {
		if !rule.Active {
			continue
		}
		if rule.Trigger.Type == triggerType {
			matching = append(matching, rule)
		}
	}

	return matching
}

// SetActive toggles a rule's active flag. Returns false if the rule
// doesn't exist.
func (r *Registry) SetActive(ruleID string, active bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, exists := r.rules[ruleID]
	if !exists {
		return false
	}

	rule.Active = active
	return true
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}
