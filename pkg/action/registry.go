package action

import (
	"fmt"
	"sync"
)

// Registry manages available action handlers.
// It provides thread-safe registration and lookup by action type, so
// new action types can be added without touching the dispatcher.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

// NewRegistry creates a new empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler to the registry.
// Returns an error if a handler for the same type already exists.
func (r *Registry) Register(handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[handler.Type()]; exists {
		return fmt.Errorf("action handler %s already registered", handler.Type())
	}

	r.handlers[handler.Type()] = handler
	return nil
}

// Unregister removes a handler from the registry.
// Returns an error if the handler doesn't exist.
func (r *Registry) Unregister(actionType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[actionType]; !exists {
		return fmt.Errorf("action handler %s not found", actionType)
	}

	delete(r.handlers, actionType)
	return nil
}

// Get returns a handler by action type.
// Returns nil if no handler is registered for the type.
func (r *Registry) Get(actionType string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.handlers[actionType]
}

// Types returns all registered action types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}

	return types
}

// Count returns the number of registered handlers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers)
}
