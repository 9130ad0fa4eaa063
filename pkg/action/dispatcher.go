package action

import (
	"context"
	"fmt"
	"time"

	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single handler invocation.
const DefaultTimeout = 30 * time.Second

// Dispatcher routes a declared action to its registered handler.
// An unrecognized action type is a logged no-op rather than an error,
// so unknown or future action types never abort a rule run.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
}

// NewDispatcher creates a dispatcher over the given handler registry.
// A timeout of zero falls back to DefaultTimeout.
func NewDispatcher(registry *Registry, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Dispatcher{
		registry: registry,
		timeout:  timeout,
	}
}

// Dispatch looks up the handler for the action's type and invokes it
// with the run context. Each invocation is bounded by the dispatcher
// timeout; a timeout counts as an action failure.
func (d *Dispatcher) Dispatch(ctx context.Context, act rule.Action, runCtx rule.Context) error {
	handler := d.registry.Get(act.Type)
	if handler == nil {
		logrus.Warnf("no handler registered for action type %q, skipping", act.Type)
		return nil
	}

	execCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("action %s panicked: %v", act.Type, r)
			}
		}()
		done <- handler.Execute(execCtx, Config(act.Config), runCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("action %s: %w", act.Type, err)
		}
		return nil
	case <-execCtx.Done():
		// The handler goroutine keeps running until it observes the
		// canceled context; the rule run stops waiting for it here.
		return fmt.Errorf("action %s: %w", act.Type, execCtx.Err())
	}
}

// GetRegistry returns the handler registry used by this dispatcher.
func (d *Dispatcher) GetRegistry() *Registry {
	return d.registry
}
