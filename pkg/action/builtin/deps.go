// Package builtin contains the built-in action handlers shipped with
// the engine. Each handler wraps one collaborator-facing side effect;
// custom handlers can be registered alongside them without modifying
// the dispatcher.
package builtin

import (
	"fmt"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/service"
)

// Built-in action types.
const (
	TypeAssignWorker     = "assign_worker"
	TypeSendNotification = "send_notification"
	TypeCreateShift      = "create_shift"
	TypeUpdateStatus     = "update_status"
	TypeSendEmail        = "send_email"
)

// Dependencies bundles the collaborators the built-in handlers need.
type Dependencies struct {
	Storage  service.Storage
	Matcher  service.CandidateMatcher
	Notifier service.Notifier
	Mailer   service.Mailer
}

// Register registers all built-in handlers with the given registry.
func Register(registry *action.Registry, deps *Dependencies) error {
	handlers := []action.Handler{
		NewAssignWorker(deps.Storage, deps.Matcher),
		NewSendNotification(deps.Storage, deps.Notifier),
		NewCreateShift(deps.Storage),
		NewUpdateStatus(deps.Storage),
		NewSendEmail(deps.Mailer),
	}

	for _, h := range handlers {
		if err := registry.Register(h); err != nil {
			return fmt.Errorf("failed to register built-in handler %s: %w", h.Type(), err)
		}
	}

	return nil
}

// jobIDFromContext extracts the triggering job's id from a run
// context shaped like {"job": {"id": ...}}.
func jobIDFromContext(runCtx rule.Context) (string, bool) {
	jobNode, ok := runCtx["job"]
	if !ok {
		return "", false
	}

	jobMap, ok := jobNode.(map[string]interface{})
	if !ok {
		return "", false
	}

	id, ok := jobMap["id"].(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
