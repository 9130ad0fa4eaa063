package builtin

import (
	"context"
	"fmt"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/service"
	"github.com/sirupsen/logrus"
)

// UpdateStatus writes a single field on a target job. No conditional
// logic; the field and value come straight from the action config.
type UpdateStatus struct {
	storage service.Storage
}

func NewUpdateStatus(storage service.Storage) *UpdateStatus {
	return &UpdateStatus{storage: storage}
}

func (a *UpdateStatus) Type() string {
	return TypeUpdateStatus
}

func (a *UpdateStatus) Execute(ctx context.Context, cfg action.Config, runCtx rule.Context) error {
	jobID := cfg.GetString("job_id", "")
	if jobID == "" {
		if id, ok := jobIDFromContext(runCtx); ok {
			jobID = id
		}
	}
	if jobID == "" {
		return fmt.Errorf("%w: no target job", action.ErrMissingContext)
	}

	field := cfg.GetString("field", "status")

	value, ok := cfg["value"]
	if !ok {
		return fmt.Errorf("%w: update_status requires a value", action.ErrInvalidConfig)
	}

	if err := a.storage.UpdateJobField(ctx, jobID, field, value); err != nil {
		return fmt.Errorf("failed to update job %s: %w", jobID, err)
	}

	logrus.Infof("updated job %s: %s=%v", jobID, field, value)
	return nil
}
