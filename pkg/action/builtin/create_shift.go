package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultShiftCount is how many future shifts are projected.
	DefaultShiftCount = 2
	// ShiftDuration is the fixed length of a projected shift.
	ShiftDuration = 8 * time.Hour
	// shiftCadence is the spacing between projected shifts.
	shiftCadence = 7 * 24 * time.Hour
)

// CreateShift projects future shift instances for a recurring job at a
// fixed weekly cadence. Jobs that are not recurring are skipped.
type CreateShift struct {
	storage service.Storage

	now func() time.Time
}

func NewCreateShift(storage service.Storage) *CreateShift {
	return &CreateShift{
		storage: storage,
		now:     time.Now,
	}
}

func (a *CreateShift) Type() string {
	return TypeCreateShift
}

func (a *CreateShift) Execute(ctx context.Context, cfg action.Config, runCtx rule.Context) error {
	jobID, ok := jobIDFromContext(runCtx)
	if !ok {
		jobID = cfg.GetString("job_id", "")
	}
	if jobID == "" {
		return fmt.Errorf("%w: no job in context", action.ErrMissingContext)
	}

	job, err := a.storage.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	if !job.Recurring {
		logrus.Infof("job %s is not recurring, skipping shift projection", jobID)
		return nil
	}

	count := cfg.GetInt("count", DefaultShiftCount)
	first := a.now().Add(shiftCadence)

	for i := 0; i < count; i++ {
		start := first.Add(time.Duration(i) * shiftCadence)
		shift := &service.Shift{
			ID:       uuid.NewString(),
			JobID:    jobID,
			StartsAt: start,
			EndsAt:   start.Add(ShiftDuration),
			Status:   "scheduled",
		}

		if err := a.storage.CreateShift(ctx, shift); err != nil {
			return fmt.Errorf("failed to create shift %d of %d: %w", i+1, count, err)
		}
	}

	logrus.Infof("projected %d shifts for job %s", count, jobID)
	return nil
}
