package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/service"
	"github.com/sirupsen/logrus"
)

// DefaultReminderLookahead is how far ahead the shift-reminder sweep
// looks for upcoming shifts.
const DefaultReminderLookahead = 24 * time.Hour

// SendNotification sweeps shifts starting within the lookahead window
// and asks the notifier to create a reminder for each assigned worker.
// Failure isolation here is per shift: one failed reminder is logged
// and the sweep continues with the remaining shifts.
type SendNotification struct {
	storage  service.Storage
	notifier service.Notifier

	// now is swappable for tests.
	now func() time.Time
}

func NewSendNotification(storage service.Storage, notifier service.Notifier) *SendNotification {
	return &SendNotification{
		storage:  storage,
		notifier: notifier,
		now:      time.Now,
	}
}

func (a *SendNotification) Type() string {
	return TypeSendNotification
}

func (a *SendNotification) Execute(ctx context.Context, cfg action.Config, runCtx rule.Context) error {
	lookahead := time.Duration(cfg.GetInt("lookahead_hours", 24)) * time.Hour
	now := a.now()

	shifts, err := a.storage.ShiftsStartingWithin(ctx, now, lookahead)
	if err != nil {
		return fmt.Errorf("failed to list upcoming shifts: %w", err)
	}

	sent := 0
	for _, shift := range shifts {
		if shift.WorkerID == "" {
			continue
		}

		notification := &service.Notification{
			UserID:  shift.WorkerID,
			Type:    "shift_reminder",
			Title:   "Upcoming shift",
			Message: fmt.Sprintf("You have a shift starting at %s", shift.StartsAt.Format(time.RFC3339)),
			Data: map[string]interface{}{
				"shiftId": shift.ID,
				"jobId":   shift.JobID,
			},
		}

		if err := a.notifier.Create(ctx, notification); err != nil {
			logrus.Errorf("failed to create reminder for shift %s (worker %s): %v",
				shift.ID, shift.WorkerID, err)
			continue
		}

		sent++
	}

	logrus.Infof("sent %d shift reminders (%d upcoming shifts)", sent, len(shifts))
	return nil
}
