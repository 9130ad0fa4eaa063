package builtin

import (
	"context"
	"fmt"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/service"
	"github.com/sirupsen/logrus"
)

// AssignWorker matches the triggering job against the available worker
// pool and writes the top candidate back as the job's assignment.
// An empty candidate list is a no-op, not a failure.
type AssignWorker struct {
	storage service.Storage
	matcher service.CandidateMatcher
}

func NewAssignWorker(storage service.Storage, matcher service.CandidateMatcher) *AssignWorker {
	return &AssignWorker{
		storage: storage,
		matcher: matcher,
	}
}

func (a *AssignWorker) Type() string {
	return TypeAssignWorker
}

func (a *AssignWorker) Execute(ctx context.Context, cfg action.Config, runCtx rule.Context) error {
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

	pool, err := a.storage.AvailableWorkers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load worker pool: %w", err)
	}

	candidates, err := a.matcher.Match(ctx, job, pool)
	if err != nil {
		return fmt.Errorf("candidate matching failed: %w", err)
	}

	if len(candidates) == 0 {
		logrus.Infof("no candidates for job %s, skipping assignment", jobID)
		return nil
	}

	top := candidates[0]
	job.AssignedWorkerID = top.WorkerID
	job.Status = service.JobStatusAssigned

	if err := a.storage.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to write assignment: %w", err)
	}

	logrus.Infof("assigned worker %s to job %s (score: %.2f)", top.WorkerID, jobID, top.Score)
	return nil
}
