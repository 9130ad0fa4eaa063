package engine

import (
	"context"
	"time"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/common"
	"github.com/crewops/automation-engine/pkg/condition"
	"github.com/crewops/automation-engine/pkg/metrics"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Executor orchestrates a single rule run: condition evaluation,
// in-order action dispatch, outcome recording and the LastRun update.
type Executor struct {
	dispatcher *action.Dispatcher
	recorder   Recorder

	// clock is swappable for tests.
	clock func() time.Time
}

// NewExecutor creates a rule executor. A nil recorder disables outcome
// recording.
func NewExecutor(dispatcher *action.Dispatcher, recorder Recorder) *Executor {
	return &Executor{
		dispatcher: dispatcher,
		recorder:   recorder,
		clock:      time.Now,
	}
}

// ExecuteRule runs one rule against the given context and reports
// whether the run completed fully. Actions execute strictly in
// declaration order; the first failing action stops the run and leaves
// LastRun unchanged, so a failed scheduled rule stays eligible to
// retry on the next matching tick.
func (e *Executor) ExecuteRule(ctx context.Context, r *rule.Rule, runCtx rule.Context) bool {
	if !r.Active {
		logrus.Debugf("rule %s is inactive, skipping", r.ID)
		metrics.RuleExecutionsTotal.WithLabelValues(r.ID, metrics.ResultInactive).Inc()
		return false
	}

	if !condition.Evaluate(runCtx, r.Conditions) {
		logrus.Debugf("rule %s conditions not met", r.ID)
		metrics.RuleExecutionsTotal.WithLabelValues(r.ID, metrics.ResultConditionReject).Inc()
		return false
	}

	scope := common.NewScope(ctx, "rule/"+r.ID)
	defer scope.Finish()
	scope.TraceTag("rule.id", r.ID)

	startedAt := e.clock()

	scope.Log.Infof("executing rule %s (%d actions)", r.ID, len(r.Actions))

	for i, act := range r.Actions {
		if err := e.dispatcher.Dispatch(scope.Ctx, act, runCtx); err != nil {
			scope.TraceError(err)
			scope.Log.Errorf("rule %s action %d (%s) failed: %v", r.ID, i, act.Type, err)
			metrics.RuleExecutionsTotal.WithLabelValues(r.ID, metrics.ResultActionFailure).Inc()
			metrics.ActionFailuresTotal.WithLabelValues(r.ID, act.Type).Inc()

			failed := i
			e.record(ExecutionOutcome{
				ExecutionID:        uuid.New(),
				RuleID:             r.ID,
				StartedAt:          startedAt,
				Success:            false,
				FailingActionIndex: &failed,
			})
			return false
		}
	}

	r.MarkRun(e.clock())
	metrics.RuleExecutionsTotal.WithLabelValues(r.ID, metrics.ResultSuccess).Inc()

	e.record(ExecutionOutcome{
		ExecutionID: uuid.New(),
		RuleID:      r.ID,
		StartedAt:   startedAt,
		Success:     true,
	})

	scope.Log.Infof("rule %s completed successfully", r.ID)
	return true
}

func (e *Executor) record(outcome ExecutionOutcome) {
	if e.recorder != nil {
		e.recorder.Record(outcome)
	}
}
