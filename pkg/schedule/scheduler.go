package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crewops/automation-engine/pkg/metrics"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/sirupsen/logrus"
)

// DefaultTickInterval is the scheduler's polling resolution. Patterns
// match at minute granularity, so a 60s tick visits every minute; a
// process restart that misses the matching minute skips that period's
// firing entirely.
const DefaultTickInterval = 60 * time.Second

// Runner executes a single rule against a run context. Satisfied by
// the engine executor.
type Runner interface {
	ExecuteRule(ctx context.Context, r *rule.Rule, runCtx rule.Context) bool
}

// Scheduler fires schedule-triggered rules on a fixed-interval tick.
// Ticks never overlap: if a previous tick's rule evaluations are still
// running when the next tick arrives, the new tick is skipped.
type Scheduler struct {
	registry *rule.Registry
	runner   Runner
	interval time.Duration

	// clock is swappable for tests.
	clock func() time.Time

	ticking atomic.Bool

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool

	// warned tracks rule ids whose pattern failed to parse so the
	// warning is logged once, not every tick.
	warnedMu sync.Mutex
	warned   map[string]bool

	// SkippedTicks counts ticks dropped by the re-entrancy guard.
	SkippedTicks atomic.Int64
}

// NewScheduler creates a scheduler over the given registry and runner.
// An interval of zero falls back to DefaultTickInterval.
func NewScheduler(registry *rule.Registry, runner Runner, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	return &Scheduler{
		registry: registry,
		runner:   runner,
		interval: interval,
		clock:    time.Now,
		warned:   make(map[string]bool),
	}
}

// Start launches the repeating tick loop. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.started = true

	go s.loop(ctx, s.stop, s.done)
	logrus.Infof("scheduler started (tick interval: %v)", s.interval)
}

// Stop halts the tick loop and waits for an in-flight tick to finish.
// Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}

	close(s.stop)
	done := s.done
	s.started = false
	s.mu.Unlock()

	<-done
	logrus.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx, s.clock())
		}
	}
}

// Tick runs one scheduler pass as of the given instant. It snapshots
// the active schedule-triggered rules and fires each one whose pattern
// matches the instant and which has not already fired this period.
// Exported so hosts and tests can drive ticks deterministically.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	if !s.ticking.CompareAndSwap(false, true) {
		s.SkippedTicks.Add(1)
		metrics.SchedulerTicksSkippedTotal.Inc()
		logrus.Warn("previous scheduler tick still running, skipping this tick")
		return
	}
	defer s.ticking.Store(false)

	for _, r := range s.registry.ListByTrigger(rule.TriggerSchedule) {
		s.runOne(ctx, r, now)
	}
}

// runOne evaluates and fires a single rule. Any panic escaping the
// rule's execution is contained here so one broken rule cannot abort
// the remaining rules in the tick nor kill the ticker.
func (s *Scheduler) runOne(ctx context.Context, r *rule.Rule, now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("rule %s panicked during scheduled run: %v", r.ID, rec)
		}
	}()

	pattern, err := ParsePattern(r.Trigger.Pattern)
	if err != nil {
		s.warnOnce(r.ID, err)
		return
	}

	if !pattern.Matches(now) {
		return
	}

	if pattern.FiredInPeriod(r.LastRun(), now) {
		logrus.Debugf("rule %s already fired this period, skipping", r.ID)
		return
	}

	logrus.Infof("scheduled rule %s matched pattern %q", r.ID, r.Trigger.Pattern)

	runCtx := rule.Context{
		"trigger": "schedule",
		"time":    now.Format(time.RFC3339),
	}
	s.runner.ExecuteRule(ctx, r, runCtx)
}

// warnOnce logs an unparseable pattern the first time it is seen.
// The rule then never fires, matching the lenient handling of unknown
// action types and condition operators.
func (s *Scheduler) warnOnce(ruleID string, err error) {
	s.warnedMu.Lock()
	defer s.warnedMu.Unlock()

	if s.warned[ruleID] {
		return
	}

	s.warned[ruleID] = true
	logrus.Warnf("rule %s has an unrecognized schedule pattern and will never fire: %v", ruleID, err)
}
