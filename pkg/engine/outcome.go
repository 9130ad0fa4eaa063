package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ExecutionOutcome is the observable result of one rule run whose
// conditions passed. Outcomes are not stored long-term; the recorder
// exists for telemetry and tests.
type ExecutionOutcome struct {
	ExecutionID        uuid.UUID
	RuleID             string
	StartedAt          time.Time
	Success            bool
	FailingActionIndex *int
}

// Recorder receives execution outcomes.
type Recorder interface {
	Record(outcome ExecutionOutcome)
}

// DefaultRecorderCapacity bounds the in-memory outcome ring.
const DefaultRecorderCapacity = 128

// MemoryRecorder keeps the most recent outcomes in a bounded ring.
type MemoryRecorder struct {
	mu       sync.Mutex
	outcomes []ExecutionOutcome
	capacity int
}

// NewMemoryRecorder creates a recorder holding up to capacity
// outcomes. A capacity of zero falls back to DefaultRecorderCapacity.
func NewMemoryRecorder(capacity int) *MemoryRecorder {
	if capacity <= 0 {
		capacity = DefaultRecorderCapacity
	}

	return &MemoryRecorder{capacity: capacity}
}

// Record appends an outcome, evicting the oldest entry when full.
func (r *MemoryRecorder) Record(outcome ExecutionOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes = append(r.outcomes, outcome)
	if len(r.outcomes) > r.capacity {
		r.outcomes = r.outcomes[len(r.outcomes)-r.capacity:]
	}
}

// Outcomes returns a snapshot of the recorded outcomes, oldest first.
func (r *MemoryRecorder) Outcomes() []ExecutionOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]ExecutionOutcome, len(r.outcomes))
	copy(snapshot, r.outcomes)
	return snapshot
}
