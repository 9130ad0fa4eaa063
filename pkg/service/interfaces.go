package service

import (
	"context"
	"time"
)

// Collaborator interfaces for the external systems the engine's
// actions call out to. The engine treats all of them as opaque.
//
// You may not need to have interface and go with direct struct usage,
// but having interfaces allows easier mocking for unit tests.

// Storage provides CRUD access to jobs, shifts and workers. It is
// assumed eventually consistent; there is no transactional guarantee
// across multiple calls within one action.
type Storage interface {
	GetJob(ctx context.Context, jobID string) (*Job, error)
	UpdateJob(ctx context.Context, job *Job) error

	// UpdateJobField sets a single field on a stored job without
	// touching the rest of the record.
	UpdateJobField(ctx context.Context, jobID, field string, value interface{}) error

	CreateShift(ctx context.Context, shift *Shift) error

	// ShiftsStartingWithin returns shifts whose start time falls in
	// [from, from+window).
	ShiftsStartingWithin(ctx context.Context, from time.Time, window time.Duration) ([]*Shift, error)

	// AvailableWorkers returns the current candidate pool.
	AvailableWorkers(ctx context.Context) ([]*Worker, error)
}

// CandidateMatcher ranks a worker pool against a job. The engine only
// consumes the top entry.
type CandidateMatcher interface {
	Match(ctx context.Context, job *Job, pool []*Worker) ([]Candidate, error)
}

// Notifier enqueues a notification for delivery. Fire-and-forget from
// the engine's perspective.
type Notifier interface {
	Create(ctx context.Context, notification *Notification) error
}

// Mailer forwards a template name and recipient list to an external
// mail system without blocking on delivery confirmation.
type Mailer interface {
	Send(ctx context.Context, template string, recipients []string) error
}

// MetricsProvider exposes the business metrics consumed by
// threshold-triggered rules.
type MetricsProvider interface {
	MetricValue(ctx context.Context, name, period string) (float64, error)
}
