package service

import "time"

// Job statuses used by the built-in actions.
const (
	JobStatusOpen     = "open"
	JobStatusActive   = "active"
	JobStatusAssigned = "assigned"
	JobStatusClosed   = "closed"
)

// Job is a posting that workers can be assigned to.
type Job struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	Location         string    `json:"location"`
	Recurring        bool      `json:"recurring"`
	HourlyRate       float64   `json:"hourlyRate"`
	AssignedWorkerID string    `json:"assignedWorkerId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Shift is one scheduled block of work for a job.
type Shift struct {
	ID       string    `json:"id"`
	JobID    string    `json:"jobId"`
	WorkerID string    `json:"workerId,omitempty"` // empty when unassigned
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Status   string    `json:"status"`
}

// Worker is a member of the candidate pool.
type Worker struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Skills    []string `json:"skills,omitempty"`
	Rating    float64  `json:"rating"`
	Available bool     `json:"available"`
}

// Candidate is one ranked entry returned by the candidate matcher.
type Candidate struct {
	WorkerID  string  `json:"workerId"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Notification is the payload handed to the notifier for delivery.
type Notification struct {
	UserID  string                 `json:"userId"`
	Type    string                 `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
