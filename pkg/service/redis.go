package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Redis key layout.
const (
	jobKeyPrefix   = "workforce:job:"
	shiftKeyPrefix = "workforce:shift:"
	shiftIndexKey  = "workforce:shifts"
	workerIndexKey = "workforce:workers"
)

// RedisStorage implements Storage on top of Redis with JSON-encoded
// values. Shifts and workers are additionally tracked in index sets so
// they can be scanned without KEYS.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates a Redis-backed storage collaborator.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func jobKey(jobID string) string {
	return jobKeyPrefix + jobID
}

func shiftKey(shiftID string) string {
	return shiftKeyPrefix + shiftID
}

// GetJob retrieves a job by id.
func (s *RedisStorage) GetJob(ctx context.Context, jobID string) (*Job, error) {
	data, err := s.client.Get(ctx, jobKey(jobID)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", jobID, err)
	}

	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", jobID, err)
	}

	return &job, nil
}

// UpdateJob writes a full job record.
func (s *RedisStorage) UpdateJob(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}

	if err := s.client.Set(ctx, jobKey(job.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set job %s: %w", job.ID, err)
	}

	logrus.Debugf("updated job %s", job.ID)
	return nil
}

// UpdateJobField sets a single field on a stored job. The record is
// read and rewritten as a generic map so callers can touch fields the
// Job struct does not model.
func (s *RedisStorage) UpdateJobField(ctx context.Context, jobID, field string, value interface{}) error {
	data, err := s.client.Get(ctx, jobKey(jobID)).Result()
	if err == redis.Nil {
		return fmt.Errorf("job %s not found", jobID)
	}
	if err != nil {
		return fmt.Errorf("failed to get job %s: %w", jobID, err)
	}

	var record map[string]interface{}
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return fmt.Errorf("failed to unmarshal job %s: %w", jobID, err)
	}

	record[field] = value

	updated, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", jobID, err)
	}

	if err := s.client.Set(ctx, jobKey(jobID), updated, 0).Err(); err != nil {
		return fmt.Errorf("failed to set job %s: %w", jobID, err)
	}

	logrus.Debugf("updated job %s field %s", jobID, field)
	return nil
}

// CreateJob writes a new job record. Used by the host process to seed
// storage; actions only read and update jobs.
func (s *RedisStorage) CreateJob(ctx context.Context, job *Job) error {
	return s.UpdateJob(ctx, job)
}

// CreateShift writes a shift record and adds it to the shift index.
func (s *RedisStorage) CreateShift(ctx context.Context, shift *Shift) error {
	data, err := json.Marshal(shift)
	if err != nil {
		return fmt.Errorf("failed to marshal shift %s: %w", shift.ID, err)
	}

	if err := s.client.Set(ctx, shiftKey(shift.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set shift %s: %w", shift.ID, err)
	}

	if err := s.client.SAdd(ctx, shiftIndexKey, shift.ID).Err(); err != nil {
		return fmt.Errorf("failed to index shift %s: %w", shift.ID, err)
	}

	logrus.Debugf("created shift %s for job %s", shift.ID, shift.JobID)
	return nil
}

// ShiftsStartingWithin returns shifts starting in [from, from+window).
func (s *RedisStorage) ShiftsStartingWithin(ctx context.Context, from time.Time, window time.Duration) ([]*Shift, error) {
	ids, err := s.client.SMembers(ctx, shiftIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list shift index: %w", err)
	}

	until := from.Add(window)

	var shifts []*Shift
	for _, id := range ids {
		data, err := s.client.Get(ctx, shiftKey(id)).Result()
		if err == redis.Nil {
			// Index entry outlived the record; skip it.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get shift %s: %w", id, err)
		}

		var shift Shift
		if err := json.Unmarshal([]byte(data), &shift); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shift %s: %w", id, err)
		}

		if !shift.StartsAt.Before(from) && shift.StartsAt.Before(until) {
			shifts = append(shifts, &shift)
		}
	}

	return shifts, nil
}

// AvailableWorkers returns all workers flagged as available.
func (s *RedisStorage) AvailableWorkers(ctx context.Context) ([]*Worker, error) {
	ids, err := s.client.SMembers(ctx, workerIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list worker index: %w", err)
	}

	var workers []*Worker
	for _, id := range ids {
		data, err := s.client.Get(ctx, workerKey(id)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get worker %s: %w", id, err)
		}

		var worker Worker
		if err := json.Unmarshal([]byte(data), &worker); err != nil {
			return nil, fmt.Errorf("failed to unmarshal worker %s: %w", id, err)
		}

		if worker.Available {
			workers = append(workers, &worker)
		}
	}

	return workers, nil
}

// CreateWorker writes a worker record and adds it to the worker index.
// Like CreateJob this is host-side seeding, not an action surface.
func (s *RedisStorage) CreateWorker(ctx context.Context, worker *Worker) error {
	data, err := json.Marshal(worker)
	if err != nil {
		return fmt.Errorf("failed to marshal worker %s: %w", worker.ID, err)
	}

	if err := s.client.Set(ctx, workerKey(worker.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set worker %s: %w", worker.ID, err)
	}

	if err := s.client.SAdd(ctx, workerIndexKey, worker.ID).Err(); err != nil {
		return fmt.Errorf("failed to index worker %s: %w", worker.ID, err)
	}

	return nil
}

func workerKey(workerID string) string {
	return "workforce:worker:" + workerID
}
