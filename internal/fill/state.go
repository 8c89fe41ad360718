package fill

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// JobStore keeps fill job state in Redis so status survives across API
// instances while a batch runs.
type JobStore struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewJobStore creates a job store backed by Redis.
func NewJobStore(redis *redis.Client, logger zerolog.Logger) *JobStore {
	return &JobStore{
		redis:  redis,
		logger: logger,
	}
}

// LockJob acquires a distributed lock for the duration of a batch. The
// caller sizes the TTL from its worst-case run time; a lock that expires
// mid-batch would let a second runner double-submit.
func (s *JobStore) LockJob(ctx context.Context, jobID uuid.UUID, ttl time.Duration) (func() error, error) {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	key := fmt.Sprintf("fill:lock:%s", jobID.String())
	lockValue := uuid.New().String()

	acquired, err := s.redis.SetNX(ctx, key, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("lock already held")
	}

	unlock := func() error {
		// Lua script ensures we only delete our own lock
		script := `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			else
				return 0
			end
		`
		return s.redis.Eval(ctx, script, []string{key}, lockValue).Err()
	}

	return unlock, nil
}

// StoreJob saves the job's current state.
func (s *JobStore) StoreJob(ctx context.Context, job *Job) error {
	key := fmt.Sprintf("fill:job:%s", job.ID.String())
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	// TTL covers the longest plausible batch plus time to poll results
	ttl := 2 * time.Hour
	return s.redis.Set(ctx, key, data, ttl).Err()
}

// GetJob retrieves a job's state, or nil when unknown or expired.
func (s *JobStore) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	key := fmt.Sprintf("fill:job:%s", jobID.String())
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}
