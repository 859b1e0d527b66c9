package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lingobridge:job:"

// RedisStore keeps job records as JSON values so status survives a restart.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) key(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Create(ctx context.Context, job *Job) error {
	now := time.Now().UTC()
	cp := job.clone()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	return s.write(ctx, cp)
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Job, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get job %s: %w", id, err)
	}

	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, false, fmt.Errorf("redis decode job %s: %w", id, err)
	}
	return &job, true, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Job)) (*Job, error) {
	job, ok, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	fn(job)
	job.UpdatedAt = time.Now().UTC()
	if err := s.write(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *RedisStore) write(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("redis encode job %s: %w", job.ID, err)
	}
	if err := s.rdb.Set(ctx, s.key(job.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set job %s: %w", job.ID, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
