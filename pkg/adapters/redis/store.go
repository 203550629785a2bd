// Package redis persists task run history in Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/chime-sh/chime/pkg/ports"
)

// DefaultMaxPerTask caps how many runs are retained per task list.
const DefaultMaxPerTask = 100

// Store implements ports.RunStore using Redis. Each task keeps its history
// in a list, newest first.
type Store struct {
	client  *backend.Client
	prefix  string
	ttl     time.Duration
	maxRuns int
}

type Option func(*Store)

// WithTTL sets the expiration for a task's history list. The clock resets
// on every recorded run.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for history lists.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithMaxPerTask overrides the per-task retention cap.
func WithMaxPerTask(n int) Option {
	return func(s *Store) {
		s.maxRuns = n
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:  client,
		prefix:  "chime:runs:",
		ttl:     0, // no expiration by default
		maxRuns: DefaultMaxPerTask,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(task string) string {
	return s.prefix + task
}

// Record pushes the run onto the task's history list and trims it to the
// retention cap.
func (s *Store) Record(ctx context.Context, rec ports.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	key := s.key(rec.Task)
	pipe := s.client.Pipeline()

	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.maxRuns)-1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record run to redis: %w", err)
	}
	return nil
}

// History returns the most recent runs for a task, newest first.
func (s *Store) History(ctx context.Context, task string, limit int) ([]ports.RunRecord, error) {
	vals, err := s.client.LRange(ctx, s.key(task), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history from redis: %w", err)
	}

	runs := make([]ports.RunRecord, 0, len(vals))
	for _, val := range vals {
		var rec ports.RunRecord
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
		}
		runs = append(runs, rec)
	}
	return runs, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
