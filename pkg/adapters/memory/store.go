package memory

import (
	"context"
	"sync"

	"github.com/chime-sh/chime/pkg/ports"
)

// DefaultMaxPerTask caps how many runs are retained per task.
const DefaultMaxPerTask = 100

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	runs    map[string][]ports.RunRecord
	maxRuns int
}

// Option configures the store.
type Option func(*Store)

// WithMaxPerTask overrides the per-task retention cap.
func WithMaxPerTask(n int) Option {
	return func(s *Store) {
		s.maxRuns = n
	}
}

// NewStore creates a new in-memory run store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		runs:    make(map[string][]ports.RunRecord),
		maxRuns: DefaultMaxPerTask,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends a run, evicting the oldest once the cap is reached.
func (s *Store) Record(ctx context.Context, rec ports.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs := append(s.runs[rec.Task], rec)
	if len(runs) > s.maxRuns {
		runs = runs[len(runs)-s.maxRuns:]
	}
	s.runs[rec.Task] = runs
	return nil
}

// History returns the most recent runs, newest first.
func (s *Store) History(ctx context.Context, task string, limit int) ([]ports.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := s.runs[task]
	out := make([]ports.RunRecord, 0, limit)
	for i := len(runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, runs[i])
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
