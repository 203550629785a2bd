// Package ports defines the interfaces between the scheduler core and its
// adapters, plus reusable contract tests for implementations.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the binary outcome of a task run.
type RunStatus string

const (
	RunOK     RunStatus = "ok"
	RunFailed RunStatus = "failed"
)

// RunRecord captures one completed task run.
type RunRecord struct {
	TaskID   uuid.UUID     `json:"task_id"`
	Task     string        `json:"task"`
	Status   RunStatus     `json:"status"`
	Error    string        `json:"error,omitempty"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
}

// RunStore persists run history. Implementations must be safe for concurrent
// use; the scheduler records from multiple task loops.
type RunStore interface {
	// Record appends a run to the task's history.
	Record(ctx context.Context, rec RunRecord) error

	// History returns the most recent runs for a task, newest first.
	// A task with no history yields an empty slice, not an error.
	History(ctx context.Context, task string, limit int) ([]RunRecord, error)

	// Close releases underlying resources.
	Close() error
}
