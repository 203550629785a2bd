// Package api exposes the scheduler's introspection surface: task metadata
// and immediate manual runs. HTTP frontends and CLI tools build on it.
//
// State lives in memory on the App instance; anything read here reflects the
// current process only and does not survive restarts.
package api

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/chime-sh/chime"
	"github.com/chime-sh/chime/trigger"
)

// ErrTaskNotFound is returned when a task ID is not registered on the App.
var ErrTaskNotFound = errors.New("task not found")

// TaskMetadata describes a registered task.
type TaskMetadata struct {
	// ID is unique per task and changes every process run.
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Trigger trigger.Kind `json:"trigger"`
}

// Metadata returns metadata for every task on the App, lifecycle tasks
// included, in registration order.
func Metadata(app *chime.App) []TaskMetadata {
	tasks := app.Tasks()
	meta := make([]TaskMetadata, 0, len(tasks))
	for _, t := range tasks {
		meta = append(meta, TaskMetadata{
			ID:      t.ID,
			Name:    t.Name,
			Trigger: t.Trigger.Kind(),
		})
	}
	return meta
}

// RunTask runs one task immediately by ID, bypassing its trigger. The run
// still goes through hooks and run recording.
func RunTask(ctx context.Context, app *chime.App, id uuid.UUID) error {
	for _, t := range app.Tasks() {
		if t.ID == id {
			return app.RunTask(ctx, t)
		}
	}
	return ErrTaskNotFound
}
