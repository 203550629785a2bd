package chime

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chime-sh/chime/trigger"
)

// TaskFunc is the unit of work a task runs on each fire.
type TaskFunc func(ctx context.Context) error

// Task binds a function to a trigger. Tasks are created through App.Task or
// Group.Task, never directly; the ID is assigned at registration and changes
// between process runs.
type Task struct {
	ID      uuid.UUID
	Name    string
	Trigger trigger.Trigger

	fn TaskFunc
}

// validatable is implemented by triggers with registration-time checks.
type validatable interface {
	Validate() error
}

func newTask(name string, trig trigger.Trigger, fn TaskFunc) (*Task, error) {
	if name == "" {
		return nil, fmt.Errorf("task name is required")
	}
	if trig == nil {
		return nil, fmt.Errorf("task %q: trigger is required", name)
	}
	if fn == nil {
		return nil, fmt.Errorf("task %q: func is required", name)
	}
	if v, ok := trig.(validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("task %q: %w", name, err)
		}
	}
	return &Task{
		ID:      uuid.New(),
		Name:    name,
		Trigger: trig,
		fn:      fn,
	}, nil
}
