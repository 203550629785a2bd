package chime

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chime-sh/chime/pkg/ports"
	"github.com/chime-sh/chime/trigger"
)

// TaskEvent describes a task run that is about to start.
type TaskEvent struct {
	ID      uuid.UUID    `json:"id"`
	Task    string       `json:"task"`
	Trigger trigger.Kind `json:"trigger"`
	Start   time.Time    `json:"start"`
}

// RunHooks defines callbacks for scheduler observability. Nil callbacks are
// skipped. Hooks run synchronously inside the task loop; keep them cheap.
type RunHooks struct {
	OnTaskStart  func(context.Context, TaskEvent)
	OnTaskFinish func(context.Context, ports.RunRecord)
}
