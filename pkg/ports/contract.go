package ports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract verifies that a RunStore implementation adheres to the
// interface contract. Adapter test suites call this with a fresh store.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	task := "contract-task-" + time.Now().Format("20060102150405")

	rec := func(status RunStatus, start time.Time) RunRecord {
		return RunRecord{
			TaskID:   uuid.New(),
			Task:     task,
			Status:   status,
			Start:    start,
			Duration: 25 * time.Millisecond,
		}
	}

	t.Run("Record and History", func(t *testing.T) {
		base := time.Date(2024, 3, 31, 14, 0, 0, 0, time.UTC)
		require.NoError(t, store.Record(ctx, rec(RunOK, base)))
		require.NoError(t, store.Record(ctx, rec(RunFailed, base.Add(time.Minute))))

		runs, err := store.History(ctx, task, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)

		// newest first
		assert.Equal(t, RunFailed, runs[0].Status)
		assert.Equal(t, RunOK, runs[1].Status)
		assert.Equal(t, task, runs[0].Task)
		assert.True(t, runs[0].Start.After(runs[1].Start))
	})

	t.Run("History respects limit", func(t *testing.T) {
		runs, err := store.History(ctx, task, 1)
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("Unknown task yields empty history", func(t *testing.T) {
		runs, err := store.History(ctx, "never-registered", 10)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}
