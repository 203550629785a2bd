package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chime-sh/chime/pkg/adapters/memory"
	"github.com/chime-sh/chime/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, memory.NewStore())
}

func TestMemoryStore_EvictsOldestBeyondCap(t *testing.T) {
	store := memory.NewStore(memory.WithMaxPerTask(3))
	ctx := context.Background()

	base := time.Date(2024, 3, 31, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.Record(ctx, ports.RunRecord{
			Task:   "capped",
			Status: ports.RunOK,
			Start:  base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	runs, err := store.History(ctx, "capped", 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// newest first; the two oldest runs were evicted
	assert.Equal(t, base.Add(4*time.Second), runs[0].Start)
	assert.Equal(t, base.Add(2*time.Second), runs[2].Start)
}
