package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chime-sh/chime/pkg/adapters/redis"
	"github.com/chime-sh/chime/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	ports.RunRunStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	err := store.Record(ctx, ports.RunRecord{Task: "ttl-task", Status: ports.RunOK, Start: time.Now()})
	require.NoError(t, err)

	runs, err := store.History(ctx, "ttl-task", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	// miniredis expires keys on demand after the clock advances
	mr.FastForward(2 * time.Second)

	runs, err = store.History(ctx, "ttl-task", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisStore_TrimsToCap(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithMaxPerTask(2))
	ctx := context.Background()

	base := time.Date(2024, 3, 31, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		err := store.Record(ctx, ports.RunRecord{
			Task:   "trimmed",
			Status: ports.RunOK,
			Start:  base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	runs, err := store.History(ctx, "trimmed", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].Start.Equal(base.Add(3*time.Second)))
	assert.True(t, runs[1].Start.Equal(base.Add(2*time.Second)))
}
