package chime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chime-sh/chime"
	"github.com/chime-sh/chime/pkg/ports"
)

type fakeLocker struct {
	held     bool
	err      error
	unlocked int
}

func (l *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (ports.UnlockFunc, bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func(context.Context) error {
		l.held = false
		l.unlocked++
		return nil
	}, true, nil
}

func TestExclusive_RunsAndReleases(t *testing.T) {
	locker := &fakeLocker{}

	var runs int
	fn := chime.Exclusive(locker, "nightly", time.Minute, func(ctx context.Context) error {
		runs++
		return nil
	})

	require.NoError(t, fn(context.Background()))
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, locker.unlocked)
	assert.False(t, locker.held)
}

func TestExclusive_SkipsWhenContended(t *testing.T) {
	locker := &fakeLocker{held: true}

	var runs int
	fn := chime.Exclusive(locker, "nightly", time.Minute, func(ctx context.Context) error {
		runs++
		return nil
	})

	require.NoError(t, fn(context.Background()))
	assert.Zero(t, runs)
}

func TestExclusive_PropagatesLockerError(t *testing.T) {
	lockErr := errors.New("redis unavailable")
	fn := chime.Exclusive(&fakeLocker{err: lockErr}, "nightly", time.Minute, noop)
	assert.ErrorIs(t, fn(context.Background()), lockErr)
}
