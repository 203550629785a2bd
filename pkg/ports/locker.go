package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates task execution across scheduler replicas.
// Wrapping a task with chime.Exclusive makes the fire a no-op on every
// instance that fails to acquire the lock.
type DistributedLocker interface {
	// TryLock attempts to acquire the lock for the given key without
	// blocking. Ok is false when another holder owns the lock.
	// The returned UnlockFunc MUST be called when ok is true.
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock UnlockFunc, ok bool, err error)
}
