package chime

import (
	"context"
	"time"

	"github.com/chime-sh/chime/pkg/ports"
)

// Exclusive wraps a task function with a distributed lock so only one
// scheduler replica runs it per fire. Instances that lose the race skip the
// run without error.
func Exclusive(locker ports.DistributedLocker, key string, ttl time.Duration, fn TaskFunc) TaskFunc {
	return func(ctx context.Context) error {
		unlock, ok, err := locker.TryLock(ctx, key, ttl)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		defer func() {
			_ = unlock(context.WithoutCancel(ctx))
		}()
		return fn(ctx)
	}
}
