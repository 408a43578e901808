package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a run lock.
type UnlockFunc func(ctx context.Context) error

// RunLocker guards a run ID so two runners never resume the same run at once.
type RunLocker interface {
	// Lock blocks until the lock for key is acquired or the context is canceled.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
