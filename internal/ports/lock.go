package ports

import (
	"context"
	"time"

	"movecli/internal/domain"
)

// Guard is a held resource lock
type Guard interface {
	// Release unlocks the resource. Calling it more than once is a no-op.
	Release() error
}

// ResourceLocker provides cross-process mutual exclusion per resource key
type ResourceLocker interface {
	// Acquire blocks until the lock for key is held, timeout elapses
	// (domain.ErrLockTimeout), or ctx is done.
	Acquire(ctx context.Context, key domain.ResourceKey, timeout time.Duration) (Guard, error)
}
