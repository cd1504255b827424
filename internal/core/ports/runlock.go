package ports

import (
	"context"
	"time"
)

// RunLocker guards scheduled runs against fast-overlapping triggers. Locks are
// best effort: implementations may fail open when the lock store is down,
// since the store's uniqueness constraint and the emailed flag remain the
// authoritative safety nets.
type RunLocker interface {
	// TryLock acquires the named lock for at most ttl. It returns false when
	// another run currently holds it.
	TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name string) error
}
