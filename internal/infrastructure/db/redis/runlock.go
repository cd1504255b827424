package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLock provides best-effort run locks backed by Redis SETNX.
// Key format: runlock:<name>
//
// The TTL bounds how long a crashed run can block the next one. Callers fail
// open when Redis itself errors; the persistent store's constraints remain
// the authoritative guard.
type RunLock struct {
	client *redis.Client
}

// NewRunLock creates a RunLock wrapping the given Redis client.
func NewRunLock(client *redis.Client) *RunLock {
	return &RunLock{client: client}
}

// TryLock acquires the named lock for at most ttl. Returns false when another
// holder has it.
func (l *RunLock) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(name), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("run lock: %w", err)
	}
	return ok, nil
}

// Unlock releases the named lock.
func (l *RunLock) Unlock(ctx context.Context, name string) error {
	return l.client.Del(ctx, l.key(name)).Err()
}

func (l *RunLock) key(name string) string {
	return "runlock:" + name
}

// NopLock always grants the lock. Used when Redis is not configured and in
// tests.
type NopLock struct{}

func (NopLock) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (NopLock) Unlock(context.Context, string) error                         { return nil }
