package shared

import (
	"context"
	"time"
)

// TickLock guards a scheduled pass against overlapping executions. A holder
// acquires the lock before running and releases it afterwards; the TTL bounds
// how long a crashed holder can block the next pass.
type TickLock interface {
	// Acquire attempts to take the lock. On success it returns a fencing
	// token identifying this acquisition; ok is false when another holder
	// currently owns the lock.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)

	// Release gives the lock back so the next pass can run immediately.
	// The token must match the current holder's; a stale token (the lock
	// expired and was re-acquired) leaves the new holder's lock intact.
	Release(ctx context.Context, key, token string) error

	// Close releases any resources held by the lock implementation
	Close() error
}
