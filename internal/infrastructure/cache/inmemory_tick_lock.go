package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erp/amazon-sync/internal/domain/shared"
)

// lockEntry represents a held lock with its fencing token and expiration
type lockEntry struct {
	token     string
	expiresAt time.Time
}

// InMemoryTickLock implements TickLock using an in-memory map. Suitable for
// single-instance deployments and testing; it cannot coordinate across
// processes.
type InMemoryTickLock struct {
	mu      sync.Mutex
	entries map[string]lockEntry
}

// NewInMemoryTickLock creates a new in-memory tick lock
func NewInMemoryTickLock() *InMemoryTickLock {
	return &InMemoryTickLock{
		entries: make(map[string]lockEntry),
	}
}

// Acquire attempts to take the lock. Returns a fencing token and true if the
// lock was newly acquired, false if an unexpired holder owns it.
func (l *InMemoryTickLock) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.entries[key] = lockEntry{token: token, expiresAt: time.Now().Add(ttl)}
	return token, true, nil
}

// Release deletes the lock entry if the token still identifies the current
// holder. A stale token means the lock expired and was re-acquired; the new
// holder's entry is left alone.
func (l *InMemoryTickLock) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.entries[key]; exists && e.token == token {
		delete(l.entries, key)
	}
	return nil
}

// Close is a no-op for the in-memory implementation
func (l *InMemoryTickLock) Close() error {
	return nil
}

var _ shared.TickLock = (*InMemoryTickLock)(nil)
