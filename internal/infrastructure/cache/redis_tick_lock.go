package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/erp/amazon-sync/internal/domain/shared"
)

// releaseScript deletes the lock key only while the caller's token is still
// stored there. Without the comparison, a holder that ran past its TTL could
// delete a lock another instance has since acquired.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisTickLock implements TickLock using Redis. This is the right choice for
// distributed deployments where multiple instances could start a sync pass at
// the same time.
type RedisTickLock struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisTickLock creates a new Redis-backed tick lock
func NewRedisTickLock(cfg RedisConfig) (*RedisTickLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTickLock{
		client:    client,
		keyPrefix: "sync:lock:",
	}, nil
}

// NewRedisTickLockWithClient creates a lock with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisTickLockWithClient(client *redis.Client, keyPrefix string) *RedisTickLock {
	if keyPrefix == "" {
		keyPrefix = "sync:lock:"
	}
	return &RedisTickLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire attempts to take the lock with SETNX, storing a fresh fencing
// token as the value. The TTL guarantees a crashed holder cannot block
// passes forever.
func (l *RedisTickLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	acquired, err := l.client.SetNX(ctx, l.keyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire tick lock: %w", err)
	}
	if !acquired {
		return "", false, nil
	}
	return token, true, nil
}

// Release deletes the lock key if the token still matches the stored value
func (l *RedisTickLock) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.keyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release tick lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisTickLock) Close() error {
	return l.client.Close()
}

var _ shared.TickLock = (*RedisTickLock)(nil)
