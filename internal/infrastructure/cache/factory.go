package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/amazon-sync/internal/domain/shared"
	"github.com/erp/amazon-sync/internal/infrastructure/config"
)

// TickLockFactory creates tick locks based on configuration
type TickLockFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// TickLockFactoryOption is a functional option for configuring the factory
type TickLockFactoryOption func(*TickLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) TickLockFactoryOption {
	return func(f *TickLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory lock
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) TickLockFactoryOption {
	return func(f *TickLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewTickLockFactory creates a new factory
func NewTickLockFactory(cfg config.RedisConfig, opts ...TickLockFactoryOption) *TickLockFactory {
	f := &TickLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateLock creates a tick lock, preferring Redis and falling back to the
// in-memory lock when Redis is unavailable and fallback is allowed. An
// in-memory lock cannot prevent overlapping passes across instances.
func (f *TickLockFactory) CreateLock() (shared.TickLock, error) {
	lock, err := NewRedisTickLock(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis tick lock")
		return lock, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for tick lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory tick lock. "+
		"Overlapping sync passes are only prevented within this instance.",
		zap.Error(err),
	)
	return NewInMemoryTickLock(), nil
}
