package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/erp/amazon-sync/internal/application/ordersync"
	"github.com/erp/amazon-sync/internal/domain/shared"
)

// lockKey identifies the sync pass in the tick lock store
const lockKey = "order-sync"

// SyncRunner executes one order sync pass
type SyncRunner interface {
	Run(ctx context.Context, opts ordersync.SyncOptions) (*ordersync.Summary, error)
}

// SyncTriggerConfig holds configuration for the sync trigger
type SyncTriggerConfig struct {
	// Enabled indicates whether scheduled passes run at all
	Enabled bool
	// Interval is the time between scheduled passes
	Interval time.Duration
	// LockTTL bounds how long a crashed pass can hold the tick lock
	LockTTL time.Duration
	// RunLog is the number of pass summaries kept in memory
	RunLog int
}

// DefaultSyncTriggerConfig returns default configuration: one pass per hour
func DefaultSyncTriggerConfig() SyncTriggerConfig {
	return SyncTriggerConfig{
		Enabled:  true,
		Interval: time.Hour,
		LockTTL:  30 * time.Minute,
		RunLog:   50,
	}
}

// Validate validates the configuration
func (c *SyncTriggerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.LockTTL <= 0 {
		return ErrInvalidConfig
	}
	if c.RunLog <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SyncTrigger fires the order sync pass on a fixed interval. Each pass takes
// the tick lock first, so a slow pass is never overlapped by the next tick or
// by a concurrent manual trigger.
type SyncTrigger struct {
	config SyncTriggerConfig
	runner SyncRunner
	lock   shared.TickLock
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// Pass history for monitoring (in-memory, limited size)
	historyMu sync.RWMutex
	history   []*ordersync.Summary
}

// NewSyncTrigger creates a new sync trigger
func NewSyncTrigger(config SyncTriggerConfig, runner SyncRunner, lock shared.TickLock, logger *zap.Logger) (*SyncTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SyncTrigger{
		config:  config,
		runner:  runner,
		lock:    lock,
		logger:  logger,
		history: make([]*ordersync.Summary, 0, config.RunLog),
	}, nil
}

// Start starts the scheduled ticker. The first pass runs immediately.
func (t *SyncTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	if !t.config.Enabled {
		t.logger.Info("Scheduled sync passes disabled, manual triggers only")
		return nil
	}

	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Sync trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.Duration("lock_ttl", t.config.LockTTL),
	)

	return nil
}

// Stop gracefully stops the trigger
func (t *SyncTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sync trigger stopped gracefully")
		return nil
	case <-ctx.Done():
		t.logger.Warn("Sync trigger stop timed out")
		return ctx.Err()
	}
}

// TriggerNow runs a pass immediately with the given window overrides. It
// takes the same tick lock as a scheduled pass and returns ErrSyncInProgress
// when one is already running.
func (t *SyncTrigger) TriggerNow(ctx context.Context, opts ordersync.SyncOptions) (*ordersync.Summary, error) {
	t.mu.Lock()
	running := t.isRunning
	t.mu.Unlock()
	if !running {
		return nil, ErrTriggerNotRunning
	}

	return t.runPass(ctx, opts)
}

// loop fires passes on the configured interval until the context is done
func (t *SyncTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	// First pass right away instead of waiting a full interval
	t.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// tick runs one scheduled pass, swallowing per-pass errors so the loop
// survives until Stop.
func (t *SyncTrigger) tick(ctx context.Context) {
	if _, err := t.runPass(ctx, ordersync.SyncOptions{}); err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			t.logger.Warn("Previous sync pass still running, skipping tick")
			return
		}
		t.logger.Error("Scheduled sync pass failed", zap.Error(err))
	}
}

// runPass takes the tick lock, runs the pass and records the summary. The
// pass is bounded by the lock TTL so it cannot outlive its own lock.
func (t *SyncTrigger) runPass(ctx context.Context, opts ordersync.SyncOptions) (*ordersync.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, t.config.LockTTL)
	defer cancel()

	token, acquired, err := t.lock.Acquire(ctx, lockKey, t.config.LockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSyncInProgress
	}
	defer func() {
		if err := t.lock.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
			t.logger.Warn("Failed to release tick lock", zap.Error(err))
		}
	}()

	summary, err := t.runner.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	t.addToHistory(summary)
	return summary, nil
}

// addToHistory records a completed pass, newest first
func (t *SyncTrigger) addToHistory(summary *ordersync.Summary) {
	t.historyMu.Lock()
	defer t.historyMu.Unlock()

	t.history = append([]*ordersync.Summary{summary}, t.history...)
	if len(t.history) > t.config.RunLog {
		t.history = t.history[:t.config.RunLog]
	}
}

// History returns recent pass summaries, newest first
func (t *SyncTrigger) History(limit int) []*ordersync.Summary {
	t.historyMu.RLock()
	defer t.historyMu.RUnlock()

	if limit <= 0 || limit > len(t.history) {
		limit = len(t.history)
	}

	result := make([]*ordersync.Summary, limit)
	copy(result, t.history[:limit])
	return result
}
