package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid trigger configuration")

	// ErrTriggerNotRunning is returned when triggering a stopped scheduler
	ErrTriggerNotRunning = errors.New("sync trigger is not running")

	// ErrSyncInProgress is returned when a pass is already holding the lock
	ErrSyncInProgress = errors.New("sync pass already in progress")
)
