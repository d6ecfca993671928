package interfaces

import "time"

// SchedulerService manages the cron-based daily trigger
type SchedulerService interface {
	// Start registers the daily job and starts the cron loop
	Start() error

	// Stop halts the scheduler, waiting for an in-flight run to finish
	Stop() error

	// TriggerNow runs the daily job immediately. Returns false when a run
	// is already in flight (triggers are serialized, never queued).
	TriggerNow() bool

	// NextRun returns the next scheduled fire time, zero when stopped
	NextRun() time.Time

	// IsRunning returns true while the scheduler is active
	IsRunning() bool
}
