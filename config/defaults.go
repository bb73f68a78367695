// Package config provides configuration defaults and utilities
// for the flight stack.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via settings.yaml.
package config

import "time"

// =============================================================================
// Control Loop Defaults
// =============================================================================

const (
	// DefaultLoopRateHz is the control loop frequency.
	// One telemetry record is produced per loop cycle.
	// Range: 50-200
	// Override via settings: loop.rate_hz
	DefaultLoopRateHz = 100

	// MinLoopRateHz and MaxLoopRateHz bound the configurable loop rate.
	MinLoopRateHz = 50
	MaxLoopRateHz = 200
)

// =============================================================================
// Telemetry Buffer Defaults
// =============================================================================

const (
	// DefaultBufferCapacity is the capacity of the telemetry record buffer.
	// Sized to absorb roughly two seconds of records at the maximum loop
	// rate, which covers worst-case writer scheduling jitter.
	// Override via settings: telemetry.buffer_capacity
	DefaultBufferCapacity = 512

	// DefaultDrainBatchSize is the maximum number of records drained from
	// the buffer per writer wake.
	DefaultDrainBatchSize = 256

	// DefaultWakeThreshold is the buffer occupancy ratio that kicks the
	// writer awake ahead of its ticker.
	DefaultWakeThreshold = 0.5
)

// =============================================================================
// Telemetry Writer Defaults
// =============================================================================

const (
	// DefaultWakeInterval is how often the writer drains the buffer.
	// At the default loop rate this keeps occupancy around 10 records.
	// Override via settings: telemetry.wake_interval
	DefaultWakeInterval = 100 * time.Millisecond

	// DefaultSyncInterval is how often buffered file data is synced to the
	// storage device. A crash loses at most one sync interval of records.
	// Syncing every record is deliberately not supported.
	// Override via settings: telemetry.sync_interval
	DefaultSyncInterval = time.Second

	// DefaultFailureThreshold is the number of consecutive write or sync
	// failures after which the writer enters the failed state and starts
	// discarding drained records.
	// Override via settings: telemetry.failure_threshold
	DefaultFailureThreshold = 5
)

// =============================================================================
// Shutdown Defaults
// =============================================================================

const (
	// DefaultStopTimeout is how long Stop waits for the writer to drain
	// remaining records before forcing the file closed.
	// Override via settings: telemetry.stop_timeout
	DefaultStopTimeout = 2 * time.Second
)

// =============================================================================
// Log File Defaults
// =============================================================================

const (
	// DefaultLogDir is where numbered log files are created.
	// Override via settings: telemetry.log_dir
	DefaultLogDir = "logs"

	// DefaultFileMode is the permission mode for created log files.
	DefaultFileMode = 0644
)
