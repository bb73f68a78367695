package settings

import (
	"errors"
	"fmt"

	"github.com/faerietree/fly/config"
	fcerrors "github.com/faerietree/fly/internal/errors"
	"github.com/faerietree/fly/internal/validation"
)

// Validate checks the settings for errors.
func (s *Settings) Validate() error {
	var errs []error

	if err := validation.ValidateVehicleName(s.Name); err != nil {
		errs = append(errs, fmt.Errorf("name: %w", err))
	}

	if _, ok := layoutNames[s.Layout]; !ok {
		errs = append(errs, fmt.Errorf("layout: unknown value %d", int(s.Layout)))
	}

	if s.VNominal < 7.0 || s.VNominal > 18.0 {
		errs = append(errs, fmt.Errorf("v_nominal: %.1f outside 7.0-18.0", s.VNominal))
	}

	if s.FeedbackHz != 50 && s.FeedbackHz != 100 && s.FeedbackHz != 200 {
		errs = append(errs, fmt.Errorf("feedback_hz: must be 50, 100 or 200, got %d", s.FeedbackHz))
	}

	if err := s.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", fcerrors.ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}

// Validate checks the telemetry configuration.
func (c *TelemetryConfig) Validate() error {
	var errs []error

	if c.LogDir == "" {
		errs = append(errs, errors.New("log_dir is required"))
	}

	if c.BufferCapacity <= 0 {
		errs = append(errs, errors.New("buffer_capacity must be positive"))
	}
	if c.BufferCapacity > 1<<20 {
		errs = append(errs, fmt.Errorf("buffer_capacity %d unreasonably large", c.BufferCapacity))
	}

	if c.WakeInterval <= 0 {
		errs = append(errs, errors.New("wake_interval must be positive"))
	}
	if c.SyncInterval < c.WakeInterval {
		errs = append(errs, errors.New("sync_interval must be at least wake_interval"))
	}

	if c.StopTimeout <= 0 {
		errs = append(errs, errors.New("stop_timeout must be positive"))
	}
	if c.StopTimeout <= c.WakeInterval {
		errs = append(errs, errors.New("stop_timeout must exceed wake_interval"))
	}

	if c.FailureThreshold <= 0 {
		errs = append(errs, errors.New("failure_threshold must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SessionDefaultsApplied returns a copy with zero-valued fields filled
// from the documented defaults.
func (c TelemetryConfig) SessionDefaultsApplied() TelemetryConfig {
	if c.LogDir == "" {
		c.LogDir = config.DefaultLogDir
	}
	if c.BufferCapacity <= 0 {
		c.BufferCapacity = config.DefaultBufferCapacity
	}
	if c.WakeInterval <= 0 {
		c.WakeInterval = Duration(config.DefaultWakeInterval)
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = Duration(config.DefaultSyncInterval)
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = Duration(config.DefaultStopTimeout)
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = config.DefaultFailureThreshold
	}
	return c
}
