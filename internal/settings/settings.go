// Package settings reads and validates the on-disk settings file.
//
// The file is YAML. When no file exists at the given path, the default
// settings are written there and returned, so a fresh install always
// boots with a file the operator can edit.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/faerietree/fly/config"
)

// Settings is the complete settings file.
type Settings struct {
	// Name identifies the vehicle. It becomes part of the log path.
	Name string `yaml:"name"`

	// Layout is the rotor geometry.
	Layout FrameLayout `yaml:"layout"`

	// VNominal is the nominal battery voltage. Range: 7.0-18.0.
	VNominal float64 `yaml:"v_nominal"`

	// FeedbackHz is the control loop frequency. Must be 50, 100 or 200.
	FeedbackHz int `yaml:"feedback_hz"`

	// Telemetry configures the flight log subsystem.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TelemetryConfig configures the flight log subsystem.
type TelemetryConfig struct {
	// Enabled gates the whole logging subsystem.
	Enabled bool `yaml:"enabled"`

	// LogDir is the root directory for log files. The vehicle name is
	// appended, so each vehicle logs into its own subdirectory.
	LogDir string `yaml:"log_dir"`

	// BufferCapacity is the fixed capacity of the record buffer.
	BufferCapacity int `yaml:"buffer_capacity"`

	// WakeInterval is how often the writer drains the buffer.
	// Format: "100ms", "1s"
	WakeInterval Duration `yaml:"wake_interval"`

	// SyncInterval is how often log data is synced to storage.
	// Format: "1s", "5s"
	SyncInterval Duration `yaml:"sync_interval"`

	// StopTimeout bounds how long shutdown waits for the final drain.
	// Format: "2s"
	StopTimeout Duration `yaml:"stop_timeout"`

	// FailureThreshold is the consecutive write failures tolerated
	// before the writer gives up.
	FailureThreshold int `yaml:"failure_threshold"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		Name:       "rotorbits",
		Layout:     Layout6DOFRotorbits,
		VNominal:   7.4,
		FeedbackHz: config.DefaultLoopRateHz,
		Telemetry: TelemetryConfig{
			Enabled:          false,
			LogDir:           config.DefaultLogDir,
			BufferCapacity:   config.DefaultBufferCapacity,
			WakeInterval:     Duration(config.DefaultWakeInterval),
			SyncInterval:     Duration(config.DefaultSyncInterval),
			StopTimeout:      Duration(config.DefaultStopTimeout),
			FailureThreshold: config.DefaultFailureThreshold,
		},
	}
}

// Load reads settings from path. If the file does not exist the
// defaults are written there and returned. Loaded settings are
// validated before being returned.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s := Default()
		if werr := s.Save(path); werr != nil {
			return nil, fmt.Errorf("write default settings: %w", werr)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	// Unmarshal over the defaults so omitted keys keep their
	// documented values.
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes the settings to path as YAML.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// LogPath returns the directory where this vehicle's log files go.
func (s *Settings) LogPath() string {
	return filepath.Join(s.Telemetry.LogDir, s.Name)
}

// LoopPeriod returns the control loop cycle time.
func (s *Settings) LoopPeriod() time.Duration {
	return time.Second / time.Duration(s.FeedbackHz)
}
