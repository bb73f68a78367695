package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faerietree/fly/config"
	fcerrors "github.com/faerietree/fly/internal/errors"
	"github.com/faerietree/fly/internal/logging"
)

// Options configures a logging session.
type Options struct {
	// Enabled gates the whole subsystem. When false the session is
	// inert: no file, no goroutine, Submit trivially accepts.
	Enabled bool

	// LogDir is the directory where numbered log files are created.
	LogDir string

	// BufferCapacity is the fixed capacity of the record buffer.
	BufferCapacity int

	// WakeThreshold is the buffer occupancy ratio at which Submit kicks
	// the writer awake ahead of its ticker.
	WakeThreshold float64

	// Writer configures the background writer task.
	Writer WriterOptions
}

// DefaultOptions returns the default session options.
func DefaultOptions() Options {
	return Options{
		Enabled:        true,
		LogDir:         config.DefaultLogDir,
		BufferCapacity: config.DefaultBufferCapacity,
		WakeThreshold:  config.DefaultWakeThreshold,
		Writer:         DefaultWriterOptions(),
	}
}

// StopResult reports how a session ended.
type StopResult struct {
	// Clean is true when every accepted record reached the file before
	// the stop timeout.
	Clean bool

	// Lost is the number of accepted records that did not reach the
	// file: records discarded after write failures plus records still
	// pending when a stop was forced. Zero on a clean stop.
	Lost int
}

// Session is the lifecycle controller for one logging run. It creates
// the destination file, owns the buffer, and starts and stops the
// writer task. Exactly one session may be active at a time; a second
// Start without an intervening Stop is an error.
type Session struct {
	opts Options
	log  *slog.Logger

	mu     sync.Mutex
	buf    *RingBuffer
	writer *Writer
	path   string

	active atomic.Bool
}

// NewSession creates a session from the given options. Nothing is
// opened until Start.
func NewSession(opts Options) *Session {
	if opts.LogDir == "" {
		opts.LogDir = config.DefaultLogDir
	}
	if opts.BufferCapacity <= 0 {
		opts.BufferCapacity = config.DefaultBufferCapacity
	}
	if opts.WakeThreshold <= 0 || opts.WakeThreshold > 1 {
		opts.WakeThreshold = config.DefaultWakeThreshold
	}

	return &Session{
		opts: opts,
		log:  logging.Component("telemetry"),
	}
}

// Start creates the next numbered log file, writes the header line, and
// starts the writer task. Returns ErrSessionActive if called while a
// session is already running.
func (s *Session) Start() error {
	if !s.opts.Enabled {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active.Load() {
		return fcerrors.ErrSessionActive
	}

	if err := os.MkdirAll(s.opts.LogDir, 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	file, path, err := createLogFile(s.opts.LogDir)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}

	// Header goes straight to the file, exactly once, before the writer
	// takes ownership.
	if _, err := file.WriteString(Header() + "\n"); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("write header: %w", err)
	}

	s.path = path
	s.buf = NewRingBuffer(s.opts.BufferCapacity)
	s.writer = newWriter(file, s.buf, s.opts.Writer, s.log)
	s.writer.start()
	s.active.Store(true)

	s.log.Info("logging session started",
		"file", path,
		"buffer_capacity", s.opts.BufferCapacity,
		"wake_interval", s.writer.opts.WakeInterval)

	return nil
}

// Submit hands one record to the buffer. It never blocks: when the
// buffer is full the record is dropped and false is returned. The
// control loop must tolerate a drop without retrying.
func (s *Session) Submit(r Record) bool {
	if !s.opts.Enabled {
		return true
	}
	if !s.active.Load() {
		return false
	}

	ok := s.buf.Push(r)

	// Kick the writer early when occupancy gets high so the buffer
	// stays well under capacity between ticker wakes.
	if s.buf.UsageRatio() >= s.opts.WakeThreshold {
		s.writer.kick()
	}

	return ok
}

// Stop signals the writer to drain remaining records and exit, waiting
// up to timeout. If the deadline elapses first the file is forced
// closed and the result reports the records presumed lost. A stop that
// finishes in time but discarded records along the way (a failed or
// failing writer) also reports an unclean result, so the caller never
// sees Clean while the file is missing data. Stop always returns
// within the timeout plus scheduling granularity.
func (s *Session) Stop(timeout time.Duration) StopResult {
	if !s.opts.Enabled {
		return StopResult{Clean: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active.Load() {
		return StopResult{Clean: true}
	}
	s.active.Store(false)

	s.writer.requestStop()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.writer.done():
		stats := s.writer.Stats()
		if stats.Discarded > 0 {
			s.log.Warn("logging session stopped with records lost",
				"file", s.path,
				"records_written", stats.RecordsWritten,
				"records_lost", stats.Discarded)
			return StopResult{Clean: false, Lost: int(stats.Discarded)}
		}
		s.log.Info("logging session stopped", "file", s.path,
			"records_written", stats.RecordsWritten)
		return StopResult{Clean: true}
	case <-timer.C:
		lost := s.buf.Len() + int(s.writer.Stats().Discarded)
		// Force the file closed so a writer stuck on device I/O cannot
		// hold up process shutdown. The run loop exits through its
		// error paths once its syscall returns.
		if err := s.writer.forceClose(); err != nil {
			s.log.Error("force close failed", "error", err)
		}
		s.log.Warn("logging session force-stopped",
			"file", s.path,
			"records_lost", lost)
		return StopResult{Clean: false, Lost: lost}
	}
}

// Active reports whether a logging session is currently running.
func (s *Session) Active() bool {
	return s.active.Load()
}

// Path returns the destination file path of the current (or last)
// session, empty before the first Start.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Stats returns combined session statistics. Zero values before Start.
func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	buf, writer := s.buf, s.writer
	path := s.path
	s.mu.Unlock()

	stats := SessionStats{
		Active: s.active.Load(),
		Path:   path,
	}
	if buf != nil {
		stats.Buffer = buf.Stats()
	}
	if writer != nil {
		stats.Writer = writer.Stats()
	}
	return stats
}

// SessionStats holds combined session statistics.
type SessionStats struct {
	Active bool
	Path   string
	Buffer BufferStats
	Writer WriterStats
}

// createLogFile creates the next numbered log file in dir. Numbering
// continues from the highest existing file so no run ever overwrites an
// earlier one.
func createLogFile(dir string) (*os.File, string, error) {
	next := nextLogNumber(dir)

	// O_EXCL guards against a concurrent process racing for the same
	// number; step past collisions.
	for i := 0; i < 1000; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%05d.csv", next+i))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, config.DefaultFileMode)
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("no free log number in %s", dir)
}

// nextLogNumber returns one past the highest numbered log file in dir.
func nextLogNumber(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}

	var nums []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(entry.Name(), "%05d.csv", &n); err == nil {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return 1
	}

	sort.Ints(nums)
	return nums[len(nums)-1] + 1
}
