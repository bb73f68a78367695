package telemetry

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/faerietree/fly/config"
)

// State is the writer lifecycle state.
type State int32

const (
	// StateCreated is the initial state before Start.
	StateCreated State = iota
	// StateRunning means the background goroutine is draining the buffer.
	StateRunning
	// StateStopping means a stop was requested and the final drain is in
	// progress.
	StateStopping
	// StateStopped is the terminal state after a completed stop.
	StateStopped
	// StateFailed is entered from Running after repeated I/O failures.
	// Drained records are discarded until the writer is stopped.
	StateFailed
)

// String returns a human-readable representation of the State.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// WriterOptions configures the writer task.
type WriterOptions struct {
	// WakeInterval is how often the writer drains the buffer.
	WakeInterval time.Duration

	// SyncInterval is how often buffered data is synced to the storage
	// device. A crash loses at most one interval of records.
	SyncInterval time.Duration

	// DrainBatchSize is the maximum records taken from the buffer per
	// PopN call. The writer loops until the buffer is empty each wake.
	DrainBatchSize int

	// FailureThreshold is the number of consecutive write/sync failures
	// before the writer enters StateFailed.
	FailureThreshold int

	// BufferSize is the size of the bufio write buffer.
	BufferSize int
}

// DefaultWriterOptions returns the default writer options.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		WakeInterval:     config.DefaultWakeInterval,
		SyncInterval:     config.DefaultSyncInterval,
		DrainBatchSize:   config.DefaultDrainBatchSize,
		FailureThreshold: config.DefaultFailureThreshold,
		BufferSize:       32 * 1024,
	}
}

// Writer is the background task that owns the destination file. It
// drains the ring buffer on a fixed wake interval (or early, when the
// session kicks it on high occupancy), formats each record as one data
// line, and appends it. File I/O happens only on this goroutine; the
// producer never touches the file.
type Writer struct {
	file *os.File
	out  io.Writer // write target, the file itself in production
	bw   *bufio.Writer
	buf  *RingBuffer
	opts WriterOptions
	log  *slog.Logger

	state    atomic.Int32
	stopOnce sync.Once
	stopCh   chan struct{} // closed to request stop
	doneCh   chan struct{} // closed when the run loop has exited
	notifyCh chan struct{} // occupancy kick from Submit

	// Touched only on the writer goroutine.
	lineBuf     []byte
	consecFails int
	lastSync    time.Time

	// Statistics
	recordsWritten atomic.Int64
	bytesWritten   atomic.Int64
	syncsPerformed atomic.Int64
	writeErrors    atomic.Int64
	discarded      atomic.Int64

	sketchMu sync.Mutex
	sketch   *ddsketch.DDSketch // per-drain write latency, seconds
}

// newWriter creates a writer over an already-open file. Options are
// normalized to defaults where unset.
func newWriter(file *os.File, buf *RingBuffer, opts WriterOptions, log *slog.Logger) *Writer {
	def := DefaultWriterOptions()
	if opts.WakeInterval <= 0 {
		opts.WakeInterval = def.WakeInterval
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = def.SyncInterval
	}
	if opts.DrainBatchSize <= 0 {
		opts.DrainBatchSize = def.DrainBatchSize
	}
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = def.FailureThreshold
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = def.BufferSize
	}

	w := &Writer{
		file:     file,
		out:      file,
		bw:       bufio.NewWriterSize(file, opts.BufferSize),
		buf:      buf,
		opts:     opts,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		notifyCh: make(chan struct{}, 1),
		lineBuf:  make([]byte, 0, 256),
	}

	// 1% relative accuracy is plenty for latency diagnostics.
	if sketch, err := ddsketch.NewDefaultDDSketch(0.01); err == nil {
		w.sketch = sketch
	}

	return w
}

// start transitions Created -> Running and launches the run loop.
func (w *Writer) start() {
	w.state.Store(int32(StateRunning))
	w.lastSync = time.Now()
	go w.run()
}

// requestStop asks the run loop to drain remaining records and exit.
// Safe to call more than once.
func (w *Writer) requestStop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// done returns a channel closed once the run loop has exited.
func (w *Writer) done() <-chan struct{} {
	return w.doneCh
}

// kick wakes the writer ahead of its ticker. Non-blocking.
func (w *Writer) kick() {
	select {
	case w.notifyCh <- struct{}{}:
	default:
		// Wake already pending
	}
}

// State returns the current lifecycle state.
func (w *Writer) State() State {
	return State(w.state.Load())
}

// forceClose closes the destination file out from under the run loop.
// Used only after a stop deadline has elapsed: any in-flight I/O fails
// immediately and the loop exits through its error paths instead of
// staying wedged on a slow device.
func (w *Writer) forceClose() error {
	return w.file.Close()
}

// run is the writer goroutine. It exits only on a stop request.
func (w *Writer) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.opts.WakeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			w.shutdown()
			return
		case <-ticker.C:
			w.drainAll()
		case <-w.notifyCh:
			w.drainAll()
		}
	}
}

// shutdown performs the final drain and closes the file. Entered only
// via a stop request.
func (w *Writer) shutdown() {
	failed := w.State() == StateFailed
	w.state.Store(int32(StateStopping))

	if !failed {
		w.drainAll()
		if err := w.bw.Flush(); err != nil {
			w.writeErrors.Add(1)
			w.log.Error("final flush failed", "error", err)
		}
		if err := w.file.Sync(); err != nil {
			w.writeErrors.Add(1)
			w.log.Error("final sync failed", "error", err)
		} else {
			w.syncsPerformed.Add(1)
		}
	} else {
		// A failed writer discards whatever is left rather than risking
		// another stall on a broken device.
		w.discarded.Add(int64(w.buf.Len()))
	}

	if err := w.file.Close(); err != nil {
		w.log.Error("close log file failed", "error", err)
	}

	w.state.Store(int32(StateStopped))
}

// drainAll drains the buffer until empty, writing each batch.
func (w *Writer) drainAll() {
	for {
		records := w.buf.PopN(w.opts.DrainBatchSize)
		if len(records) == 0 {
			break
		}

		if w.State() == StateFailed {
			w.discarded.Add(int64(len(records)))
			continue
		}

		start := time.Now()
		if err := w.writeBatch(records); err != nil {
			w.writeErrors.Add(1)
			w.discarded.Add(int64(len(records)))
			w.consecFails++
			// bufio latches its first error and short-circuits all
			// further writes; reset it so the next wake performs real
			// I/O against the file again.
			w.bw.Reset(w.out)
			w.log.Error("write batch failed, records lost",
				"error", err,
				"records", len(records),
				"consecutive_failures", w.consecFails)

			if w.consecFails >= w.opts.FailureThreshold {
				w.state.Store(int32(StateFailed))
				w.log.Error("writer entering failed state, discarding further records",
					"failure_threshold", w.opts.FailureThreshold)
			}
			continue
		}
		w.consecFails = 0
		w.observeLatency(time.Since(start))
	}

	if w.State() == StateRunning {
		w.maybeSync()
	}
}

// writeBatch formats and writes one batch of records, then flushes the
// bufio layer so no partial line sits in process memory across wakes.
// Counters move only after the flush succeeds: until then the bytes sit
// in the bufio buffer and have not reached the file. A failed batch is
// counted entirely as discarded by the caller.
func (w *Writer) writeBatch(records []Record) error {
	var bytes int64
	for i := range records {
		w.lineBuf = AppendLine(w.lineBuf[:0], &records[i])
		n, err := w.bw.Write(w.lineBuf)
		if err != nil {
			return err
		}
		bytes += int64(n)
	}
	if err := w.bw.Flush(); err != nil {
		return err
	}
	w.bytesWritten.Add(bytes)
	w.recordsWritten.Add(int64(len(records)))
	return nil
}

// maybeSync syncs the file if the sync interval has elapsed.
func (w *Writer) maybeSync() {
	if time.Since(w.lastSync) < w.opts.SyncInterval {
		return
	}
	w.lastSync = time.Now()

	if err := w.file.Sync(); err != nil {
		w.writeErrors.Add(1)
		w.consecFails++
		w.log.Error("sync failed", "error", err, "consecutive_failures", w.consecFails)
		if w.consecFails >= w.opts.FailureThreshold {
			w.state.Store(int32(StateFailed))
			w.log.Error("writer entering failed state, discarding further records",
				"failure_threshold", w.opts.FailureThreshold)
		}
		return
	}
	w.syncsPerformed.Add(1)
}

func (w *Writer) observeLatency(d time.Duration) {
	if w.sketch == nil {
		return
	}
	w.sketchMu.Lock()
	// Add only fails for non-positive values, which Seconds() of a
	// measured duration never produces.
	_ = w.sketch.Add(d.Seconds())
	w.sketchMu.Unlock()
}

// WriterStats holds writer statistics.
type WriterStats struct {
	State          State
	RecordsWritten int64
	BytesWritten   int64
	SyncsPerformed int64
	WriteErrors    int64

	// Discarded counts records drained from the buffer that never
	// reached the file: failed batches plus everything drained after
	// the writer entered StateFailed. Accepted records always
	// reconcile as RecordsWritten + Discarded + pending.
	Discarded int64

	// Per-drain write latency percentiles, zero when no drains
	// have completed yet.
	DrainLatencyP50 time.Duration
	DrainLatencyP99 time.Duration
}

// Stats returns writer statistics.
func (w *Writer) Stats() WriterStats {
	stats := WriterStats{
		State:          w.State(),
		RecordsWritten: w.recordsWritten.Load(),
		BytesWritten:   w.bytesWritten.Load(),
		SyncsPerformed: w.syncsPerformed.Load(),
		WriteErrors:    w.writeErrors.Load(),
		Discarded:      w.discarded.Load(),
	}

	if w.sketch != nil {
		w.sketchMu.Lock()
		if p50, err := w.sketch.GetValueAtQuantile(0.5); err == nil {
			stats.DrainLatencyP50 = time.Duration(p50 * float64(time.Second))
		}
		if p99, err := w.sketch.GetValueAtQuantile(0.99); err == nil {
			stats.DrainLatencyP99 = time.Duration(p99 * float64(time.Second))
		}
		w.sketchMu.Unlock()
	}

	return stats
}
