package telemetry

import (
	"sync"
	"sync/atomic"
)

// RingBuffer is a fixed-capacity FIFO staging area between the control
// loop and the writer. The producer only pushes, the writer only drains.
// The critical section is a few index updates and one record copy, so
// the producer is never made to wait on writer I/O.
//
// When full, Push rejects the new record instead of overwriting unread
// data; the control loop must tolerate the rejection without retrying.
type RingBuffer struct {
	mu       sync.Mutex
	data     []Record
	head     int64 // next write position
	tail     int64 // oldest data position
	count    int64
	capacity int64

	// Statistics
	acceptCount atomic.Int64
	drainCount  atomic.Int64
	dropCount   atomic.Int64
}

// NewRingBuffer creates a buffer with the given capacity. The backing
// array is allocated once up front; Push never allocates.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{
		data:     make([]Record, capacity),
		capacity: int64(capacity),
	}
}

// Push adds a record to the buffer.
// Returns false if the buffer is full and the record was dropped.
func (rb *RingBuffer) Push(r Record) bool {
	rb.mu.Lock()

	if rb.count >= rb.capacity {
		rb.mu.Unlock()
		rb.dropCount.Add(1)
		return false
	}

	rb.data[rb.head%rb.capacity] = r
	rb.head++
	rb.count++
	rb.mu.Unlock()

	rb.acceptCount.Add(1)
	return true
}

// PopN removes and returns up to n oldest records in FIFO order.
// Called only by the writer.
func (rb *RingBuffer) PopN(n int) []Record {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.count == 0 || n <= 0 {
		return nil
	}

	count := int64(n)
	if count > rb.count {
		count = rb.count
	}

	result := make([]Record, count)
	for i := int64(0); i < count; i++ {
		result[i] = rb.data[(rb.tail+i)%rb.capacity]
	}

	rb.tail += count
	rb.count -= count
	rb.drainCount.Add(count)

	return result
}

// Len returns the current number of pending records.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return int(rb.count)
}

// Cap returns the capacity of the buffer.
func (rb *RingBuffer) Cap() int {
	return int(rb.capacity)
}

// IsEmpty returns true if no records are pending.
func (rb *RingBuffer) IsEmpty() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count == 0
}

// UsageRatio returns the current occupancy as a ratio (0.0 - 1.0).
func (rb *RingBuffer) UsageRatio() float64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return float64(rb.count) / float64(rb.capacity)
}

// Stats returns buffer statistics.
func (rb *RingBuffer) Stats() BufferStats {
	rb.mu.Lock()
	count := rb.count
	rb.mu.Unlock()

	return BufferStats{
		Capacity: int(rb.capacity),
		Pending:  int(count),
		Accepted: rb.acceptCount.Load(),
		Drained:  rb.drainCount.Load(),
		Dropped:  rb.dropCount.Load(),
	}
}

// BufferStats holds buffer statistics.
type BufferStats struct {
	Capacity int
	Pending  int
	Accepted int64 // records accepted by Push
	Drained  int64 // records handed to the writer
	Dropped  int64 // records rejected because the buffer was full
}
