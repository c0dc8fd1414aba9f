// Package logbuffer keeps a bounded in-memory tail of recent log output.
//
// The debug package feeds every record it writes into a shared ring so
// that failure reports can include the most recent log lines without
// re-reading log files from disk.
package logbuffer

import (
	"sync"
	"time"
)

const (
	// DefaultCapacity is the number of entries kept when no size is configured.
	DefaultCapacity = 1000
	// MaxEntrySize is the maximum size of a single message in bytes.
	MaxEntrySize = 2048
)

// Entry is one captured log record.
type Entry struct {
	Time     time.Time
	Level    string
	Message  string
	File     string
	Line     int
	Function string
}

// RingBuffer is a thread-safe circular buffer of log entries.
type RingBuffer struct {
	mu       sync.RWMutex
	entries  []Entry
	head     int // next write position
	count    int // entries currently stored
	capacity int
	wrapped  bool
}

// New creates a RingBuffer holding up to capacity entries.
// Non-positive capacities fall back to DefaultCapacity.
func New(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RingBuffer{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Add stores an entry, overwriting the oldest once the buffer has wrapped.
// Messages longer than MaxEntrySize are truncated.
func (rb *RingBuffer) Add(e Entry) {
	if len(e.Message) > MaxEntrySize {
		e.Message = e.Message[:MaxEntrySize-3] + "..."
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = e
	rb.head = (rb.head + 1) % rb.capacity

	if rb.count < rb.capacity {
		rb.count++
	} else {
		rb.wrapped = true
	}
}

// Tail returns the n most recent entries in chronological order
// (oldest first). It returns fewer when the buffer holds fewer.
func (rb *RingBuffer) Tail(n int) []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.tailLocked(n)
}

// Snapshot returns every stored entry in chronological order.
func (rb *RingBuffer) Snapshot() []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.tailLocked(rb.count)
}

func (rb *RingBuffer) tailLocked(n int) []Entry {
	if n <= 0 || rb.count == 0 {
		return nil
	}
	if n > rb.count {
		n = rb.count
	}

	// The oldest stored entry sits at head once the buffer has wrapped,
	// otherwise at index zero.
	start := 0
	if rb.wrapped {
		start = rb.head
	}

	out := make([]Entry, 0, n)
	for i := rb.count - n; i < rb.count; i++ {
		out = append(out, rb.entries[(start+i)%rb.capacity])
	}
	return out
}

// Clear removes all entries from the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.head = 0
	rb.count = 0
	rb.wrapped = false
}

// Count returns the number of entries currently stored.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

// Capacity returns the maximum number of entries the buffer can hold.
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// Wrapped reports whether the buffer has overwritten old entries.
func (rb *RingBuffer) Wrapped() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.wrapped
}
