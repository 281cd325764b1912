// Package trajectory holds the bounded sample history of a stroke and the
// filter that admits samples into it.
package trajectory

import "github.com/ayusman/pathsense/internal/geom"

// DefaultCapacity is the default maximum number of samples kept per stroke.
const DefaultCapacity = 500

// Buffer is a fixed-capacity FIFO of samples. When full, adding a sample
// evicts the oldest one. A Buffer is not safe for concurrent use; readers on
// other goroutines must work from a Snapshot.
type Buffer struct {
	data []geom.Sample
	head int
	size int
}

// NewBuffer creates a Buffer holding at most capacity samples.
// A capacity <= 0 produces a buffer that ignores every Add.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]geom.Sample, capacity)}
}

// Add appends s, evicting the oldest sample first if the buffer is full.
func (b *Buffer) Add(s geom.Sample) {
	capacity := len(b.data)
	if capacity == 0 {
		return
	}
	if b.size == capacity {
		// Overwrite the oldest slot and advance the head.
		b.data[b.head] = s
		b.head = (b.head + 1) % capacity
		return
	}
	b.data[(b.head+b.size)%capacity] = s
	b.size++
}

// Clear removes all samples.
func (b *Buffer) Clear() {
	b.head = 0
	b.size = 0
}

// Len returns the number of samples held.
func (b *Buffer) Len() int { return b.size }

// Cap returns the maximum number of samples the buffer holds.
func (b *Buffer) Cap() int { return len(b.data) }

// Last returns the most recently added sample.
func (b *Buffer) Last() (geom.Sample, bool) {
	if b.size == 0 {
		return geom.Sample{}, false
	}
	return b.data[(b.head+b.size-1)%len(b.data)], true
}

// Snapshot returns a copy of the samples in insertion order. The returned
// slice is never touched by the buffer again.
func (b *Buffer) Snapshot() []geom.Sample {
	out := make([]geom.Sample, b.size)
	if b.size == 0 {
		return out
	}
	capacity := len(b.data)
	n := copy(out, b.data[b.head:min(b.head+b.size, capacity)])
	copy(out[n:], b.data[:b.size-n])
	return out
}
