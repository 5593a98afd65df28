// File: core/ring/ring.go
// Package ring implements the SPSC speculative byte ring.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Cursor and counter discipline:
//   - readPos is stored only by the consumer, writePos only by the producer.
//   - freeSpace is an explicit counter adjusted by both sides with atomic
//     adds; it is the clamp source for both sides and is never derived
//     from the cursors.
//   - payload bytes are copied before the freeSpace update that makes them
//     visible to the other side.

package ring

import (
	"fmt"
	"sync/atomic"

	"github.com/velesov/ringstream/api"
)

// Ensure compile-time interface compliance.
var _ api.Ring = (*Buffer)(nil)

const cacheLinePad = 64

// Buffer is a fixed-capacity SPSC circular byte buffer.
// The zero value is not usable; construct with New or NewWithStorage.
type Buffer struct {
	storage  []byte
	capacity int64
	origin   api.Storage // nil when heap-constructed

	readPos   atomic.Int64
	_         [cacheLinePad]byte // hot-field separation
	writePos  atomic.Int64
	_         [cacheLinePad]byte
	freeSpace atomic.Int64
	_         [cacheLinePad]byte

	mark   atomic.Pointer[mark]
	closed atomic.Bool
}

// New allocates a heap-backed ring of the given capacity in bytes.
// Capacity is usable payload: a capacity-sized write into an empty ring
// succeeds in full.
func New(capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", api.ErrInvalidCapacity, capacity)
	}
	b := &Buffer{
		storage:  make([]byte, capacity),
		capacity: int64(capacity),
	}
	b.freeSpace.Store(b.capacity)
	return b, nil
}

// NewWithStorage wraps a pooled storage region. The ring owns the region
// until Close releases it. Region content is unspecified until written.
func NewWithStorage(st api.Storage) (*Buffer, error) {
	if st == nil || st.Len() < 1 {
		return nil, fmt.Errorf("%w: empty storage region", api.ErrInvalidCapacity)
	}
	b := &Buffer{
		storage:  st.Bytes(),
		capacity: int64(st.Len()),
		origin:   st,
	}
	b.freeSpace.Store(b.capacity)
	return b, nil
}

// Capacity returns the fixed usable payload size in bytes.
func (b *Buffer) Capacity() int { return int(b.capacity) }

// FreeSpace returns bytes currently writable.
func (b *Buffer) FreeSpace() int { return int(clamp(b.freeSpace.Load(), b.capacity)) }

// UsedSpace returns bytes currently buffered.
func (b *Buffer) UsedSpace() int { return int(clamp(b.capacity-b.freeSpace.Load(), b.capacity)) }

// clamp bounds v to [0, limit]. The raw counter leaves that range only
// after a caller breaks the restore protocol (see SaveMark); accessors and
// clamping stay in range regardless.
func clamp(v, limit int64) int64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// Write copies p into the buffer, clamped to the free space available.
// Producer-side. Returns the bytes consumed from p; 0 reports a full
// buffer, not an error.
func (b *Buffer) Write(p []byte) int {
	free := clamp(b.freeSpace.Load(), b.capacity)
	n := int64(len(p))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}
	b.copyIn(p[:n])
	b.commitWrite(n)
	return int(n)
}

// Advance claims n bytes of write-side room without supplying payload,
// with Write's clamping. Content of the claimed span is unspecified until
// overwritten. Producer-side.
func (b *Buffer) Advance(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("advance: %w: %d", api.ErrNegativeCount, n)
	}
	free := clamp(b.freeSpace.Load(), b.capacity)
	c := int64(n)
	if c > free {
		c = free
	}
	if c > 0 {
		b.commitWrite(c)
	}
	return int(c), nil
}

// Read copies buffered bytes into p, clamped to the bytes available.
// Consumer-side. Returns the bytes placed into p; 0 reports an empty
// buffer, not an error.
func (b *Buffer) Read(p []byte) int {
	used := clamp(b.capacity-b.freeSpace.Load(), b.capacity)
	n := int64(len(p))
	if n > used {
		n = used
	}
	if n == 0 {
		return 0
	}
	b.copyOut(p[:n])
	b.commitRead(n)
	return int(n)
}

// Peek fills p entirely without moving the read cursor. Consumer-side.
// Fails with api.ErrInsufficientData when fewer than len(p) bytes are
// buffered; the error carries the byte count that was available and the
// buffer is left untouched.
func (b *Buffer) Peek(p []byte) (int, error) {
	want := int64(len(p))
	if want == 0 {
		return 0, nil
	}
	used := clamp(b.capacity-b.freeSpace.Load(), b.capacity)
	if want > used {
		return 0, api.NewLimitError("peek", api.ErrInsufficientData, int(want), int(used))
	}
	b.copyOut(p)
	return int(want), nil
}

// copyIn lays src down at the write cursor, splitting at the wrap point.
// At most two copies.
func (b *Buffer) copyIn(src []byte) {
	wp := b.writePos.Load()
	first := b.capacity - wp
	if first >= int64(len(src)) {
		copy(b.storage[wp:], src)
		return
	}
	copy(b.storage[wp:], src[:first])
	copy(b.storage, src[first:])
}

// copyOut fills dst from the read cursor, splitting at the wrap point.
// At most two copies. Does not move the cursor.
func (b *Buffer) copyOut(dst []byte) {
	rp := b.readPos.Load()
	first := b.capacity - rp
	if first >= int64(len(dst)) {
		copy(dst, b.storage[rp:rp+int64(len(dst))])
		return
	}
	copy(dst, b.storage[rp:])
	copy(dst[first:], b.storage[:int64(len(dst))-first])
}

// commitWrite publishes a producer advance: cursor, then counter. The
// payload copy precedes it, so a consumer that observes the shrunken free
// space observes the bytes. Between the producer's clamp and this commit
// the counter can only have grown.
func (b *Buffer) commitWrite(n int64) {
	wp := b.writePos.Load()
	b.writePos.Store((wp + n) % b.capacity)
	b.freeSpace.Add(-n)
}

// commitRead publishes a consumer advance: cursor, then counter. The
// payload copy precedes it, so a producer that observes the grown free
// space may reuse the span. While a mark is pinned the consumed distance
// is tallied for Restore to un-count.
func (b *Buffer) commitRead(n int64) {
	rp := b.readPos.Load()
	b.readPos.Store((rp + n) % b.capacity)
	b.freeSpace.Add(n)
	if m := b.mark.Load(); m != nil {
		m.spent.Add(n)
	}
}
