// File: api/ring.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Lock-free SPSC byte ring contract with speculative read support.

package api

// Ring is a fixed-capacity circular byte buffer shared by exactly one
// producer goroutine and one consumer goroutine. No operation blocks:
// Write and Read clamp to the room available and report the byte count
// actually moved, zero included. Structural misuse of the protocol —
// peeking past the buffered bytes, restoring without a mark — is reported
// through the error kinds in errors.go instead.
type Ring interface {
	// Capacity returns the fixed usable payload size in bytes.
	Capacity() int
	// FreeSpace returns the bytes currently writable.
	FreeSpace() int
	// UsedSpace returns the bytes currently buffered.
	UsedSpace() int

	// Write copies p into the buffer, clamped to FreeSpace.
	// Returns the number of bytes consumed from p.
	Write(p []byte) int
	// Advance claims n bytes of write-side room without supplying data,
	// with the same clamping bookkeeping as Write. Storage content in the
	// claimed span is unspecified. Rejects negative n with ErrNegativeCount.
	Advance(n int) (int, error)
	// Read copies buffered bytes into p, clamped to UsedSpace.
	// Returns the number of bytes placed into p.
	Read(p []byte) int
	// Peek fills p entirely from buffered bytes without moving the read
	// cursor. Fails with ErrInsufficientData when fewer than len(p) bytes
	// are buffered, leaving the buffer untouched.
	Peek(p []byte) (int, error)
	// Skip discards exactly n buffered bytes, or fails with
	// ErrInsufficientData discarding nothing.
	Skip(n int) (int, error)

	// SaveMark records the current read position and free space, entering
	// peek mode. While a mark is active SaveMark is a no-op.
	SaveMark()
	// Restore rewinds the read cursor to the saved mark, recomputes free
	// space so it never overstates the room the writer actually left, and
	// leaves peek mode. Fails with ErrNoActiveMark when no mark is set.
	Restore() error
	// ClearMark discards the mark and keeps the read cursor where it is.
	ClearMark()
	// IsInPeekMode reports whether a mark is active.
	IsInPeekMode() bool

	// Rewind moves the read cursor back n bytes. Valid only in peek mode
	// and bounded by the distance to the mark; overruns fail with a
	// LimitError of kind ErrExceedsMark carrying the permitted maximum.
	Rewind(n int) (int, error)
	// Offset moves the read cursor by a signed delta: forward bounded by
	// UsedSpace, backward only in peek mode and bounded by the mark.
	Offset(delta int) error
	// CanOffset reports whether Offset(delta) would succeed, without
	// changing anything.
	CanOffset(delta int) bool

	// Empty resets the buffer to its freshly constructed state. Not
	// synchronized against concurrent use: quiesce both sides first.
	Empty()
	// State captures a point-in-time snapshot for diagnostics.
	State() RingState
	// ValidateState cross-checks counters against cursors and reports the
	// first inconsistency found. Diagnostic only, never required for
	// correct operation.
	ValidateState() error
	// Close releases pooled storage, if any. The ring must not be used
	// after Close.
	Close() error
}
