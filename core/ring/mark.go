// File: core/ring/mark.go
// Package ring: speculative read marks.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package ring

import (
	"fmt"
	"sync/atomic"

	"github.com/velesov/ringstream/api"
)

// mark pins the consumer state a Restore returns to. It is owned by the
// consumer goroutine: pos is the pinned cursor, spent tallies the bytes the
// consumer moved past since the pin. The producer never touches a mark; the
// restorable free-space floor is the derived quantity freeSpace - spent,
// which shrinks as the producer writes and is immune to full-versus-empty
// cursor aliasing. spent is atomic only so diagnostic snapshots taken from
// other goroutines stay race-free.
type mark struct {
	pos   int64
	spent atomic.Int64
}

// SaveMark pins the current read position, entering peek mode. While a mark
// is active SaveMark is a no-op; re-pinning is an explicit ClearMark
// followed by SaveMark.
//
// The producer keeps its full FreeSpace budget while a mark is pinned. A
// consumer that intends to Restore must keep the producer from writing more
// than the free space present at the pin: past that point the accounting
// stays conservative (restored free space reads zero) but the pinned span
// itself has been overwritten.
func (b *Buffer) SaveMark() {
	if b.mark.Load() != nil {
		return
	}
	b.mark.Store(&mark{pos: b.readPos.Load()})
}

// Restore rewinds the read cursor to the pinned position, un-counts the
// bytes consumed since the pin, and leaves peek mode. The resulting free
// space is the free space at the pin minus the bytes the producer wrote
// since, exactly: every counter mutation is a commuting atomic add, so a
// write in flight during Restore is never erased.
func (b *Buffer) Restore() error {
	m := b.mark.Load()
	if m == nil {
		return fmt.Errorf("restore: %w", api.ErrNoActiveMark)
	}
	b.mark.Store(nil)
	b.readPos.Store(m.pos)
	if n := m.spent.Load(); n != 0 {
		b.freeSpace.Add(-n)
	}
	return nil
}

// ClearMark commits the speculative consumption: the mark is discarded and
// the read cursor stays where it is. No-op without a mark.
func (b *Buffer) ClearMark() {
	b.mark.Store(nil)
}

// IsInPeekMode reports whether a mark is active.
func (b *Buffer) IsInPeekMode() bool {
	return b.mark.Load() != nil
}
