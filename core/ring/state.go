// File: core/ring/state.go
// Package ring: diagnostics and lifecycle.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package ring

import (
	"fmt"

	"github.com/velesov/ringstream/api"
)

// State captures a point-in-time snapshot for probes and journals. Safe to
// call from any goroutine; the snapshot does not stay coherent with the
// live ring.
func (b *Buffer) State() api.RingState {
	s := api.RingState{
		Capacity:  int(b.capacity),
		ReadPos:   int(b.readPos.Load()),
		WritePos:  int(b.writePos.Load()),
		FreeSpace: b.FreeSpace(),
		UsedSpace: b.UsedSpace(),
	}
	if m := b.mark.Load(); m != nil {
		s.InPeekMode = true
		s.MarkPos = int(m.pos)
		s.MarkFree = int(clamp(b.freeSpace.Load()-m.spent.Load(), b.capacity))
	}
	return s
}

// ValidateState cross-checks the free-space counter against the cursors and
// reports the first inconsistency found. Intended for tests and debug
// probes on a quiesced ring; concurrent callers can observe transient skew
// from in-flight operations. Never required for correct operation.
func (b *Buffer) ValidateState() error {
	c := b.capacity
	rp := b.readPos.Load()
	wp := b.writePos.Load()
	fs := b.freeSpace.Load()

	if c < 1 {
		return fmt.Errorf("validate: capacity %d out of range", c)
	}
	if rp < 0 || rp >= c {
		return fmt.Errorf("validate: read cursor %d out of range [0,%d)", rp, c)
	}
	if wp < 0 || wp >= c {
		return fmt.Errorf("validate: write cursor %d out of range [0,%d)", wp, c)
	}
	if fs < 0 || fs > c {
		return fmt.Errorf("validate: free space %d out of range [0,%d] (marked span overrun)", fs, c)
	}
	// Full and empty both place the cursors together; comparing modulo
	// capacity keeps used==capacity reconcilable.
	used := c - fs
	positional := (wp - rp + c) % c
	if used%c != positional {
		return fmt.Errorf("validate: counter used=%d disagrees with cursor distance %d", used, positional)
	}
	if m := b.mark.Load(); m != nil {
		if m.pos < 0 || m.pos >= c {
			return fmt.Errorf("validate: mark position %d out of range [0,%d)", m.pos, c)
		}
		spent := m.spent.Load()
		if spent < 0 {
			return fmt.Errorf("validate: consumed-since-mark %d negative", spent)
		}
		if back := (rp - m.pos + c) % c; spent%c != back {
			return fmt.Errorf("validate: consumed-since-mark %d disagrees with mark distance %d", spent, back)
		}
	}
	return nil
}

// Empty resets the ring to its freshly constructed state, dropping any mark
// and all buffered bytes. Not synchronized against concurrent use: quiesce
// both sides first. Storage content is left as-is.
func (b *Buffer) Empty() {
	b.mark.Store(nil)
	b.readPos.Store(0)
	b.writePos.Store(0)
	b.freeSpace.Store(b.capacity)
}

// Close releases pooled storage, if any. Idempotent. The ring must not be
// used after Close.
func (b *Buffer) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	if b.origin != nil {
		return b.origin.Release()
	}
	return nil
}
