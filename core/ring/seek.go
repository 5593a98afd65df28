// File: core/ring/seek.go
// Package ring: cursor repositioning over buffered data.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package ring

import (
	"fmt"

	"github.com/velesov/ringstream/api"
)

// Skip discards exactly n buffered bytes. Consumer-side. Unlike Read it
// refuses partial progress: either n bytes are discarded or none, with the
// error carrying the bytes that were available.
func (b *Buffer) Skip(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("skip: %w: %d", api.ErrNegativeCount, n)
	}
	used := clamp(b.capacity-b.freeSpace.Load(), b.capacity)
	if int64(n) > used {
		return 0, api.NewLimitError("skip", api.ErrInsufficientData, n, int(used))
	}
	if n > 0 {
		b.commitRead(int64(n))
	}
	return n, nil
}

// Rewind moves the read cursor back n bytes over already consumed data.
// Valid only in peek mode and bounded by the distance to the mark; the
// failure carries that distance so callers can rewind as far as possible.
func (b *Buffer) Rewind(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("rewind: %w: %d", api.ErrNegativeCount, n)
	}
	m := b.mark.Load()
	if m == nil {
		return 0, fmt.Errorf("rewind: %w", api.ErrNoActiveMark)
	}
	limit := m.spent.Load()
	if int64(n) > limit {
		return 0, api.NewLimitError("rewind", api.ErrExceedsMark, n, int(limit))
	}
	if n > 0 {
		b.retreatRead(m, int64(n))
	}
	return n, nil
}

// Offset moves the read cursor by a signed delta: positive skips forward
// bounded by the buffered bytes, negative rewinds and requires peek mode.
func (b *Buffer) Offset(delta int) error {
	switch {
	case delta == 0:
		return nil
	case delta > 0:
		used := clamp(b.capacity-b.freeSpace.Load(), b.capacity)
		if int64(delta) > used {
			return api.NewLimitError("offset", api.ErrExceedsAvailable, delta, int(used))
		}
		b.commitRead(int64(delta))
		return nil
	default:
		m := b.mark.Load()
		if m == nil {
			return fmt.Errorf("offset: %w", api.ErrNoActiveMark)
		}
		limit := m.spent.Load()
		back := -int64(delta)
		if back < 0 || back > limit { // back < 0 guards the MinInt negation
			return api.NewLimitError("offset", api.ErrExceedsMark, delta, int(limit))
		}
		b.retreatRead(m, back)
		return nil
	}
}

// CanOffset reports whether Offset(delta) would succeed. Pure probe.
func (b *Buffer) CanOffset(delta int) bool {
	switch {
	case delta == 0:
		return true
	case delta > 0:
		return int64(delta) <= clamp(b.capacity-b.freeSpace.Load(), b.capacity)
	default:
		m := b.mark.Load()
		if m == nil {
			return false
		}
		back := -int64(delta)
		return back >= 0 && back <= m.spent.Load()
	}
}

// retreatRead is the single mutation path for backward cursor motion:
// cursor back, free space down, consumed tally down. Consumer-side, peek
// mode only; the exact inverse of commitRead.
func (b *Buffer) retreatRead(m *mark, n int64) {
	rp := b.readPos.Load()
	b.readPos.Store(((rp-n)%b.capacity + b.capacity) % b.capacity)
	b.freeSpace.Add(-n)
	m.spent.Add(-n)
}
