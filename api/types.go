// File: api/types.go
// Author: velesov <velesov.dev@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import (
	"fmt"
	"time"
)

// RingState is a point-in-time snapshot of a ring's bookkeeping, produced
// for debug probes, journals, and validation. Fields are plain values; the
// snapshot does not stay coherent with the live ring.
type RingState struct {
	Capacity   int
	ReadPos    int
	WritePos   int
	FreeSpace  int
	UsedSpace  int
	InPeekMode bool
	MarkPos    int // valid only when InPeekMode
	MarkFree   int // valid only when InPeekMode
}

func (s RingState) String() string {
	if s.InPeekMode {
		return fmt.Sprintf("ring[cap=%d r=%d w=%d free=%d used=%d mark=(%d,%d)]",
			s.Capacity, s.ReadPos, s.WritePos, s.FreeSpace, s.UsedSpace, s.MarkPos, s.MarkFree)
	}
	return fmt.Sprintf("ring[cap=%d r=%d w=%d free=%d used=%d]",
		s.Capacity, s.ReadPos, s.WritePos, s.FreeSpace, s.UsedSpace)
}

// ServiceInfo exposes descriptive build- and runtime info for external tools.
type ServiceInfo struct {
	Name      string
	Version   string
	StartedAt time.Time
}
