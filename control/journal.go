// File: control/journal.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Bounded diagnostic journal of ring state transitions. Strictly off the
// hot path: callers record snapshots after operations complete; the ring
// itself never journals.

package control

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/velesov/ringstream/api"
)

// DefaultJournalDepth bounds a journal constructed without an explicit
// depth.
const DefaultJournalDepth = 256

// JournalEntry is one recorded transition.
type JournalEntry struct {
	Seq   uint64
	Time  time.Time
	Op    string
	State api.RingState
}

// Journal retains the most recent ring state transitions up to a fixed
// depth, oldest evicted first. Safe for concurrent use.
type Journal struct {
	mu    sync.Mutex
	q     *queue.Queue
	depth int
	seq   uint64
}

// NewJournal creates a journal bounded to depth entries; depth < 1 selects
// DefaultJournalDepth.
func NewJournal(depth int) *Journal {
	if depth < 1 {
		depth = DefaultJournalDepth
	}
	return &Journal{q: queue.New(), depth: depth}
}

// Record appends a transition, evicting the oldest entries past the depth
// bound.
func (j *Journal) Record(op string, st api.RingState) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	j.q.Add(JournalEntry{Seq: j.seq, Time: time.Now(), Op: op, State: st})
	for j.q.Length() > j.depth {
		j.q.Remove()
	}
}

// Entries returns the retained transitions, oldest first.
func (j *Journal) Entries() []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]JournalEntry, 0, j.q.Length())
	for i := 0; i < j.q.Length(); i++ {
		out = append(out, j.q.Get(i).(JournalEntry))
	}
	return out
}

// Len returns the number of retained entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.q.Length()
}

// Clear drops all retained entries; the sequence counter keeps running.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for j.q.Length() > 0 {
		j.q.Remove()
	}
}
