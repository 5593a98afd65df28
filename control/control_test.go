// File: control/control_test.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package control

import (
	"fmt"
	"sync"
	"testing"

	"github.com/velesov/ringstream/api"
)

func TestConfigStoreSnapshotAndMerge(t *testing.T) {
	cs := NewConfigStore()
	cs.SetConfig(map[string]any{"a": 1, "b": "two"})
	cs.SetConfig(map[string]any{"b": "three"})

	snap := cs.GetSnapshot()
	if snap["a"] != 1 || snap["b"] != "three" {
		t.Errorf("snapshot: %v", snap)
	}
	// Snapshot is a copy.
	snap["a"] = 99
	if cs.GetSnapshot()["a"] != 1 {
		t.Error("snapshot aliases the store")
	}
}

func TestConfigStoreReloadListeners(t *testing.T) {
	cs := NewConfigStore()
	calls := 0
	cs.OnReload(func() { calls++ })
	cs.OnReload(func() { calls += 10 })

	cs.SetConfig(map[string]any{"k": "v"})
	if calls != 11 {
		t.Errorf("listener calls = %d, want 11", calls)
	}
}

func TestMetricsRegistry(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Set("gauge", 3.14)
	mr.Inc("count", 2)
	mr.Inc("count", 3)

	snap := mr.GetSnapshot()
	if snap["gauge"] != 3.14 {
		t.Errorf("gauge: %v", snap["gauge"])
	}
	if snap["count"] != int64(5) {
		t.Errorf("count: %v", snap["count"])
	}
	if mr.UpdatedAt().IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("answer", func() any { return 42 })

	if out := dp.DumpState(); out["answer"] != 42 {
		t.Errorf("dump: %v", out)
	}
	dp.RemoveProbe("answer")
	if out := dp.DumpState(); len(out) != 0 {
		t.Errorf("dump after remove: %v", out)
	}
}

func TestJournalBounding(t *testing.T) {
	j := NewJournal(4)
	for i := 0; i < 10; i++ {
		j.Record(fmt.Sprintf("op%d", i), api.RingState{Capacity: i})
	}
	if j.Len() != 4 {
		t.Fatalf("Len = %d, want 4", j.Len())
	}
	entries := j.Entries()
	if entries[0].Op != "op6" || entries[3].Op != "op9" {
		t.Errorf("retained window: %v .. %v", entries[0].Op, entries[3].Op)
	}
	// Sequence numbers keep counting across evictions.
	if entries[3].Seq != 10 {
		t.Errorf("Seq = %d, want 10", entries[3].Seq)
	}

	j.Clear()
	if j.Len() != 0 {
		t.Errorf("Len after Clear = %d", j.Len())
	}
	j.Record("post-clear", api.RingState{})
	if got := j.Entries()[0].Seq; got != 11 {
		t.Errorf("Seq after Clear = %d, want 11", got)
	}
}

func TestJournalDefaultDepth(t *testing.T) {
	j := NewJournal(0)
	for i := 0; i < DefaultJournalDepth+50; i++ {
		j.Record("op", api.RingState{})
	}
	if j.Len() != DefaultJournalDepth {
		t.Errorf("Len = %d, want %d", j.Len(), DefaultJournalDepth)
	}
}

func TestJournalConcurrentRecord(t *testing.T) {
	j := NewJournal(64)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				j.Record("op", api.RingState{})
			}
		}()
	}
	wg.Wait()
	if j.Len() != 64 {
		t.Errorf("Len = %d, want 64", j.Len())
	}
}
