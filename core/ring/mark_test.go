// File: core/ring/mark_test.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Speculative read protocol: mark, restore, rewind, offset.

package ring

import (
	"errors"
	"testing"

	"github.com/velesov/ringstream/api"
)

func TestPeekModeRoundTrip(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789"))

	b.SaveMark()
	if !b.IsInPeekMode() {
		t.Fatal("SaveMark did not enter peek mode")
	}

	buf := make([]byte, 4)
	if n := b.Read(buf); n != 4 || string(buf) != "0123" {
		t.Fatalf("first read: %d %q", n, buf)
	}
	if n := b.Read(buf); n != 4 || string(buf) != "4567" {
		t.Fatalf("second read: %d %q", n, buf)
	}

	if err := b.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if b.IsInPeekMode() {
		t.Error("Restore left peek mode active")
	}
	if b.UsedSpace() != 10 {
		t.Errorf("after restore: used %d, want 10", b.UsedSpace())
	}

	out := make([]byte, 10)
	if n := b.Read(out); n != 10 || string(out) != "0123456789" {
		t.Fatalf("replay read: %d %q", n, out[:n])
	}
}

func TestPeekIdempotenceUnderMark(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789"))
	usedBefore := b.UsedSpace()
	stateBefore := b.State()

	for n := 0; n <= usedBefore; n++ {
		b.SaveMark()
		p := make([]byte, n)
		if _, err := b.Peek(p); err != nil {
			t.Fatalf("Peek(%d): %v", n, err)
		}
		if err := b.Restore(); err != nil {
			t.Fatalf("Restore after Peek(%d): %v", n, err)
		}
		if b.UsedSpace() != usedBefore {
			t.Fatalf("Peek(%d) disturbed used space: %d", n, b.UsedSpace())
		}
		if got := b.State(); got.ReadPos != stateBefore.ReadPos {
			t.Fatalf("Peek(%d) disturbed read cursor: %d", n, got.ReadPos)
		}
	}
}

func TestRestoreAccountsForInterimWrites(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789")) // free 6

	b.SaveMark()
	b.Read(make([]byte, 4)) // free 10
	if n := b.Write([]byte("abcd")); n != 4 {
		t.Fatalf("interim write: %d", n)
	}
	if err := b.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	// 10 original + 4 written since the mark are buffered again; the free
	// space must not overstate the room the writer actually left.
	if b.UsedSpace() != 14 || b.FreeSpace() != 2 {
		t.Errorf("after restore: used %d free %d, want 14/2", b.UsedSpace(), b.FreeSpace())
	}
	checkAccounting(t, b)

	out := make([]byte, 14)
	if n := b.Read(out); n != 14 || string(out) != "0123456789abcd" {
		t.Fatalf("post-restore read: %d %q", n, out[:n])
	}
}

func TestRestoreFloorClampsAtZero(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789"))

	b.SaveMark()
	b.Read(make([]byte, 6))
	// Writer consumes every byte of headroom the reads opened up.
	if n := b.Write([]byte("abcdefghijkl")); n != 12 {
		t.Fatalf("interim write: %d", n)
	}
	if err := b.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if b.FreeSpace() != 0 {
		t.Errorf("restored free space %d, want 0 (no false headroom)", b.FreeSpace())
	}
	if b.UsedSpace() != 16 {
		t.Errorf("restored used space %d, want 16", b.UsedSpace())
	}
}

func TestSaveMarkIsNoOpWhileMarked(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789"))

	b.SaveMark()
	b.Read(make([]byte, 4))
	b.SaveMark() // must keep the original anchor
	b.Read(make([]byte, 2))

	if err := b.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if b.UsedSpace() != 10 {
		t.Errorf("second SaveMark re-anchored: used %d, want 10", b.UsedSpace())
	}
}

func TestRestoreWithoutMark(t *testing.T) {
	b := mustNew(t, 16)
	if err := b.Restore(); !errors.Is(err, api.ErrNoActiveMark) {
		t.Errorf("Restore without mark: %v", err)
	}
}

func TestClearMarkCommits(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789"))

	b.SaveMark()
	b.Read(make([]byte, 4))
	b.ClearMark()

	if b.IsInPeekMode() {
		t.Error("ClearMark left peek mode active")
	}
	if b.UsedSpace() != 6 {
		t.Errorf("ClearMark moved the cursor: used %d, want 6", b.UsedSpace())
	}
	// The consumed span is committed for good.
	if err := b.Restore(); !errors.Is(err, api.ErrNoActiveMark) {
		t.Errorf("Restore after ClearMark: %v", err)
	}
}

func TestRewindBoundedByMark(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789"))

	if _, err := b.Rewind(1); !errors.Is(err, api.ErrNoActiveMark) {
		t.Fatalf("Rewind without mark: %v", err)
	}

	b.SaveMark()
	b.Read(make([]byte, 6))

	if n, err := b.Rewind(2); err != nil || n != 2 {
		t.Fatalf("Rewind: %d %v", n, err)
	}
	buf := make([]byte, 2)
	if n := b.Read(buf); n != 2 || string(buf) != "45" {
		t.Fatalf("read after rewind: %d %q", n, buf)
	}

	// 6 consumed since the mark; rewinding 7 exceeds the bound and the
	// failure carries the permitted maximum.
	_, err := b.Rewind(7)
	if !errors.Is(err, api.ErrExceedsMark) {
		t.Fatalf("oversized rewind: %v", err)
	}
	var le *api.LimitError
	if !errors.As(err, &le) || le.Limit != 6 {
		t.Errorf("rewind limit: %+v", le)
	}
	if _, err := b.Rewind(-1); !errors.Is(err, api.ErrNegativeCount) {
		t.Errorf("negative rewind: %v", err)
	}
	checkAccounting(t, b)
}

func TestOffsetForwardAndBack(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789"))

	if err := b.Offset(0); err != nil {
		t.Fatalf("Offset(0): %v", err)
	}
	if err := b.Offset(11); !errors.Is(err, api.ErrExceedsAvailable) {
		t.Fatalf("oversized forward offset: %v", err)
	}
	if err := b.Offset(-1); !errors.Is(err, api.ErrNoActiveMark) {
		t.Fatalf("backward offset without mark: %v", err)
	}

	if err := b.Offset(4); err != nil {
		t.Fatalf("forward offset: %v", err)
	}
	buf := make([]byte, 1)
	b.Read(buf)
	if buf[0] != '4' {
		t.Fatalf("after forward offset: read %q", buf)
	}

	b.SaveMark()
	if err := b.Offset(3); err != nil {
		t.Fatalf("marked forward offset: %v", err)
	}
	if err := b.Offset(-2); err != nil {
		t.Fatalf("backward offset: %v", err)
	}
	b.Read(buf)
	if buf[0] != '6' {
		t.Fatalf("after backward offset: read %q", buf)
	}
	if err := b.Offset(-10); !errors.Is(err, api.ErrExceedsMark) {
		t.Fatalf("offset past mark: %v", err)
	}
	checkAccounting(t, b)
}

func TestCanOffsetProbesWithoutMutation(t *testing.T) {
	b := mustNew(t, 16)
	b.Write([]byte("0123456789"))

	cases := []struct {
		delta int
		want  bool
	}{
		{0, true},
		{10, true},
		{11, false},
		{-1, false}, // no mark
	}
	for _, c := range cases {
		if got := b.CanOffset(c.delta); got != c.want {
			t.Errorf("CanOffset(%d) = %v, want %v", c.delta, got, c.want)
		}
	}
	if b.UsedSpace() != 10 {
		t.Errorf("CanOffset mutated state: used %d", b.UsedSpace())
	}

	b.SaveMark()
	b.Read(make([]byte, 5))
	if !b.CanOffset(-5) {
		t.Error("CanOffset(-5) under mark should hold")
	}
	if b.CanOffset(-6) {
		t.Error("CanOffset(-6) exceeds the mark distance")
	}
	// The probe and the act must agree.
	if err := b.Offset(-5); err != nil {
		t.Errorf("Offset(-5) after positive probe: %v", err)
	}
}

func TestRewindSurvivesWrap(t *testing.T) {
	b := mustNew(t, 8)
	b.Write([]byte("abcdefgh"))
	b.Read(make([]byte, 6)) // read cursor at 6
	b.Write([]byte("XYZW")) // write wraps

	b.SaveMark()
	buf := make([]byte, 5)
	if n := b.Read(buf); n != 5 || string(buf[:n]) != "ghXYZ" {
		t.Fatalf("wrapped read: %d %q", n, buf[:n])
	}
	// Cursor wrapped past zero; rewind must land back on the mark.
	if n, err := b.Rewind(5); err != nil || n != 5 {
		t.Fatalf("rewind across wrap: %d %v", n, err)
	}
	if n := b.Read(buf); n != 5 || string(buf[:n]) != "ghXYZ" {
		t.Fatalf("replay after wrap rewind: %d %q", n, buf[:n])
	}
	if err := b.ValidateState(); err != nil {
		t.Errorf("ValidateState: %v", err)
	}
}
