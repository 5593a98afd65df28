// File: stream/pipe.go
// Package stream: io.Reader/io.Writer pair over one ring.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package stream

import (
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/velesov/ringstream/api"
)

// spinBudget is how many scheduler yields a stalled side performs before
// backing off to a sleep.
const spinBudget = 64

// backoffSleep keeps a stalled pipe side from burning a core while the
// opposite side is slow.
const backoffSleep = 50 * time.Microsecond

// pipeState is shared by the two ends of a pipe. Close flags cross the
// producer/consumer boundary, so they are atomics like the ring's own
// cursors.
type pipeState struct {
	ring    api.Ring
	wclosed atomic.Bool
	rclosed atomic.Bool
}

// Pipe bridges one ring to Go's blocking io interfaces: the Writer is the
// producer side, the Reader the consumer side. Closing the Writer lets the
// Reader drain buffered bytes and then observe io.EOF; closing the Reader
// fails subsequent writes with api.ErrClosed.
func Pipe(ring api.Ring) (*Reader, *Writer) {
	p := &pipeState{ring: ring}
	return &Reader{p: p}, &Writer{p: p}
}

// yield stalls the calling side briefly. attempt counts stalls since the
// last progress.
func yield(attempt int) {
	if attempt < spinBudget {
		runtime.Gosched()
		return
	}
	time.Sleep(backoffSleep)
}

// Writer is the producing end of a Pipe. Single goroutine use.
type Writer struct {
	p *pipeState
}

var _ io.WriteCloser = (*Writer)(nil)
var _ io.ReaderFrom = (*Writer)(nil)

// Write copies all of p into the ring, stalling while the ring is full.
// Returns api.ErrClosed once the reading end is gone, with the count of
// bytes that made it in.
func (w *Writer) Write(p []byte) (int, error) {
	if w.p.wclosed.Load() {
		return 0, api.ErrClosed
	}
	n := 0
	for attempt := 0; n < len(p); {
		if w.p.rclosed.Load() {
			return n, api.ErrClosed
		}
		c := w.p.ring.Write(p[n:])
		if c == 0 {
			attempt++
			yield(attempt)
			continue
		}
		n += c
		attempt = 0
	}
	return n, nil
}

// ReadFrom pumps r into the ring until io.EOF, in ring-capacity chunks.
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, w.p.ring.Capacity())
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Close marks the producing end finished. The reader drains what is
// buffered and then sees io.EOF. Idempotent.
func (w *Writer) Close() error {
	w.p.wclosed.Store(true)
	return nil
}

// Reader is the consuming end of a Pipe. Single goroutine use.
type Reader struct {
	p *pipeState
}

var _ io.ReadCloser = (*Reader)(nil)
var _ io.WriterTo = (*Reader)(nil)

// Read fills p with buffered bytes, stalling while the ring is empty and
// the writer is still open. Returns io.EOF after the writer closed and the
// ring drained.
func (r *Reader) Read(p []byte) (int, error) {
	if r.p.rclosed.Load() {
		return 0, api.ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	for attempt := 0; ; {
		n := r.p.ring.Read(p)
		if n > 0 {
			return n, nil
		}
		// Order matters: check the close flag before concluding the ring
		// is drained, so bytes written right before Close are not lost.
		closed := r.p.wclosed.Load()
		if r.p.ring.UsedSpace() > 0 {
			continue
		}
		if closed {
			return 0, io.EOF
		}
		if r.p.rclosed.Load() {
			return 0, api.ErrClosed
		}
		attempt++
		yield(attempt)
	}
}

// WriteTo drains the ring into w until io.EOF from the producing side.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, r.p.ring.Capacity())
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
			if written < n {
				return total, io.ErrShortWrite
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Close abandons the consuming end; subsequent producer writes fail with
// api.ErrClosed. Buffered bytes are dropped. Idempotent.
func (r *Reader) Close() error {
	r.p.rclosed.Store(true)
	return nil
}
