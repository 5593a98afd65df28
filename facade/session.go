// File: facade/session.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Named ring sessions: one ring, one pipe, one debug probe.

package facade

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/velesov/ringstream/api"
	"github.com/velesov/ringstream/stream"
)

// Session is one open ring with its pipe ends. The Writer belongs to the
// producing goroutine, the Reader to the consuming one; Ring gives direct
// access to the speculative read protocol for consumers that parse in
// place.
type Session struct {
	ID     string
	Ring   api.Ring
	Reader *stream.Reader
	Writer *stream.Writer

	owner  *RingStream
	opened time.Time
	closed atomic.Bool
}

// Open creates a session with the configured default capacity. An empty id
// gets a generated UUID; a duplicate id is rejected.
func (r *RingStream) Open(id string) (*Session, error) {
	return r.OpenWithCapacity(id, r.config.DefaultCapacity)
}

// OpenWithCapacity creates a session with an explicit ring capacity.
func (r *RingStream) OpenWithCapacity(id string, capacity int) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	rb, err := r.newRing(capacity)
	if err != nil {
		return nil, fmt.Errorf("facade: open %s: %w", id, err)
	}

	s := &Session{
		ID:     id,
		Ring:   rb,
		owner:  r,
		opened: time.Now(),
	}
	s.Reader, s.Writer = stream.Pipe(rb)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		rb.Close()
		return nil, fmt.Errorf("facade: open %s: %w", id, api.ErrClosed)
	}
	if _, dup := r.sessions[id]; dup {
		r.mu.Unlock()
		rb.Close()
		return nil, fmt.Errorf("facade: open: duplicate session id %q", id)
	}
	r.sessions[id] = s
	r.mu.Unlock()

	if r.config.EnableDebug {
		r.control.RegisterDebugProbe("session."+id, func() any {
			return rb.State()
		})
	}
	if r.config.EnableMetrics {
		r.control.IncMetric("sessions.opened", 1)
	}
	r.journal.Record("open:"+id, rb.State())
	return s, nil
}

// Close releases the session: both pipe ends are closed, the probe is
// unregistered, the ring's storage returns to the pool. Idempotent.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	r := s.owner

	s.Writer.Close()
	s.Reader.Close()

	r.mu.Lock()
	delete(r.sessions, s.ID)
	r.mu.Unlock()

	if r.config.EnableDebug {
		r.control.RemoveDebugProbe("session." + s.ID)
	}
	if r.config.EnableMetrics {
		r.control.IncMetric("sessions.closed", 1)
	}
	r.journal.Record("close:"+s.ID, s.Ring.State())
	return s.Ring.Close()
}

// Age reports how long the session has been open.
func (s *Session) Age() time.Duration {
	return time.Since(s.opened)
}
