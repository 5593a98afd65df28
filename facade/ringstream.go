// File: facade/ringstream.go
// Unified facade layer for the ringstream library.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// RingStream aggregates the library's components behind a single facade:
// the storage pool, the control plane (config, metrics, debug probes), the
// diagnostic journal, and a table of named ring sessions. A session is one
// ring wired to a stream.Pipe, registered with a per-session debug probe
// exposing its live state.

package facade

import (
	"fmt"
	"sync"
	"time"

	"github.com/velesov/ringstream/adapters"
	"github.com/velesov/ringstream/api"
	"github.com/velesov/ringstream/control"
	"github.com/velesov/ringstream/core/ring"
	"github.com/velesov/ringstream/pool"
)

// Storage placement policies for session rings.
const (
	PlacementAuto   = "auto"   // pooled storage, mapped where the platform grants it
	PlacementHeap   = "heap"   // plain Go heap, no pooling
	PlacementMapped = "mapped" // pooled storage, same path as auto
)

// Config holds parameters immutable per run. Runtime-mutable settings go
// through the Control interface instead.
type Config struct {
	DefaultCapacity  int    // Ring capacity in bytes for sessions opened without an override
	StoragePlacement string // One of the Placement constants
	EnableMetrics    bool   // Whether session counters feed the metrics registry
	EnableDebug      bool   // Whether per-session state probes are registered
	JournalDepth     int    // Retained journal entries; <1 selects the default depth
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		DefaultCapacity:  64 * 1024,
		StoragePlacement: PlacementAuto,
		EnableMetrics:    true,
		EnableDebug:      true,
		JournalDepth:     control.DefaultJournalDepth,
	}
}

// RingStream is the main facade type. It implements api.GracefulShutdown
// for unified shutdown logic.
type RingStream struct {
	storage api.StoragePool
	control *adapters.ControlAdapter
	journal *control.Journal
	config  *Config

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	started time.Time
}

var _ api.GracefulShutdown = (*RingStream)(nil)

// New constructs a RingStream with the given configuration; nil selects
// DefaultConfig.
func New(cfg *Config) (*RingStream, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.DefaultCapacity < 1 {
		return nil, fmt.Errorf("facade: %w: default capacity %d", api.ErrInvalidCapacity, cfg.DefaultCapacity)
	}
	switch cfg.StoragePlacement {
	case PlacementAuto, PlacementHeap, PlacementMapped:
	default:
		return nil, fmt.Errorf("facade: unknown storage placement %q", cfg.StoragePlacement)
	}

	r := &RingStream{
		storage:  pool.NewManager(),
		control:  adapters.NewControlAdapter(),
		journal:  control.NewJournal(cfg.JournalDepth),
		config:   cfg,
		sessions: make(map[string]*Session),
		started:  time.Now(),
	}
	_ = r.control.SetConfig(map[string]any{
		"default_capacity":  cfg.DefaultCapacity,
		"storage_placement": cfg.StoragePlacement,
		"journal_depth":     cfg.JournalDepth,
	})
	if cfg.EnableDebug {
		r.control.RegisterDebugProbe("pool.stats", func() any {
			return r.storage.Stats()
		})
		r.control.RegisterDebugProbe("sessions.count", func() any {
			return r.Sessions()
		})
	}
	return r, nil
}

// newRing builds a session ring per the configured placement.
func (r *RingStream) newRing(capacity int) (api.Ring, error) {
	if r.config.StoragePlacement == PlacementHeap {
		return ring.New(capacity)
	}
	st, err := r.storage.Get(capacity)
	if err != nil {
		return nil, err
	}
	rb, err := ring.NewWithStorage(st)
	if err != nil {
		st.Release()
		return nil, err
	}
	return rb, nil
}

// Sessions returns the number of open sessions.
func (r *RingStream) Sessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Control returns the dynamic config, metrics, and probe interface.
func (r *RingStream) Control() api.Control {
	return r.control
}

// Journal returns the diagnostic journal of session transitions.
func (r *RingStream) Journal() *control.Journal {
	return r.journal
}

// Info exposes descriptive runtime info for external tools.
func (r *RingStream) Info() api.ServiceInfo {
	return api.ServiceInfo{
		Name:      "ringstream",
		Version:   Version,
		StartedAt: r.started,
	}
}

// Shutdown closes every open session and marks the facade closed. Further
// Open calls fail with api.ErrClosed. Implements api.GracefulShutdown.
func (r *RingStream) Shutdown() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	open := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		open = append(open, s)
	}
	r.mu.Unlock()

	var first error
	for _, s := range open {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Version is the library release identifier.
const Version = "1.0.0"
