// File: pool/manager.go
// Package pool: size-class routing.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package pool

import (
	"fmt"
	"sync"

	"github.com/velesov/ringstream/api"
)

// Power-of-two slab size classes (bytes). Tuned to typical ring capacities;
// requests above the largest class are served as one-shot allocations that
// bypass the free lists.
var sizeClasses = [...]int{
	4 * 1024,
	8 * 1024,
	16 * 1024,
	32 * 1024,
	64 * 1024,
	128 * 1024,
	256 * 1024,
	512 * 1024,
	1024 * 1024,
}

// sizeClassUpperBound returns the smallest class >= size, or 0 when the
// request exceeds every class.
func sizeClassUpperBound(size int) int {
	for _, c := range sizeClasses {
		if size <= c {
			return c
		}
	}
	return 0
}

// Manager routes storage requests to their size-class pools. Safe for
// concurrent use.
type Manager struct {
	mu    sync.RWMutex
	class map[int]*slabPool
}

var _ api.StoragePool = (*Manager)(nil)

// NewManager creates a manager with empty class pools; pools are allocated
// lazily on first request.
func NewManager() *Manager {
	return &Manager{class: make(map[int]*slabPool)}
}

// Get returns a storage region of exactly size bytes.
func (m *Manager) Get(size int) (api.Storage, error) {
	if size < 1 {
		return nil, fmt.Errorf("pool: %w: %d", api.ErrInvalidCapacity, size)
	}
	clz := sizeClassUpperBound(size)
	if clz == 0 {
		// Oversize one-shot: allocated exactly, never recycled.
		slab, kind := allocSlab(size)
		return &region{data: slab[:size], slab: slab, kind: kind}, nil
	}
	return m.getOrCreatePool(clz).get(size), nil
}

// Put recycles a region previously produced by Get. Regions from other
// origins are ignored.
func (m *Manager) Put(st api.Storage) {
	if r, ok := st.(*region); ok {
		_ = r.Release()
	}
}

// Stats aggregates counters across all class pools.
func (m *Manager) Stats() api.StoragePoolStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out api.StoragePoolStats
	for _, p := range m.class {
		s := p.stats()
		out.TotalAlloc += s.TotalAlloc
		out.TotalFree += s.TotalFree
		out.Recycled += s.Recycled
		out.InUse += s.InUse
		out.Mapped += s.Mapped
	}
	return out
}

// getOrCreatePool returns the pool for a class, lazily allocating on first
// use.
func (m *Manager) getOrCreatePool(class int) *slabPool {
	m.mu.RLock()
	p, ok := m.class[class]
	m.mu.RUnlock()
	if ok {
		return p
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok = m.class[class]; ok {
		return p
	}
	p = newSlabPool(class)
	m.class[class] = p
	return p
}
