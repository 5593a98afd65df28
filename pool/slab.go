// File: pool/slab.go
// Package pool: per-size-class slab pools.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync/atomic"

	"github.com/velesov/ringstream/api"
)

// freeListDepth bounds how many idle slabs a class retains. Overflow goes
// back to the OS or the GC.
const freeListDepth = 64

// slabPool recycles slabs of one size class through a bounded free list.
type slabPool struct {
	class int
	free  chan *region

	alloc    atomic.Int64
	freed    atomic.Int64
	recycled atomic.Int64
	inUse    atomic.Int64
	mapped   atomic.Int64
}

func newSlabPool(class int) *slabPool {
	return &slabPool{
		class: class,
		free:  make(chan *region, freeListDepth),
	}
}

// get returns a region of exactly size bytes, size <= class. Reuses an idle
// slab when one is available.
func (p *slabPool) get(size int) *region {
	select {
	case r := <-p.free:
		r.data = r.slab[:size]
		r.released.Store(false)
		p.recycled.Add(1)
		p.inUse.Add(1)
		return r
	default:
	}
	slab, kind := allocSlab(p.class)
	p.alloc.Add(1)
	p.inUse.Add(1)
	if kind == api.StorageMapped {
		p.mapped.Add(1)
	}
	return &region{data: slab[:size], slab: slab, kind: kind, owner: p}
}

// put recycles a region; when the free list is full the slab goes back to
// the OS.
func (p *slabPool) put(r *region) {
	p.inUse.Add(-1)
	select {
	case p.free <- r:
	default:
		p.freed.Add(1)
		if r.kind == api.StorageMapped {
			p.mapped.Add(-1)
		}
		_ = freeSlab(r.slab, r.kind)
	}
}

func (p *slabPool) stats() api.StoragePoolStats {
	return api.StoragePoolStats{
		TotalAlloc: p.alloc.Load(),
		TotalFree:  p.freed.Load(),
		Recycled:   p.recycled.Load(),
		InUse:      p.inUse.Load(),
		Mapped:     p.mapped.Load(),
	}
}
