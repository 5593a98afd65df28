// File: pool/storage.go
// Package pool: storage regions handed to rings.
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync/atomic"

	"github.com/velesov/ringstream/api"
)

// region is the api.Storage implementation handed out by the pool. data is
// the exact span the holder asked for; slab is the full allocation kept for
// recycling and unmapping.
type region struct {
	data     []byte
	slab     []byte
	kind     api.StorageKind
	owner    *slabPool // nil for oversize one-shot allocations
	released atomic.Bool
}

var _ api.Storage = (*region)(nil)

func (r *region) Bytes() []byte { return r.data }

func (r *region) Len() int { return len(r.data) }

func (r *region) Kind() api.StorageKind { return r.kind }

// Release returns the region to its class pool, or unmaps/frees it when it
// was an oversize one-shot. Idempotent; double release is absorbed.
func (r *region) Release() error {
	if !r.released.CompareAndSwap(false, true) {
		return nil
	}
	if r.owner != nil {
		r.owner.put(r)
		return nil
	}
	return freeSlab(r.slab, r.kind)
}
