// File: pool/alloc_stub.go
//go:build !linux && !windows

// Package pool: heap-only slab allocation for platforms without a mapped
// path.
//
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package pool

import "github.com/velesov/ringstream/api"

func allocSlab(size int) ([]byte, api.StorageKind) {
	return make([]byte, size), api.StorageHeap
}

func freeSlab(_ []byte, _ api.StorageKind) error { return nil }
