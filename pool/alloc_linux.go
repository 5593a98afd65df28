// File: pool/alloc_linux.go
//go:build linux

// Package pool: Linux slab allocation via anonymous mmap.
//
// Slabs of 2 MiB and above first attempt MAP_HUGETLB; smaller slabs and
// hugepage-starved hosts fall back to plain private mappings, then to the
// Go heap if the kernel refuses to map at all.
//
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package pool

import (
	"golang.org/x/sys/unix"

	"github.com/velesov/ringstream/api"
)

const hugePageSize = 2 << 20

// allocSlab maps or allocates exactly size usable bytes.
func allocSlab(size int) ([]byte, api.StorageKind) {
	if size >= hugePageSize {
		rounded := (size + hugePageSize - 1) &^ (hugePageSize - 1)
		data, err := unix.Mmap(-1, 0, rounded,
			unix.PROT_READ|unix.PROT_WRITE,
			unix.MAP_ANONYMOUS|unix.MAP_PRIVATE|unix.MAP_HUGETLB)
		if err == nil {
			return data, api.StorageMapped
		}
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANONYMOUS|unix.MAP_PRIVATE)
	if err == nil {
		return data, api.StorageMapped
	}
	return make([]byte, size), api.StorageHeap
}

// freeSlab returns mapped memory to the OS. Heap slabs are left to the GC.
func freeSlab(slab []byte, kind api.StorageKind) error {
	if kind != api.StorageMapped {
		return nil
	}
	return unix.Munmap(slab)
}
