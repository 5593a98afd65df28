// File: pool/alloc_windows.go
//go:build windows

// Package pool: Windows slab allocation via VirtualAlloc.
//
// Slabs are committed with VirtualAlloc and returned with VirtualFree,
// falling back to the Go heap when the reservation fails.
//
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package pool

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/velesov/ringstream/api"
)

// allocSlab commits exactly size bytes of page-backed memory.
func allocSlab(size int) ([]byte, api.StorageKind) {
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_RESERVE|windows.MEM_COMMIT,
		windows.PAGE_READWRITE)
	if err != nil || addr == 0 {
		return make([]byte, size), api.StorageHeap
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), api.StorageMapped
}

// freeSlab releases committed memory. Heap slabs are left to the GC.
func freeSlab(slab []byte, kind api.StorageKind) error {
	if kind != api.StorageMapped || len(slab) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&slab[0]))
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
