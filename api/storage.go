// File: api/storage.go
// Author: velesov <velesov.dev@gmail.com>
//
// Storage contracts: backing memory regions for rings, pooled and reused.
//
// Regions may be plain heap slices or OS-mapped memory (hugepages where the
// platform grants them). A ring owns its region exclusively until Release.

package api

// StorageKind identifies how a storage region was allocated.
type StorageKind int

const (
	StorageHeap StorageKind = iota
	StorageMapped
)

func (k StorageKind) String() string {
	switch k {
	case StorageMapped:
		return "mapped"
	default:
		return "heap"
	}
}

// Storage is a fixed memory region backing exactly one ring.
type Storage interface {
	// Bytes returns the full region. The holder owns it exclusively
	// until Release.
	Bytes() []byte

	// Len returns the region size in bytes.
	Len() int

	// Kind reports how the region was allocated.
	Kind() StorageKind

	// Release returns the region to its origin. The region must not be
	// used afterwards.
	Release() error
}

// StoragePool hands out storage regions and recycles them.
type StoragePool interface {
	// Get returns a region of exactly size bytes.
	Get(size int) (Storage, error)

	// Put recycles a region previously produced by Get.
	// The region must not be used afterwards.
	Put(st Storage)

	// Stats exposes allocation and reuse counters for observability.
	Stats() StoragePoolStats
}

// StoragePoolStats aggregates allocation/reuse counters.
type StoragePoolStats struct {
	TotalAlloc int64
	TotalFree  int64
	Recycled   int64
	InUse      int64
	Mapped     int64
}
