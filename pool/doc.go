// Package pool
// Author: velesov <velesov.dev@gmail.com>
//
// Size-classed storage pooling for ring buffers.
//
// Rings are allocated constantly in stream fan-in/fan-out services; when
// throughput matters their backing storage comes from recycled slabs rather
// than the garbage collector. Requests are routed to power-of-two size
// classes, each class keeping a bounded free list. Slabs are OS-mapped
// where the platform grants it (hugepages for large classes on Linux,
// VirtualAlloc on Windows) with a plain heap fallback everywhere.
package pool
