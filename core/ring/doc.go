// Package ring
// Author: velesov <velesov.dev@gmail.com>
//
// Lock-free single-producer/single-consumer circular byte buffer with
// speculative reading.
//
// One goroutine writes, one goroutine reads; no operation blocks, spins, or
// takes a lock. The consumer may pin its position with SaveMark, read ahead
// to inspect data, and either commit the consumption (ClearMark) or roll it
// back (Restore). Free space is kept in an explicit counter cross-checked
// against the cursors rather than derived from them, so a full buffer and
// an empty buffer are never confused and a capacity-sized write into an
// empty buffer succeeds.
//
// Backpressure is not an error: Write and Read clamp to the room available
// and report the byte count actually moved, zero included. Retry policy
// belongs to the caller.
package ring
