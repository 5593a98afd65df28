// File: api/errors.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Error kinds shared across the ringstream library.

package api

import "fmt"

// Error kinds reported by ring and pool operations. Backpressure is not an
// error: Write and Read return clamped byte counts (zero included) and the
// caller owns the retry policy. These kinds mark structural misuse of the
// protocol or resource failures.
var (
	ErrInsufficientData = fmt.Errorf("insufficient buffered data")
	ErrNoActiveMark     = fmt.Errorf("no active mark")
	ErrExceedsMark      = fmt.Errorf("request exceeds saved mark")
	ErrExceedsAvailable = fmt.Errorf("request exceeds available data")
	ErrNegativeCount    = fmt.Errorf("negative byte count")
	ErrInvalidCapacity  = fmt.Errorf("invalid capacity")
	ErrStorageExhausted = fmt.Errorf("storage pool exhausted")
	ErrClosed           = fmt.Errorf("closed")
)

// LimitError reports a request that crossed an operation's bound, carrying
// the bound so callers can retry with the permitted maximum.
type LimitError struct {
	Op        string
	Kind      error
	Requested int
	Limit     int
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %v: requested %d, limit %d", e.Op, e.Kind, e.Requested, e.Limit)
}

// Unwrap exposes the kind sentinel so errors.Is matches it.
func (e *LimitError) Unwrap() error { return e.Kind }

// NewLimitError creates a bounded-operation failure.
func NewLimitError(op string, kind error, requested, limit int) *LimitError {
	return &LimitError{Op: op, Kind: kind, Requested: requested, Limit: limit}
}
