// Package stream
// Author: velesov <velesov.dev@gmail.com>
//
// Producer/consumer plumbing over a ring.
//
// The ring itself never blocks; these adapters bridge it to Go's blocking
// io interfaces by polling with scheduler-yield backoff, and to framed
// protocols through a scanner that drives the ring's speculative read
// protocol: pin, read ahead, verify, then commit or roll back.
package stream
