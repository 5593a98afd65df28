// Package control
// Author: velesov <velesov.dev@gmail.com>
//
// Runtime introspection primitives: dynamic config with reload listeners,
// a metrics registry, named debug probes, and a bounded diagnostic journal
// of ring state transitions. Everything here is off the hot path; rings
// never call into this package.
package control
