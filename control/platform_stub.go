//go:build !linux && !windows

// File: control/platform_stub.go
// Author: velesov <velesov.dev@gmail.com>
//
// Fallback debug probes for platforms without specific integrations.

package control

import "runtime"

// RegisterPlatformProbes sets generic debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
