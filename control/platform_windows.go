//go:build windows

// File: control/platform_windows.go
// Author: velesov <velesov.dev@gmail.com>
//
// Windows-specific debug probe integrations.

package control

import (
	"runtime"
)

// RegisterPlatformProbes sets Windows-specific debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
