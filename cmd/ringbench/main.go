// File: cmd/ringbench/main.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package main

import "github.com/velesov/ringstream/cmd/ringbench/cmd"

func main() {
	cmd.Execute()
}
