// File: cmd/ringbench/cmd/bench.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Throughput measurement: pump bytes through one ring for a fixed duration
// and report MB/s.

package cmd

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/velesov/ringstream/core/ring"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure ring throughput for a fixed duration",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().Int("chunk", 4096, "bytes per operation")
	benchCmd.Flags().Duration("duration", 3*time.Second, "measurement window")
	_ = viper.BindPFlag("bench.chunk", benchCmd.Flags().Lookup("chunk"))
	_ = viper.BindPFlag("bench.duration", benchCmd.Flags().Lookup("duration"))
	rootCmd.AddCommand(benchCmd)
}

func runBench(_ *cobra.Command, _ []string) error {
	capacity := viper.GetInt("capacity")
	chunk := viper.GetInt("bench.chunk")
	window := viper.GetDuration("bench.duration")
	if chunk > capacity {
		return fmt.Errorf("bench: chunk %d exceeds capacity %d", chunk, capacity)
	}

	rb, err := ring.New(capacity)
	if err != nil {
		return err
	}

	var stop atomic.Bool
	var total atomic.Int64

	go func() {
		src := make([]byte, chunk)
		for !stop.Load() {
			if rb.Write(src) == 0 {
				runtime.Gosched()
			}
		}
	}()

	go func() {
		dst := make([]byte, chunk)
		for !stop.Load() {
			n := rb.Read(dst)
			if n == 0 {
				runtime.Gosched()
				continue
			}
			total.Add(int64(n))
		}
	}()

	time.Sleep(window)
	stop.Store(true)

	mb := float64(total.Load()) / (1 << 20)
	fmt.Printf("bench: %.1f MB in %v = %.1f MB/s (capacity %d, chunk %d)\n",
		mb, window, mb/window.Seconds(), capacity, chunk)
	return nil
}
