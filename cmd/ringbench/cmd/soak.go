// File: cmd/ringbench/cmd/soak.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Two-goroutine soak: one writer, one reader, random operation sizes,
// FIFO byte verification, periodic probe reporting.

package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/velesov/ringstream/adapters"
	"github.com/velesov/ringstream/core/ring"
)

var soakCmd = &cobra.Command{
	Use:   "soak",
	Short: "Run a writer/reader FIFO soak against one ring",
	RunE:  runSoak,
}

func init() {
	soakCmd.Flags().Int("ops", 10000, "operations per side")
	soakCmd.Flags().Int("max-chunk", 4096, "largest random operation size")
	soakCmd.Flags().Int64("seed", 0, "random seed (0 selects time-based)")
	_ = viper.BindPFlag("soak.ops", soakCmd.Flags().Lookup("ops"))
	_ = viper.BindPFlag("soak.max-chunk", soakCmd.Flags().Lookup("max-chunk"))
	_ = viper.BindPFlag("soak.seed", soakCmd.Flags().Lookup("seed"))
	rootCmd.AddCommand(soakCmd)
}

// pattern is the deterministic byte stream both sides generate
// independently; any FIFO violation shows up as a mismatch.
func pattern(pos int64) byte { return byte(pos % 251) }

func runSoak(_ *cobra.Command, _ []string) error {
	capacity := viper.GetInt("capacity")
	ops := viper.GetInt("soak.ops")
	maxChunk := viper.GetInt("soak.max-chunk")
	seed := viper.GetInt64("soak.seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rb, err := ring.New(capacity)
	if err != nil {
		return err
	}

	var written, read atomic.Int64
	ctl := adapters.NewControlAdapter()
	ctl.RegisterDebugProbe("ring.state", func() any { return rb.State() })
	ctl.RegisterDebugProbe("bytes.written", func() any { return written.Load() })
	ctl.RegisterDebugProbe("bytes.read", func() any { return read.Load() })

	done := make(chan struct{})
	var wg sync.WaitGroup // the two soak sides
	var reporterWg sync.WaitGroup

	// Reporter, terminates at completion.
	reporterWg.Add(1)
	go func() {
		defer reporterWg.Done()
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-tick.C:
				log.Printf("soak: %v", ctl.Stats()["debug.ring.state"])
			}
		}
	}()

	start := time.Now()

	wg.Add(1)
	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewSource(seed))
		buf := make([]byte, maxChunk)
		var pos int64
		for i := 0; i < ops; i++ {
			n := 1 + rng.Intn(maxChunk)
			for j := 0; j < n; j++ {
				buf[j] = pattern(pos + int64(j))
			}
			w := rb.Write(buf[:n])
			pos += int64(w)
			written.Store(pos)
			if w == 0 {
				runtime.Gosched()
			}
		}
	}()

	var mismatch atomic.Int64
	wg.Add(1)
	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewSource(seed + 1))
		buf := make([]byte, maxChunk)
		var pos int64
		for i := 0; i < ops; i++ {
			n := 1 + rng.Intn(maxChunk)
			r := rb.Read(buf[:n])
			for j := 0; j < r; j++ {
				if buf[j] != pattern(pos+int64(j)) {
					mismatch.Add(1)
				}
			}
			pos += int64(r)
			read.Store(pos)
			if r == 0 {
				runtime.Gosched()
			}
		}
		// Drain what the writer produced after the reader's op budget.
		for read.Load() < written.Load() {
			r := rb.Read(buf)
			for j := 0; j < r; j++ {
				if buf[j] != pattern(read.Load()+int64(j)) {
					mismatch.Add(1)
				}
			}
			read.Add(int64(r))
			if r == 0 {
				runtime.Gosched()
			}
		}
	}()

	wg.Wait()
	close(done)
	reporterWg.Wait()
	elapsed := time.Since(start)

	if err := rb.ValidateState(); err != nil {
		return fmt.Errorf("soak: final state invalid: %w", err)
	}
	if mismatch.Load() > 0 {
		return fmt.Errorf("soak: %d FIFO mismatches", mismatch.Load())
	}
	fmt.Printf("soak ok: %d bytes through capacity %d in %v (seed %d)\n",
		read.Load(), capacity, elapsed.Round(time.Millisecond), seed)
	return nil
}
