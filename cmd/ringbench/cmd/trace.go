// File: cmd/ringbench/cmd/trace.go
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0
//
// Walk the speculative read protocol step by step, journaling every
// transition, then print the journal and the final validation verdict.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/velesov/ringstream/control"
	"github.com/velesov/ringstream/core/ring"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Run a scripted mark/peek/restore exchange and print the journal",
	RunE:  runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
}

func runTrace(_ *cobra.Command, _ []string) error {
	rb, err := ring.New(16)
	if err != nil {
		return err
	}
	journal := control.NewJournal(64)
	step := func(op string) { journal.Record(op, rb.State()) }

	rb.Write([]byte("0123456789"))
	step("write 10")

	rb.SaveMark()
	step("save mark")

	peeked := make([]byte, 4)
	if _, err := rb.Peek(peeked); err != nil {
		return err
	}
	step(fmt.Sprintf("peek %q", peeked))

	buf := make([]byte, 4)
	rb.Read(buf)
	step(fmt.Sprintf("read %q", buf))
	rb.Read(buf)
	step(fmt.Sprintf("read %q", buf))

	rb.Write([]byte("AB"))
	step("write 2 past mark")

	if err := rb.Restore(); err != nil {
		return err
	}
	step("restore")

	out := make([]byte, 12)
	n := rb.Read(out)
	step(fmt.Sprintf("read %q", out[:n]))

	for _, e := range journal.Entries() {
		fmt.Printf("%3d %-22s %v\n", e.Seq, e.Op, e.State)
	}
	if err := rb.ValidateState(); err != nil {
		return fmt.Errorf("trace: final state invalid: %w", err)
	}
	fmt.Println("final state valid")
	return nil
}
