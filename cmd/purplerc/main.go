// Command purplerc is a diagnostic driver for the rc package: it builds a
// small cyclic object graph, drops the external handles, and shows that
// CollectCycles reclaims what plain reference counting alone could not.
// The package itself has no CLI, wire format, or persisted state (spec
// §6) — this binary exists purely to exercise it end to end.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"purplerc/pkg/rc"
)

// ringNode is a minimal Trace-able payload: a node in a singly-linked ring,
// the same shape as the upstream crate's cyclical_list.rs example.
type ringNode struct {
	name string
	next *rc.Strong[*ringNode]
}

func (n *ringNode) Trace(visit rc.Tracer) {
	if n.next != nil {
		visit(n.next.AsNode())
	}
}

func (n *ringNode) Drop() {
	fmt.Printf("dropping ring node %q\n", n.name)
}

func newRoot() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "purplerc",
		Short: "Demonstrates the rc cycle-collecting smart pointer",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log collector phase transitions")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			rc.SetLogLevel(logrus.DebugLevel)
		}
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newStatsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Build a self-referential cycle and collect it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := rc.New(&ringNode{name: "a"})
			b := rc.New(&ringNode{name: "b"})

			aRef := a.Clone()
			bRef := b.Clone()
			(*a.Get()).next = &bRef
			(*b.Get()).next = &aRef

			fmt.Println("dropping external handles to a and b")
			a.Release()
			b.Release()

			fmt.Printf("roots buffered before collection: %d\n", rc.NumberOfRootsBuffered())
			rc.CollectCycles()
			fmt.Printf("roots buffered after collection: %d\n", rc.NumberOfRootsBuffered())
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the calling goroutine's buffered-root count",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("roots buffered: %d\n", rc.NumberOfRootsBuffered())
			return nil
		},
	}
}

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
