// Command cadmium is the collaborator CLI for the cadmium engine: a thin
// cobra.Command tree wrapping cadmium.Interpreter, grounded on the
// teacher's examples/initialization usage and on the nomad-style cobra
// command layout in this pack (§6 expansion).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cadmium",
		Short:         "Run and explore cadmium logic programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().Uint64("max-variables", 0, "cap fresh logic variable allocation per run (0 = unbounded)")
	root.PersistentFlags().Bool("debug", false, "log every VM instruction executed")
	root.PersistentFlags().Bool("dump-bytecode", false, "print the compiled bytecode before running")

	root.AddCommand(newRunCmd(), newReplCmd())
	return root
}
