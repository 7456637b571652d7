package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Parse, compile, and run a cadmium source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := dumpBytecodeIfRequested(cmd, string(src)); err != nil {
				return err
			}
			return newInterpreter(cmd, "cadmium.run").Exec(string(src))
		},
	}
}
