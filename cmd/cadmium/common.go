package main

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/maemre/cadmium"
)

// newInterpreter builds an Interpreter configured from the command's
// persistent flags: log level/name, max-variables budget, and the debug
// step-trace hook (§1 ambient stack, §6 CLI expansion).
func newInterpreter(cmd *cobra.Command, name string) *cadmium.Interpreter {
	levelStr, _ := cmd.Flags().GetString("log-level")
	maxVars, _ := cmd.Flags().GetUint64("max-variables")
	debug, _ := cmd.Flags().GetBool("debug")

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.LevelFromString(levelStr),
		Output: os.Stderr,
	})

	in := cadmium.New(logger, os.Stdout)
	in.SetMaxVariables(maxVars)
	in.SetDebug(debug)
	return in
}

func dumpBytecodeIfRequested(cmd *cobra.Command, src string) error {
	dump, _ := cmd.Flags().GetBool("dump-bytecode")
	if !dump {
		return nil
	}
	prog, err := cadmium.Load(src)
	if err != nil {
		return err
	}
	cmd.Println(cadmium.DumpBytecode(prog))
	return nil
}
