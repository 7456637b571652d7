package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maemre/cadmium/ast"
	"github.com/maemre/cadmium/engine"
	"github.com/maemre/cadmium/parser"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read one or more '.'-terminated statements from stdin and run each",
		Long: "An intentionally minimal statement loop: no line editing, no history " +
			"file (§6 names these as the interactive REPL's job, out of scope here). " +
			"Each statement is wrapped in a synthetic main/0, compiled, and run; " +
			"the resulting bindings of the statement's own variables are printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(cmd, os.Stdin)
			return nil
		},
	}
}

func runRepl(cmd *cobra.Command, in *os.File) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteByte('\n')

		trimmed := strings.TrimSpace(buf.String())
		if !strings.HasSuffix(trimmed, ".") {
			continue
		}

		if err := runStatement(cmd, trimmed); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		buf.Reset()
	}
}

// runStatement wraps goal in a throwaway main/0, compiles it, runs it to
// its first solution, and prints the bindings of every variable goal
// itself mentions (§6: "prints each local-to-value mapping"). A parse
// error here only discards this statement's buffer — the caller's loop
// continues reading (§6).
func runStatement(cmd *cobra.Command, goal string) error {
	body := strings.TrimSuffix(goal, ".")
	src := fmt.Sprintf("main :- %s.", body)

	parsed, err := parser.Parse(src)
	if err != nil {
		return err
	}
	if err := dumpBytecodeIfRequested(cmd, src); err != nil {
		return err
	}

	in := newInterpreter(cmd, "cadmium.repl")
	vm, state, err := in.Solve(src)
	if err != nil {
		return err
	}

	ok, err := vm.Run(context.Background(), state)
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("false.")
		return nil
	}

	printBindings(cmd, parsed.Defs[0].Body, state)
	return nil
}

func printBindings(cmd *cobra.Command, goal ast.Stmt[string], state *engine.State) {
	order := ast.VariableOrder(goal)
	if len(order) == 0 {
		cmd.Println("true.")
		return
	}

	names := make([]string, 0, len(order))
	for name := range order {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		idx := order[name]
		var term engine.Term
		if idx < len(state.Frame.Locals) {
			term = state.Frame.Locals[idx]
		}
		resolved := state.Subst.Find(term)
		cmd.Printf("%s = %s\n", name, engine.WriteTermString(resolved))
	}
}
