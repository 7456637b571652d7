// Package cadmium is the outer facade wiring together the surface parser,
// the AST lowering pipeline (§4.2), the bytecode compiler (§4.3), and the
// choice-point-stack VM (§5) into the single entry point a caller actually
// wants: load a program, run it, read back what it printed. Grounded on
// the shape of the teacher's own top-level usage (examples/initialization
// uses a `prolog.New(logger, out).Exec(src)` pair) even though the
// teacher's own root-level file was not present in the retrieved pack.
package cadmium

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/maemre/cadmium/ast"
	"github.com/maemre/cadmium/engine"
	"github.com/maemre/cadmium/parser"
)

// Interpreter holds everything needed to load and run programs: a builtin
// registry bound to an output sink, and an optional hook for tracing VM
// steps (§5's debug-hook collaborator, generalized from the teacher's
// HookFunc to hclog.Logger-based debug output in engine.DebugHookFn).
type Interpreter struct {
	registry     *engine.Registry
	logger       hclog.Logger
	maxVariables uint64
	debug        bool
}

// New returns an Interpreter whose builtins write to out. A nil logger
// installs hclog's default no-op logger, matching the teacher's
// nil-means-silent convention.
func New(logger hclog.Logger, out io.Writer) *Interpreter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interpreter{registry: engine.NewStandardRegistry(out), logger: logger}
}

// SetMaxVariables caps fresh-variable allocation per run (§1 ambient stack;
// cmd/cadmium's --max-variables flag). 0 leaves it unbounded.
func (in *Interpreter) SetMaxVariables(n uint64) { in.maxVariables = n }

// SetDebug toggles per-instruction step logging via engine.DebugHookFn
// (cmd/cadmium's --debug flag).
func (in *Interpreter) SetDebug(on bool) { in.debug = on }

// Load runs the full front end on src — parse, ConsolidateDefs,
// UnderscoreElim, EnumerateVariables, IdempotentElim, Compile (§4.2, §4.3)
// — and returns the compiled Program ready to execute.
func Load(src string) (*engine.Program, error) {
	parsed, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return compilePipeline(parsed)
}

func compilePipeline(parsed ast.Program[string]) (*engine.Program, error) {
	consolidated := ast.ConsolidateDefs(parsed)
	deanonymized := ast.UnderscoreElim(consolidated)
	enumerated := ast.EnumerateVariables(deanonymized)
	lowered := ast.IdempotentElim(enumerated)
	return engine.Compile(lowered)
}

// entrySig is the signature every Exec call runs: main/0, the one
// predicate the compiler treats as the program's entry point (§4.3).
var entrySig = engine.UserSig(engine.Atom("main"), 0)

// Exec parses and runs src to its first solution of main/0, matching the
// teacher's one-shot Exec convention. Use Solve directly to drive further
// solutions (§5's backtracking semantics) via repeated Redo.
func (in *Interpreter) Exec(src string) error {
	return in.ExecContext(context.Background(), src)
}

// ExecContext is Exec with an explicit context, cancellable mid-step (§5).
func (in *Interpreter) ExecContext(ctx context.Context, src string) error {
	prog, err := Load(src)
	if err != nil {
		return err
	}
	vm := in.newVM(prog)
	state := engine.NewState(entrySig)
	_, err = vm.Run(ctx, state)
	return err
}

// Solve compiles src and returns a VM and State positioned to run/redo
// main/0, for callers that want to drive the solution sequence themselves
// (e.g. the repl, or a caller enumerating every solution).
func (in *Interpreter) Solve(src string) (*engine.VM, *engine.State, error) {
	prog, err := Load(src)
	if err != nil {
		return nil, nil, err
	}
	vm := in.newVM(prog)
	return vm, engine.NewState(entrySig), nil
}

// DumpBytecode formats every predicate's compiled instruction stream, one
// signature per section, in signature-string order — cmd/cadmium's
// --dump-bytecode flag.
func DumpBytecode(prog *engine.Program) string {
	sigs := make([]engine.Signature, 0, len(prog.Text))
	for sig := range prog.Text {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].String() < sigs[j].String() })

	out := ""
	for _, sig := range sigs {
		out += fmt.Sprintf("%s:\n", sig)
		for pc, instr := range prog.Text[sig] {
			out += fmt.Sprintf("  %4d  %s\n", pc, instr)
		}
	}
	return out
}

func (in *Interpreter) newVM(prog *engine.Program) *engine.VM {
	vm := engine.NewVM(prog, in.registry)
	vm.SetLogger(in.logger)
	vm.SetMaxVariables(in.maxVariables)
	if in.debug {
		vm.InstallHook(engine.DebugHookFn(in.logger))
	}
	return vm
}
