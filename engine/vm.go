package engine

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// HookFunc is triggered before the VM executes each instruction. Unlike the
// teacher's io.Writer-targeted DebugHookFn, this engine logs through an
// hclog.Logger (§1 ambient stack), since every other part of a program
// built from this corpus reaches for structured logging rather than a bare
// writer.
type HookFunc func(sig Signature, pc int, instr Instruction)

// DebugHookFn returns a hook that emits one debug-level log line per
// executed instruction, named after the predicate and PC it belongs to —
// generalizing the teacher's DebugHookFn from io.Writer to hclog.Logger.
func DebugHookFn(logger hclog.Logger) HookFunc {
	return func(sig Signature, pc int, instr Instruction) {
		logger.Debug("step", "sig", sig.String(), "pc", pc, "instr", instr.String())
	}
}

// Frame is the VM's per-call local state: the predicate currently
// executing, its dense locals array, and its call depth (§3). The operand
// stack is NOT part of Frame — it is shared across the whole call chain,
// one of the two implementations §4.4's Call semantics explicitly
// sanctions ("an equivalent correct implementation passes [arguments] via
// a shared stack").
type Frame struct {
	Sig    Signature
	Locals []Term
	Depth  uint64
}

func (f Frame) clone() Frame {
	locals := make([]Term, len(f.Locals))
	copy(locals, f.Locals)
	return Frame{Sig: f.Sig, Locals: locals, Depth: f.Depth}
}

func (f *Frame) load(idx uint32) Term {
	if int(idx) < len(f.Locals) {
		return f.Locals[idx]
	}
	return nil
}

func (f *Frame) store(idx uint32, t Term) {
	for uint32(len(f.Locals)) <= idx {
		f.Locals = append(f.Locals, nil)
	}
	f.Locals[idx] = t
}

// CallEntry is a saved (frame, return PC) pair, pushed by Call and popped
// by Ret (§3, §4.4).
type CallEntry struct {
	Frame    Frame
	ReturnPC int
}

// Checkpoint is a choice point: everything needed to resume execution at an
// untried alternative (§3, §4.1). Its Subst field is just a pointer — the
// persistent substitution makes that half of the snapshot free; Frame,
// OpStack and CallStack are deep-copied, the slower-but-unambiguously-
// correct option the memory-discipline notes in §5 allow.
type Checkpoint struct {
	Label     Label
	Depth     uint64
	Frame     Frame
	OpStack   []Term
	CallStack []CallEntry
	Subst     *Subst
	ResumePC  int
}

// State is the complete, steppable machine state (§3): operand stack,
// current frame, call stack, choice-point stack, substitution and fresh
// variable counter.
type State struct {
	Frame        Frame
	PC           int
	OpStack      []Term
	CallStack    []CallEntry
	Choicepoints []Checkpoint
	Subst        *Subst
	Vars         varCounter
	Halted       bool
}

func (s *State) push(t Term) { s.OpStack = append(s.OpStack, t) }

func (s *State) pop() (Term, bool) {
	if len(s.OpStack) == 0 {
		return nil, false
	}
	t := s.OpStack[len(s.OpStack)-1]
	s.OpStack = s.OpStack[:len(s.OpStack)-1]
	return t, true
}

// VM executes compiled Programs against a builtin registry (§4.4).
type VM struct {
	Program      *Program
	Builtins     *Registry
	Logger       hclog.Logger
	MaxVariables uint64 // 0 means unbounded
	hook         HookFunc
}

// NewVM returns a VM ready to run prog, with the given builtins. A no-op
// discard logger is installed by default; callers that want structured
// output call SetLogger (mirrors the teacher's NewVM/SetMaxVariables knobs).
func NewVM(prog *Program, builtins *Registry) *VM {
	return &VM{Program: prog, Builtins: builtins, Logger: hclog.NewNullLogger()}
}

// SetMaxVariables caps how many fresh logic variables a Run/Redo may
// allocate before it fails with an ErrTooManyVariables InvariantError. A
// limit of 0 (the default) leaves allocation unbounded.
func (vm *VM) SetMaxVariables(n uint64) { vm.MaxVariables = n }

// SetLogger installs the logger the VM and its hooks report through.
func (vm *VM) SetLogger(logger hclog.Logger) { vm.Logger = logger }

// InstallHook sets the per-instruction hook function (§1 ambient stack).
func (vm *VM) InstallHook(f HookFunc) { vm.hook = f }

// ClearHook removes any installed hook function.
func (vm *VM) ClearHook() { vm.hook = nil }

// NewState returns the initial machine state for invoking entry as a
// top-level goal. A sentinel CallEntry is pushed first so that entry's own
// trailing Ret (every non-main predicate compiles one, §4.3) pops the call
// stack back to empty and triggers Ret's "terminate successfully" path,
// exactly as it would for a nested call returning to its caller — main/0
// instead ends in Halt and never reaches this sentinel.
func NewState(entry Signature) *State {
	return &State{
		Frame:     Frame{Sig: entry},
		PC:        0,
		CallStack: []CallEntry{{Frame: Frame{}, ReturnPC: -1}},
		Subst:     NewSubst(),
	}
}

// Run drives state to completion: success (Halt, or Ret emptying the call
// stack), failure (every choice point exhausted), or ctx cancellation — the
// only supported cancellation granularity (§5), checked once per step.
// It returns (true, nil) on success, (false, nil) on exhaustive failure,
// and (false, err) if ctx was cancelled or an invariant was violated.
func (vm *VM) Run(ctx context.Context, state *State) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		done, ok, err := vm.Step(state)
		if err != nil {
			return false, err
		}
		if done {
			return ok, nil
		}
	}
}

// Redo resumes state at its most recently pushed choice point and searches
// for the next solution (§4.1) — the operation a caller wanting more than
// one answer from a top-level goal drives explicitly, since Run itself
// always stops at the first solution or exhaustive failure.
func (vm *VM) Redo(ctx context.Context, state *State) (bool, error) {
	done, ok, err := vm.backtrack(state)
	if err != nil {
		return false, err
	}
	if done {
		return ok, nil
	}
	state.Halted = false
	return vm.Run(ctx, state)
}

// Step executes exactly one instruction (or, on failure, one backtrack) and
// reports whether the machine has finished: (done=true, ok) once it has
// halted, returned to an empty call stack, or exhausted its choice points.
func (vm *VM) Step(state *State) (done bool, ok bool, err error) {
	if state.Halted {
		return true, true, nil
	}

	text := vm.Program.Text[state.Frame.Sig]
	if state.PC < 0 || state.PC >= len(text) {
		return false, false, badJumpOffsetError(state.Frame.Sig, state.PC)
	}

	idx := state.PC
	instr := text[idx]
	state.PC = idx + 1

	if vm.hook != nil {
		vm.hook(state.Frame.Sig, idx, instr)
	}

	switch instr.Op {
	case OpPushValue:
		state.push(instr.Value)

	case OpPop:
		if _, okPop := state.pop(); !okPop {
			return false, false, stackUnderflowError(state.Frame.Sig, idx)
		}

	case OpDup:
		top, okPop := state.pop()
		if !okPop {
			return false, false, stackUnderflowError(state.Frame.Sig, idx)
		}
		state.push(top)
		state.push(top)

	case OpFresh:
		if vm.MaxVariables != 0 && state.Vars.count() >= vm.MaxVariables {
			return false, false, tooManyVariablesError(state.Frame.Sig, idx)
		}
		state.push(state.Vars.fresh())

	case OpLoad:
		state.push(state.Frame.load(instr.Index))

	case OpStore:
		top, okPop := state.pop()
		if !okPop {
			return false, false, stackUnderflowError(state.Frame.Sig, idx)
		}
		state.Frame.store(instr.Index, top)

	case OpConstruct:
		args := make([]Term, instr.Arity)
		for i := int(instr.Arity) - 1; i >= 0; i-- {
			top, okPop := state.pop()
			if !okPop {
				return false, false, stackUnderflowError(state.Frame.Sig, idx)
			}
			args[i] = top
		}
		if instr.Arity == 0 {
			state.push(instr.Functor)
		} else {
			state.push(NewCompound(instr.Functor, args...))
		}

	case OpUnify:
		y, okY := state.pop()
		x, okX := state.pop()
		if !okX || !okY {
			return false, false, stackUnderflowError(state.Frame.Sig, idx)
		}
		next, unified := state.Subst.Union(x, y)
		state.Subst = next
		if !unified {
			return vm.backtrack(state)
		}

	case OpMkCheckpoint:
		state.Choicepoints = append(state.Choicepoints, Checkpoint{
			Label:     instr.Label,
			Depth:     state.Frame.Depth,
			Frame:     state.Frame.clone(),
			OpStack:   cloneStack(state.OpStack),
			CallStack: cloneCallStack(state.CallStack),
			Subst:     state.Subst,
			ResumePC:  idx + int(instr.Offset),
		})

	case OpJump:
		state.PC = idx + int(instr.Offset)

	case OpCall:
		return vm.call(state, idx, instr)

	case OpDet:
		cutChoicepoints(state, instr.Label, false)

	case OpDetUntil:
		cutChoicepoints(state, instr.Label, true)

	case OpFail:
		return vm.backtrack(state)

	case OpRet:
		entry, rest, okPop := popCallEntry(state.CallStack)
		if !okPop {
			return false, false, emptyCallStackError(state.Frame.Sig, idx)
		}
		state.CallStack = rest
		state.Frame = entry.Frame
		state.PC = entry.ReturnPC
		if len(rest) == 0 {
			return true, true, nil
		}

	case OpHalt:
		state.Halted = true
		return true, true, nil

	default:
		return false, false, badJumpOffsetError(state.Frame.Sig, idx)
	}

	return false, false, nil
}

// call implements Call(sig): push (frame, return pc) for a user predicate
// and transfer into its text, or invoke a host builtin directly (§4.4,
// §6). Builtins run synchronously and either succeed (falling through to
// the next instruction) or fail (triggering a backtrack) — they do not get
// their own frame or choice points of their own accord.
func (vm *VM) call(state *State, idx int, instr Instruction) (bool, bool, error) {
	sig := instr.Sig
	if sys, isSys := sig.Ident.(SystemPred); isSys {
		fn, registered := vm.Builtins.Lookup(SystemPred{Name: sys.Name, Arity: sys.Arity})
		if !registered {
			return false, false, missingBuiltinError(sig, idx)
		}
		// Call's argument-pushing convention puts Args[0] on top (§4.3
		// compileCall pushes right-to-left so parameter 0 meets argument 0
		// first) — so the first pop is Args[0], not Args[last].
		args := make([]Term, sig.Arity)
		for i := 0; i < sig.Arity; i++ {
			top, okPop := state.pop()
			if !okPop {
				return false, false, stackUnderflowError(state.Frame.Sig, idx)
			}
			args[i] = top
		}
		if !fn(args, state) {
			return vm.backtrack(state)
		}
		return false, false, nil
	}

	if _, defined := vm.Program.Text[sig]; !defined {
		return false, false, missingPredicateError(sig, idx)
	}

	state.CallStack = append(state.CallStack, CallEntry{Frame: state.Frame, ReturnPC: state.PC})
	state.Frame = Frame{Sig: sig, Depth: state.Frame.Depth + 1}
	state.PC = 0
	return false, false, nil
}

// backtrack pops the most recent choice point and resumes there, or
// reports exhaustive failure if none remain (§4.1, §4.4).
func (vm *VM) backtrack(state *State) (bool, bool, error) {
	if len(state.Choicepoints) == 0 {
		return true, false, nil
	}
	last := len(state.Choicepoints) - 1
	cp := state.Choicepoints[last]
	state.Choicepoints = state.Choicepoints[:last]

	state.Frame = cp.Frame
	state.OpStack = cp.OpStack
	state.CallStack = cp.CallStack
	state.Subst = cp.Subst
	state.PC = cp.ResumePC
	return false, false, nil
}

// cutChoicepoints implements Det(L)/DetUntil(L): pop every choice point
// above the one created by the MkCheckpoint(L) that opened the current
// soft-cut scope, regardless of what those intervening choice points'
// own labels are — they are alternatives explored while evaluating `cond`,
// and committing to cond's first solution means discarding all of them.
// The scope boundary is identified by (label, frame depth) together, since
// a recursive predicate re-enters the same bytecode — and so the same
// label constants — at a deeper frame depth each time (§4.4). includeMarker
// additionally removes the boundary checkpoint itself (DetUntil).
func cutChoicepoints(state *State, label Label, includeMarker bool) {
	cps := state.Choicepoints
	i := len(cps)
	for i > 0 {
		top := cps[i-1]
		if top.Label == label && top.Depth == state.Frame.Depth {
			break
		}
		i--
	}
	if includeMarker && i > 0 {
		i--
	}
	state.Choicepoints = cps[:i]
}

func popCallEntry(stack []CallEntry) (CallEntry, []CallEntry, bool) {
	if len(stack) == 0 {
		return CallEntry{}, stack, false
	}
	last := len(stack) - 1
	return stack[last], stack[:last], true
}

func cloneStack(s []Term) []Term {
	out := make([]Term, len(s))
	copy(out, s)
	return out
}

func cloneCallStack(s []CallEntry) []CallEntry {
	out := make([]CallEntry, len(s))
	copy(out, s)
	return out
}
