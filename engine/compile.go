package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/maemre/cadmium/ast"
)

// mainSig is the one signature the compiler treats specially: its
// definition halts the VM on completion instead of returning through a
// call stack (§4.3).
var mainSig = UserSig(Atom("main"), 0)

// Compile lowers an already-transformed program (ConsolidateDefs →
// UnderscoreElim → EnumerateVariables → IdempotentElim have all run, so
// prog carries one PredDef per signature and dense integer locals) into
// flat per-predicate bytecode (§4.3), grounded on the teacher's
// engine/clause.go clause-compilation shape and on
// original_source/src/ir_gen.rs's IRGen.
func Compile(prog ast.Program[int]) (*Program, error) {
	out := NewProgram()
	for _, def := range prog.Defs {
		sig := UserSig(Atom(def.Name), len(def.Params))
		if strings.HasPrefix(string(def.Name), "sys:") {
			return nil, systemPredicateDefinitionError(sig)
		}
		if _, exists := out.Text[sig]; exists {
			return nil, redefinitionError(sig)
		}

		c := &predCompiler{}
		c.compileParams(def.Params)
		if err := c.compileStmt(def.Body); err != nil {
			return nil, err
		}
		if sig == mainSig {
			c.emit(Instruction{Op: OpHalt})
		} else {
			c.emit(Instruction{Op: OpRet})
		}

		out.Text[sig] = c.withLocalsPrologue()
	}
	return out, nil
}

// predCompiler accumulates the instruction stream for a single predicate
// definition (mirrors the teacher's per-clause compiler state, generalized
// to a per-predicate scope since ConsolidateDefs has already merged every
// clause into one body).
type predCompiler struct {
	code   []Instruction
	labels Label
}

func (c *predCompiler) emit(i Instruction) int {
	c.code = append(c.code, i)
	return len(c.code) - 1
}

func (c *predCompiler) newLabel() Label {
	c.labels++
	return c.labels
}

// withLocalsPrologue scans the compiled body for every Load(n) it uses and
// prepends `Fresh; Store(n)` for each distinct n, in ascending index order,
// so every local a predicate's body reads from already holds a fresh
// logic variable the first time it's loaded (§4.3 step 4, grounded on
// IRGen::compile_pred's used_locals scan).
func (c *predCompiler) withLocalsPrologue() []Instruction {
	used := map[uint32]bool{}
	for _, instr := range c.code {
		if instr.Op == OpLoad {
			used[instr.Index] = true
		}
	}
	indices := make([]uint32, 0, len(used))
	for n := range used {
		indices = append(indices, n)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	prologue := make([]Instruction, 0, len(indices)*2+len(c.code))
	for _, n := range indices {
		prologue = append(prologue, Instruction{Op: OpFresh}, Instruction{Op: OpStore, Index: n})
	}
	return append(prologue, c.code...)
}

// compileParams emits the code that unifies each formal parameter
// expression against the argument already sitting on top of the operand
// stack, left-to-right (§4.3 step 1; teacher clause-unification shape,
// grounded on IRGen::compile_params).
func (c *predCompiler) compileParams(params []ast.Expr[int]) {
	for _, p := range params {
		c.compileExpr(p)
		c.emit(Instruction{Op: OpUnify})
	}
}

// compileExpr emits the code that pushes expr's value onto the operand
// stack.
func (c *predCompiler) compileExpr(expr ast.Expr[int]) {
	switch e := expr.(type) {
	case ast.AtomExpr:
		c.emit(Instruction{Op: OpPushValue, Value: Atom(e.Name)})
	case ast.VarExpr[int]:
		c.emit(Instruction{Op: OpLoad, Index: uint32(e.Var)})
	case ast.IntExpr:
		c.emit(Instruction{Op: OpPushValue, Value: Integer(e.Value)})
	case ast.CompoundExpr[int]:
		for _, arg := range e.Args {
			c.compileExpr(arg)
		}
		c.emit(Instruction{Op: OpConstruct, Functor: Atom(e.Functor), Arity: uint32(len(e.Args))})
	}
}

// compileStmt emits the code for a goal statement, appending it to the
// current body (§4.3).
func (c *predCompiler) compileStmt(stmt ast.Stmt[int]) error {
	switch s := stmt.(type) {
	case ast.AndStmt[int]:
		if err := c.compileStmt(s.Left); err != nil {
			return err
		}
		return c.compileStmt(s.Right)

	case ast.OrStmt[int]:
		return c.compileOr(s)

	case ast.IfThenElseStmt[int]:
		return c.compileIfThenElse(s)

	case ast.UnifyStmt[int]:
		c.compileExpr(s.Left)
		c.compileExpr(s.Right)
		c.emit(Instruction{Op: OpUnify})
		return nil

	case ast.CallStmt[int]:
		return c.compileCall(s)

	case ast.TrueStmt[int]:
		return nil

	case ast.FailStmt[int]:
		c.emit(Instruction{Op: OpFail})
		return nil

	default:
		panic("engine: unknown ast.Stmt variant in Compile")
	}
}

// compileOr emits:
//
//	MkCheckpoint label, <to s2>
//	[[s1]]
//	Jump <past s2>
//	[[s2]]
//
// The checkpoint's resume PC targets s2's first instruction directly (past
// the Jump that follows s1), not the Jump instruction itself — the offset
// is fixed up once both s1 and the Jump have been emitted, so the position
// is exact regardless of how the VM's own PC-advance convention is phrased
// (§9; the original IR generator, IRGen, computes this offset before the
// Jump exists, which lands one instruction short — see DESIGN.md).
func (c *predCompiler) compileOr(s ast.OrStmt[int]) error {
	cpPC := c.emit(Instruction{Op: OpMkCheckpoint, Label: c.newLabel()})
	if err := c.compileStmt(s.Left); err != nil {
		return err
	}
	jumpPC := c.emit(Instruction{Op: OpJump})
	s2Start := len(c.code)
	if err := c.compileStmt(s.Right); err != nil {
		return err
	}
	afterS2 := len(c.code)

	c.code[cpPC].Offset = int32(s2Start - cpPC)
	c.code[jumpPC].Offset = int32(afterS2 - jumpPC)
	return nil
}

// compileIfThenElse emits the soft-cut encoding (SPEC_FULL §4.3 expansion):
//
//	MkCheckpoint label, <to else>
//	[[cond]]
//	DetUntil label
//	[[then]]
//	Jump <past else>
//	[[else]]
//
// DetUntil(label) runs the instant cond succeeds, discarding every choice
// point cond left behind AND the checkpoint that would otherwise resume at
// else — committing fully to cond's first solution, with no way back into
// either cond's remaining alternatives or else. If cond instead exhausts
// its alternatives without succeeding, backtracking lands on the
// checkpoint's resume PC, which is else's first instruction.
func (c *predCompiler) compileIfThenElse(s ast.IfThenElseStmt[int]) error {
	label := c.newLabel()
	cpPC := c.emit(Instruction{Op: OpMkCheckpoint, Label: label})
	if err := c.compileStmt(s.Cond); err != nil {
		return err
	}
	c.emit(Instruction{Op: OpDetUntil, Label: label})
	if err := c.compileStmt(s.Then); err != nil {
		return err
	}
	jumpPC := c.emit(Instruction{Op: OpJump})
	elseStart := len(c.code)
	if err := c.compileStmt(s.Else); err != nil {
		return err
	}
	afterElse := len(c.code)

	c.code[cpPC].Offset = int32(elseStart - cpPC)
	c.code[jumpPC].Offset = int32(afterElse - jumpPC)
	return nil
}

// compileCall emits the argument-pushing + Call sequence. Arguments are
// pushed right-to-left so that, read left-to-right, parameter i meets
// argument i on top of the stack when the callee's unify prologue runs
// (§4.3 step 1; grounded on IRGen::compile_stmt's Call case).
//
// A predicate name of the literal form `sys:name/arity` resolves to the
// corresponding SystemPred signature (§3, §6); anything else resolves to a
// UserPred signature with the given call's own argument count.
func (c *predCompiler) compileCall(s ast.CallStmt[int]) error {
	for i := len(s.Args) - 1; i >= 0; i-- {
		c.compileExpr(s.Args[i])
	}
	sig, err := resolveCallSignature(s.Pred, len(s.Args))
	if err != nil {
		return err
	}
	c.emit(Instruction{Op: OpCall, Sig: sig})
	return nil
}

func resolveCallSignature(pred ast.PredName, arity int) (Signature, error) {
	name := string(pred)
	if rest, ok := strings.CutPrefix(name, "sys:"); ok {
		atomName, arityStr, ok := strings.Cut(rest, "/")
		if !ok {
			return Signature{}, systemPredicateDefinitionError(UserSig(Atom(name), arity))
		}
		declaredArity, convErr := strconv.Atoi(arityStr)
		if convErr != nil || declaredArity != arity {
			return Signature{}, systemPredicateDefinitionError(UserSig(Atom(name), arity))
		}
		return SysSig(Atom(atomName), arity), nil
	}
	return UserSig(Atom(name), arity), nil
}
