// Package ast defines the surface-level abstract syntax tree produced by the
// parser and consumed by the lowering pipeline (ConsolidateDefs,
// UnderscoreElim, EnumerateVariables, IdempotentElim) before the bytecode
// compiler ever sees a program. It mirrors original_source/src/ast.rs: a
// program is parameterised over its variable representation V, which starts
// out as a source-level name (string) and ends up as a dense index (int)
// once EnumerateVariables has run.
package ast

import "fmt"

// PredName is a user predicate's surface name (distinct from engine.Atom:
// the ast package has no dependency on engine, by design — it is a pure
// syntax tree, the compiler is the only place the two meet).
type PredName string

// Expr is a term expression: an atom, a variable, an integer literal, or a
// compound application. V is the representation a variable carries at this
// stage of the pipeline.
type Expr[V any] interface {
	isExpr()
	fmt.Stringer
}

// AtomExpr is a bare atom literal, e.g. `foo`.
type AtomExpr struct {
	Name string
}

func (AtomExpr) isExpr()        {}
func (e AtomExpr) String() string { return e.Name }

// VarExpr is a variable occurrence, e.g. `X` or (post-enumeration) `_42`.
type VarExpr[V any] struct {
	Var V
}

func (VarExpr[V]) isExpr() {}
func (e VarExpr[V]) String() string { return fmt.Sprintf("%v", e.Var) }

// IntExpr is an integer literal, e.g. `7`.
type IntExpr struct {
	Value int64
}

func (IntExpr) isExpr()        {}
func (e IntExpr) String() string { return fmt.Sprintf("%d", e.Value) }

// CompoundExpr is a functor applied to one or more argument expressions,
// e.g. `foo(X, 1)`.
type CompoundExpr[V any] struct {
	Functor string
	Args    []Expr[V]
}

func (CompoundExpr[V]) isExpr() {}
func (e CompoundExpr[V]) String() string {
	s := e.Functor + "("
	for i, a := range e.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// Stmt is a goal statement: conjunction, disjunction, if-then-else, unify,
// predicate call, or one of the two terminal goals (true/fail).
type Stmt[V any] interface {
	isStmt()
	fmt.Stringer
}

// AndStmt is a left-to-right conjunction of two goals: `S1, S2`.
type AndStmt[V any] struct {
	Left, Right Stmt[V]
}

func (AndStmt[V]) isStmt() {}
func (s AndStmt[V]) String() string { return fmt.Sprintf("(%s, %s)", s.Left, s.Right) }

// OrStmt is a backtracking disjunction of two goals: `S1; S2`.
type OrStmt[V any] struct {
	Left, Right Stmt[V]
}

func (OrStmt[V]) isStmt() {}
func (s OrStmt[V]) String() string { return fmt.Sprintf("(%s; %s)", s.Left, s.Right) }

// IfThenElseStmt is a soft-cut conditional: `Cond -> Then ; Else`. Cond is
// committed to its first solution (§4.3); if Cond has no solution, Else
// runs instead.
type IfThenElseStmt[V any] struct {
	Cond, Then, Else Stmt[V]
}

func (IfThenElseStmt[V]) isStmt() {}
func (s IfThenElseStmt[V]) String() string {
	return fmt.Sprintf("(%s -> %s ; %s)", s.Cond, s.Then, s.Else)
}

// UnifyStmt unifies two expressions: `E1 = E2`.
type UnifyStmt[V any] struct {
	Left, Right Expr[V]
}

func (UnifyStmt[V]) isStmt() {}
func (s UnifyStmt[V]) String() string { return fmt.Sprintf("%s = %s", s.Left, s.Right) }

// CallStmt invokes a predicate by name with the given arguments: `foo(X)`.
type CallStmt[V any] struct {
	Pred PredName
	Args []Expr[V]
}

func (CallStmt[V]) isStmt() {}
func (s CallStmt[V]) String() string {
	str := string(s.Pred) + "("
	for i, a := range s.Args {
		if i > 0 {
			str += ", "
		}
		str += a.String()
	}
	return str + ")"
}

// TrueStmt always succeeds exactly once.
type TrueStmt[V any] struct{}

func (TrueStmt[V]) isStmt()        {}
func (TrueStmt[V]) String() string { return "true" }

// FailStmt never succeeds.
type FailStmt[V any] struct{}

func (FailStmt[V]) isStmt()        {}
func (FailStmt[V]) String() string { return "fail" }

// PredDef is a single predicate definition: a name, its formal parameters
// (as expressions, to allow pattern-style heads like `foo(0)` or
// `foo(X, X)` prior to ConsolidateDefs), and a body goal.
type PredDef[V any] struct {
	Name   PredName
	Params []Expr[V]
	Body   Stmt[V]
}

// Program is an ordered sequence of predicate definitions, parameterised
// over the variable representation V (string pre-enumeration, int after
// EnumerateVariables has run).
type Program[V any] struct {
	Defs []PredDef[V]
}
