package ast

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// predKey groups clauses by (name, arity): two clauses with the same name
// but different arity are different predicates, not different clauses of
// one predicate (§3).
type predKey struct {
	Name  PredName
	Arity int
}

// ConsolidateDefs merges every group of same-(name, arity) clauses into a
// single PredDef whose body tries each original clause in source order,
// unifying fresh positional parameters against the clause's own head
// pattern before running its body — the single-definition-per-signature
// form the rest of the pipeline and the compiler assume (grounded on
// original_source/src/ast/transform.rs's ConsolidateDefs).
//
// An ordered map keys the grouping so clauses retain their source order
// even though Go maps don't: the first clause written for a signature
// stays the first alternative tried at runtime.
//
// Each clause owns its own variable scope in the surface syntax — two
// clauses of the same predicate may both use `X` to mean unrelated things.
// Before merging, every clause's variables are alpha-renamed to fresh,
// globally-unique names off a shared counter, so the merged Or-chain never
// lets one clause's binding leak into another's.
func ConsolidateDefs(prog Program[string]) Program[string] {
	groups := orderedmap.New[predKey, []PredDef[string]]()
	for _, def := range prog.Defs {
		key := predKey{Name: def.Name, Arity: len(def.Params)}
		clauses, _ := groups.Get(key)
		groups.Set(key, append(clauses, def))
	}

	c := &renameCounter{}
	out := Program[string]{}
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		out.Defs = append(out.Defs, consolidateGroup(c, pair.Key, pair.Value))
	}
	return out
}

func consolidateGroup(c *renameCounter, key predKey, clauses []PredDef[string]) PredDef[string] {
	params := make([]Expr[string], key.Arity)
	for i := range params {
		params[i] = VarExpr[string]{Var: fmt.Sprintf("$arg%d", i)}
	}

	branches := make([]Stmt[string], len(clauses))
	for i, clause := range clauses {
		branches[i] = clauseBranch(c, clause, params)
	}

	var body Stmt[string] = FailStmt[string]{}
	for i := len(branches) - 1; i >= 0; i-- {
		if i == len(branches)-1 {
			body = branches[i]
		} else {
			body = OrStmt[string]{Left: branches[i], Right: body}
		}
	}
	return PredDef[string]{Name: key.Name, Params: params, Body: body}
}

// clauseBranch alpha-renames def to fresh variable names, then builds
// `$arg0 = head0, $arg1 = head1, ..., Body` matching its (renamed) head
// pattern against the shared formals. A bare-variable parameter unifies
// trivially with its formal; ConsolidateDefs still emits the unify rather
// than special-casing it, and no later pass removes it: the compiler emits
// it as an ordinary Unify.
func clauseBranch(c *renameCounter, def PredDef[string], params []Expr[string]) Stmt[string] {
	subst := map[string]string{}
	renamedParams := make([]Expr[string], len(def.Params))
	for i, p := range def.Params {
		renamedParams[i] = c.renameExpr(p, subst)
	}
	renamedBody := c.renameStmt(def.Body, subst)

	goal := renamedBody
	for i := len(renamedParams) - 1; i >= 0; i-- {
		unify := UnifyStmt[string]{Left: params[i], Right: renamedParams[i]}
		goal = AndStmt[string]{Left: unify, Right: goal}
	}
	return goal
}

// renameCounter hands out fresh alpha-renamed variable names, shared across
// every clause ConsolidateDefs processes so no two clauses' renamed
// variables can collide.
type renameCounter struct{ next int }

func (c *renameCounter) fresh(original string) string {
	c.next++
	return fmt.Sprintf("%s$%d", original, c.next)
}

func (c *renameCounter) renameExpr(e Expr[string], subst map[string]string) Expr[string] {
	switch e := e.(type) {
	case VarExpr[string]:
		if e.Var == "_" {
			// Anonymous: every occurrence is already unrelated to every
			// other, and UnderscoreElim (which runs after ConsolidateDefs)
			// is what freshens each one — leave the marker alone here.
			return e
		}
		renamed, ok := subst[e.Var]
		if !ok {
			renamed = c.fresh(e.Var)
			subst[e.Var] = renamed
		}
		return VarExpr[string]{Var: renamed}
	case CompoundExpr[string]:
		args := make([]Expr[string], len(e.Args))
		for i, a := range e.Args {
			args[i] = c.renameExpr(a, subst)
		}
		return CompoundExpr[string]{Functor: e.Functor, Args: args}
	default:
		return e
	}
}

func (c *renameCounter) renameStmt(s Stmt[string], subst map[string]string) Stmt[string] {
	switch s := s.(type) {
	case AndStmt[string]:
		return AndStmt[string]{Left: c.renameStmt(s.Left, subst), Right: c.renameStmt(s.Right, subst)}
	case OrStmt[string]:
		return OrStmt[string]{Left: c.renameStmt(s.Left, subst), Right: c.renameStmt(s.Right, subst)}
	case IfThenElseStmt[string]:
		return IfThenElseStmt[string]{
			Cond: c.renameStmt(s.Cond, subst),
			Then: c.renameStmt(s.Then, subst),
			Else: c.renameStmt(s.Else, subst),
		}
	case UnifyStmt[string]:
		return UnifyStmt[string]{Left: c.renameExpr(s.Left, subst), Right: c.renameExpr(s.Right, subst)}
	case CallStmt[string]:
		args := make([]Expr[string], len(s.Args))
		for i, a := range s.Args {
			args[i] = c.renameExpr(a, subst)
		}
		return CallStmt[string]{Pred: s.Pred, Args: args}
	default:
		return s
	}
}
