package ast

import "fmt"

// UnderscoreElim replaces every anonymous `_` variable occurrence with its
// own distinct fresh name, so that two `_` in the same clause never alias
// each other (grounded on original_source/src/ast/transform.rs's
// UnderscoreElim). Runs after ConsolidateDefs, which passes every `_`
// through unrenamed, so each source-level `_` reaches this pass intact.
func UnderscoreElim(prog Program[string]) Program[string] {
	c := &underscoreCounter{}
	out := Program[string]{Defs: make([]PredDef[string], len(prog.Defs))}
	for i, def := range prog.Defs {
		params := make([]Expr[string], len(def.Params))
		for j, p := range def.Params {
			params[j] = c.expr(p)
		}
		out.Defs[i] = PredDef[string]{Name: def.Name, Params: params, Body: c.stmt(def.Body)}
	}
	return out
}

type underscoreCounter struct{ next int }

func (c *underscoreCounter) fresh() string {
	c.next++
	return fmt.Sprintf("_U%d", c.next)
}

func (c *underscoreCounter) expr(e Expr[string]) Expr[string] {
	switch e := e.(type) {
	case VarExpr[string]:
		if e.Var == "_" {
			return VarExpr[string]{Var: c.fresh()}
		}
		return e
	case CompoundExpr[string]:
		args := make([]Expr[string], len(e.Args))
		for i, a := range e.Args {
			args[i] = c.expr(a)
		}
		return CompoundExpr[string]{Functor: e.Functor, Args: args}
	default:
		return e
	}
}

func (c *underscoreCounter) stmt(s Stmt[string]) Stmt[string] {
	switch s := s.(type) {
	case AndStmt[string]:
		return AndStmt[string]{Left: c.stmt(s.Left), Right: c.stmt(s.Right)}
	case OrStmt[string]:
		return OrStmt[string]{Left: c.stmt(s.Left), Right: c.stmt(s.Right)}
	case IfThenElseStmt[string]:
		return IfThenElseStmt[string]{Cond: c.stmt(s.Cond), Then: c.stmt(s.Then), Else: c.stmt(s.Else)}
	case UnifyStmt[string]:
		return UnifyStmt[string]{Left: c.expr(s.Left), Right: c.expr(s.Right)}
	case CallStmt[string]:
		args := make([]Expr[string], len(s.Args))
		for i, a := range s.Args {
			args[i] = c.expr(a)
		}
		return CallStmt[string]{Pred: s.Pred, Args: args}
	default:
		return s
	}
}
