package ast

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EnumerateVariables replaces each definition's string-named variables with
// dense integer indices, assigned in order of first appearance within that
// definition. Variable scope is per-PredDef — each predicate's parameters
// and body form an independent numbering space, matching the per-call-frame
// locals array the VM gives each predicate invocation (§3). Must run after
// ConsolidateDefs and UnderscoreElim, so every string name occurring in a
// single definition already denotes a single, unambiguous variable
// (grounded on original_source/src/ast/transform.rs's EnumerateVariables).
func EnumerateVariables(prog Program[string]) Program[int] {
	out := Program[int]{Defs: make([]PredDef[int], len(prog.Defs))}
	for i, def := range prog.Defs {
		out.Defs[i] = enumerateDef(def)
	}
	return out
}

func enumerateDef(def PredDef[string]) PredDef[int] {
	ids := orderedmap.New[string, int]()
	params := make([]Expr[int], len(def.Params))
	for i, p := range def.Params {
		params[i] = enumerateExpr(p, ids)
	}
	body := enumerateStmt(def.Body, ids)
	return PredDef[int]{Name: def.Name, Params: params, Body: body}
}

// VariableOrder maps each named (non-"_") variable of stmt to the local
// index EnumerateVariables would assign it, counting anonymous "_"
// occurrences too (each consumes an index, same as EnumerateVariables
// would after UnderscoreElim freshens it) so the result stays correct even
// though stmt here never actually runs through ConsolidateDefs/
// UnderscoreElim. Lets a caller that wraps one bare goal in a throwaway
// main/0 (cmd/cadmium's repl) recover which printed local index corresponds
// to which source-level variable name without recompiling the goal twice.
func VariableOrder(stmt Stmt[string]) map[string]int {
	ids := orderedmap.New[string, int]()
	next := 0
	collectVarOrder(stmt, ids, &next)
	out := make(map[string]int, ids.Len())
	for pair := ids.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

func collectVarOrder(s Stmt[string], ids *orderedmap.OrderedMap[string, int], next *int) {
	switch s := s.(type) {
	case AndStmt[string]:
		collectVarOrder(s.Left, ids, next)
		collectVarOrder(s.Right, ids, next)
	case OrStmt[string]:
		collectVarOrder(s.Left, ids, next)
		collectVarOrder(s.Right, ids, next)
	case IfThenElseStmt[string]:
		collectVarOrder(s.Cond, ids, next)
		collectVarOrder(s.Then, ids, next)
		collectVarOrder(s.Else, ids, next)
	case UnifyStmt[string]:
		collectExprVarOrder(s.Left, ids, next)
		collectExprVarOrder(s.Right, ids, next)
	case CallStmt[string]:
		for _, a := range s.Args {
			collectExprVarOrder(a, ids, next)
		}
	}
}

func collectExprVarOrder(e Expr[string], ids *orderedmap.OrderedMap[string, int], next *int) {
	switch e := e.(type) {
	case VarExpr[string]:
		if e.Var == "_" {
			*next++
			return
		}
		if _, ok := ids.Get(e.Var); !ok {
			ids.Set(e.Var, *next)
			*next++
		}
	case CompoundExpr[string]:
		for _, a := range e.Args {
			collectExprVarOrder(a, ids, next)
		}
	}
}

func varID(name string, ids *orderedmap.OrderedMap[string, int]) int {
	if id, ok := ids.Get(name); ok {
		return id
	}
	id := ids.Len()
	ids.Set(name, id)
	return id
}

func enumerateExpr(e Expr[string], ids *orderedmap.OrderedMap[string, int]) Expr[int] {
	switch e := e.(type) {
	case AtomExpr:
		return AtomExpr{Name: e.Name}
	case VarExpr[string]:
		return VarExpr[int]{Var: varID(e.Var, ids)}
	case IntExpr:
		return IntExpr{Value: e.Value}
	case CompoundExpr[string]:
		args := make([]Expr[int], len(e.Args))
		for i, a := range e.Args {
			args[i] = enumerateExpr(a, ids)
		}
		return CompoundExpr[int]{Functor: e.Functor, Args: args}
	default:
		panic("ast: unknown Expr variant in EnumerateVariables")
	}
}

func enumerateStmt(s Stmt[string], ids *orderedmap.OrderedMap[string, int]) Stmt[int] {
	switch s := s.(type) {
	case AndStmt[string]:
		return AndStmt[int]{Left: enumerateStmt(s.Left, ids), Right: enumerateStmt(s.Right, ids)}
	case OrStmt[string]:
		return OrStmt[int]{Left: enumerateStmt(s.Left, ids), Right: enumerateStmt(s.Right, ids)}
	case IfThenElseStmt[string]:
		return IfThenElseStmt[int]{
			Cond: enumerateStmt(s.Cond, ids),
			Then: enumerateStmt(s.Then, ids),
			Else: enumerateStmt(s.Else, ids),
		}
	case UnifyStmt[string]:
		return UnifyStmt[int]{Left: enumerateExpr(s.Left, ids), Right: enumerateExpr(s.Right, ids)}
	case CallStmt[string]:
		args := make([]Expr[int], len(s.Args))
		for i, a := range s.Args {
			args[i] = enumerateExpr(a, ids)
		}
		return CallStmt[int]{Pred: s.Pred, Args: args}
	case TrueStmt[string]:
		return TrueStmt[int]{}
	case FailStmt[string]:
		return FailStmt[int]{}
	default:
		panic("ast: unknown Stmt variant in EnumerateVariables")
	}
}
