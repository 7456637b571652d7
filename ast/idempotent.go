package ast

// IdempotentElim performs the reduction table §4.2.4 names:
//
//	And(True, s)        -> s
//	And(s, True)        -> s
//	Or(Fail, s)         -> s
//	Or(s, Fail)         -> s
//	IfThenElse(Fail, _, s3) -> s3
//	IfThenElse(True, s2, _) -> s2
//
// run post-order (children simplified before a parent is matched against the
// table) so that, e.g., And(True, Or(Fail, s)) reduces all the way down to
// s in one traversal. Grounded on
// original_source/src/ast/transform.rs's IdempotentElim::transform_stmt,
// which pattern-matches this exact table bottom-up. It is generic over the
// variable representation V so it can run either before or after
// EnumerateVariables; the pipeline runs it last, on Program[int].
func IdempotentElim[V comparable](prog Program[V]) Program[V] {
	out := Program[V]{Defs: make([]PredDef[V], len(prog.Defs))}
	for i, def := range prog.Defs {
		out.Defs[i] = PredDef[V]{Name: def.Name, Params: def.Params, Body: idempotentStmt(def.Body)}
	}
	return out
}

func idempotentStmt[V comparable](s Stmt[V]) Stmt[V] {
	switch s := s.(type) {
	case AndStmt[V]:
		left := idempotentStmt(s.Left)
		right := idempotentStmt(s.Right)
		if isTrue(left) {
			return right
		}
		if isTrue(right) {
			return left
		}
		return AndStmt[V]{Left: left, Right: right}

	case OrStmt[V]:
		left := idempotentStmt(s.Left)
		right := idempotentStmt(s.Right)
		if isFail(left) {
			return right
		}
		if isFail(right) {
			return left
		}
		return OrStmt[V]{Left: left, Right: right}

	case IfThenElseStmt[V]:
		cond := idempotentStmt(s.Cond)
		then := idempotentStmt(s.Then)
		els := idempotentStmt(s.Else)
		if isFail(cond) {
			return els
		}
		if isTrue(cond) {
			return then
		}
		return IfThenElseStmt[V]{Cond: cond, Then: then, Else: els}

	default:
		return s
	}
}

func isTrue[V any](s Stmt[V]) bool {
	_, ok := s.(TrueStmt[V])
	return ok
}

func isFail[V any](s Stmt[V]) bool {
	_, ok := s.(FailStmt[V])
	return ok
}
