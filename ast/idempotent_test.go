package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdempotentElim_AndTrueRight(t *testing.T) {
	// A fact clause, as ConsolidateDefs emits it: And(Unify($arg0, a), True).
	prog := Program[int]{Defs: []PredDef[int]{
		{
			Name: "p",
			Body: AndStmt[int]{
				Left:  UnifyStmt[int]{Left: VarExpr[int]{Var: 0}, Right: AtomExpr{Name: "a"}},
				Right: TrueStmt[int]{},
			},
		},
	}}

	out := IdempotentElim(prog)
	assert.Equal(t, UnifyStmt[int]{Left: VarExpr[int]{Var: 0}, Right: AtomExpr{Name: "a"}}, out.Defs[0].Body)
}

func TestIdempotentElim_AndTrueLeft(t *testing.T) {
	prog := Program[int]{Defs: []PredDef[int]{
		{Name: "p", Body: AndStmt[int]{Left: TrueStmt[int]{}, Right: CallStmt[int]{Pred: "q"}}},
	}}

	out := IdempotentElim(prog)
	assert.Equal(t, CallStmt[int]{Pred: "q"}, out.Defs[0].Body)
}

func TestIdempotentElim_OrFailRight(t *testing.T) {
	prog := Program[int]{Defs: []PredDef[int]{
		{Name: "p", Body: OrStmt[int]{Left: CallStmt[int]{Pred: "q"}, Right: FailStmt[int]{}}},
	}}

	out := IdempotentElim(prog)
	assert.Equal(t, CallStmt[int]{Pred: "q"}, out.Defs[0].Body)
}

func TestIdempotentElim_OrFailLeft(t *testing.T) {
	prog := Program[int]{Defs: []PredDef[int]{
		{Name: "p", Body: OrStmt[int]{Left: FailStmt[int]{}, Right: CallStmt[int]{Pred: "q"}}},
	}}

	out := IdempotentElim(prog)
	assert.Equal(t, CallStmt[int]{Pred: "q"}, out.Defs[0].Body)
}

func TestIdempotentElim_IfThenElseCondFail(t *testing.T) {
	prog := Program[int]{Defs: []PredDef[int]{
		{Name: "p", Body: IfThenElseStmt[int]{
			Cond: FailStmt[int]{},
			Then: CallStmt[int]{Pred: "then"},
			Else: CallStmt[int]{Pred: "els"},
		}},
	}}

	out := IdempotentElim(prog)
	assert.Equal(t, CallStmt[int]{Pred: "els"}, out.Defs[0].Body)
}

func TestIdempotentElim_IfThenElseCondTrue(t *testing.T) {
	prog := Program[int]{Defs: []PredDef[int]{
		{Name: "p", Body: IfThenElseStmt[int]{
			Cond: TrueStmt[int]{},
			Then: CallStmt[int]{Pred: "then"},
			Else: CallStmt[int]{Pred: "els"},
		}},
	}}

	out := IdempotentElim(prog)
	assert.Equal(t, CallStmt[int]{Pred: "then"}, out.Defs[0].Body)
}

func TestIdempotentElim_LeavesNonRedundantStmtsAlone(t *testing.T) {
	body := AndStmt[int]{
		Left:  CallStmt[int]{Pred: "p"},
		Right: CallStmt[int]{Pred: "q"},
	}
	prog := Program[int]{Defs: []PredDef[int]{{Name: "r", Body: body}}}

	out := IdempotentElim(prog)
	assert.Equal(t, body, out.Defs[0].Body)
}

func TestIdempotentElim_NestedRedundancyCollapsesInOnePass(t *testing.T) {
	// And(True, Or(Fail, q)) should reduce all the way down to q: the inner
	// Or(Fail, q) simplifies to q before the outer And(True, q) is matched.
	prog := Program[int]{Defs: []PredDef[int]{
		{Name: "p", Body: AndStmt[int]{
			Left:  TrueStmt[int]{},
			Right: OrStmt[int]{Left: FailStmt[int]{}, Right: CallStmt[int]{Pred: "q"}},
		}},
	}}

	out := IdempotentElim(prog)
	assert.Equal(t, CallStmt[int]{Pred: "q"}, out.Defs[0].Body)
}

func TestIdempotentElim_ConsolidateThenIdempotentDropsFactRedundancy(t *testing.T) {
	// p(a). — a single fact clause, run through the real ConsolidateDefs
	// first so this exercises the actual §8 pipeline property: no And/Or/If
	// "True/Fail redundancy" survives ConsolidateDefs -> IdempotentElim.
	src := Program[string]{Defs: []PredDef[string]{
		{Name: "p", Params: []Expr[string]{AtomExpr{Name: "a"}}, Body: TrueStmt[string]{}},
	}}

	consolidated := ConsolidateDefs(src)
	out := IdempotentElim(consolidated)

	body := out.Defs[0].Body
	assert.IsType(t, UnifyStmt[string]{}, body, "the trailing And(_, True) from ConsolidateDefs is gone")
}
