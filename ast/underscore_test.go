package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnderscoreElim_DistinctFreshNames(t *testing.T) {
	prog := Program[string]{Defs: []PredDef[string]{
		{
			Name:   "foo",
			Params: []Expr[string]{v("_"), v("_")},
			Body:   UnifyStmt[string]{Left: v("_"), Right: IntExpr{Value: 1}},
		},
	}}

	out := UnderscoreElim(prog)
	def := out.Defs[0]
	p0 := def.Params[0].(VarExpr[string]).Var
	p1 := def.Params[1].(VarExpr[string]).Var
	bodyVar := def.Body.(UnifyStmt[string]).Left.(VarExpr[string]).Var

	assert.NotEqual(t, "_", p0)
	assert.NotEqual(t, "_", p1)
	assert.NotEqual(t, "_", bodyVar)
	assert.NotEqual(t, p0, p1, "two distinct underscores never alias")
	assert.NotEqual(t, p0, bodyVar)
	assert.NotEqual(t, p1, bodyVar)
}

func TestUnderscoreElim_LeavesNamedVariablesAlone(t *testing.T) {
	prog := Program[string]{Defs: []PredDef[string]{
		{Name: "foo", Params: []Expr[string]{v("X")}, Body: CallStmt[string]{Pred: "p", Args: []Expr[string]{v("X")}}},
	}}

	out := UnderscoreElim(prog)
	assert.Equal(t, "X", out.Defs[0].Params[0].(VarExpr[string]).Var)
}
