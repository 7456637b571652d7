package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumerateVariables_FirstAppearanceOrder(t *testing.T) {
	prog := Program[string]{Defs: []PredDef[string]{
		{
			Name:   "foo",
			Params: []Expr[string]{v("Y"), v("X")},
			Body:   UnifyStmt[string]{Left: v("X"), Right: v("Z")},
		},
	}}

	out := EnumerateVariables(prog)
	def := out.Defs[0]
	assert.Equal(t, 0, def.Params[0].(VarExpr[int]).Var, "Y is seen first, via the params")
	assert.Equal(t, 1, def.Params[1].(VarExpr[int]).Var, "X is seen second")

	unify := def.Body.(UnifyStmt[int])
	assert.Equal(t, 1, unify.Left.(VarExpr[int]).Var, "X reuses its id from the params scan")
	assert.Equal(t, 2, unify.Right.(VarExpr[int]).Var, "Z is new, gets the next id")
}

func TestEnumerateVariables_ScopedPerDefinition(t *testing.T) {
	prog := Program[string]{Defs: []PredDef[string]{
		{Name: "foo", Params: []Expr[string]{v("X")}, Body: TrueStmt[string]{}},
		{Name: "bar", Params: []Expr[string]{v("X")}, Body: TrueStmt[string]{}},
	}}

	out := EnumerateVariables(prog)
	assert.Equal(t, 0, out.Defs[0].Params[0].(VarExpr[int]).Var)
	assert.Equal(t, 0, out.Defs[1].Params[0].(VarExpr[int]).Var, "each definition numbers its own variables from zero")
}

func TestVariableOrder_SkipsAnonymousButCountsThem(t *testing.T) {
	// foo(X) :- bar(_, X, Y).
	body := CallStmt[string]{Pred: "bar", Args: []Expr[string]{v("_"), v("X"), v("Y")}}
	order := VariableOrder(body)

	assert.Equal(t, map[string]int{"X": 1, "Y": 2}, order, "the anonymous arg still consumes index 0")
}

func TestVariableOrder_RepeatedNameReusesIndex(t *testing.T) {
	body := UnifyStmt[string]{Left: v("X"), Right: v("X")}
	assert.Equal(t, map[string]int{"X": 0}, VariableOrder(body))
}
