package parser

import (
	"testing"

	"github.com/maemre/cadmium/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FactWithNoBody(t *testing.T) {
	prog, err := Parse(`likes(alice, bob).`)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 1)

	def := prog.Defs[0]
	assert.Equal(t, ast.PredName("likes"), def.Name)
	assert.Equal(t, []ast.Expr[string]{ast.AtomExpr{Name: "alice"}, ast.AtomExpr{Name: "bob"}}, def.Params)
	assert.Equal(t, ast.TrueStmt[string]{}, def.Body)
}

func TestParse_RuleWithConjunction(t *testing.T) {
	prog, err := Parse(`sibling(X, Y) :- parent(P, X), parent(P, Y).`)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 1)

	def := prog.Defs[0]
	assert.Equal(t, ast.PredName("sibling"), def.Name)

	and, ok := def.Body.(ast.AndStmt[string])
	require.True(t, ok, "body should be a conjunction")
	assert.Equal(t, ast.CallStmt[string]{Pred: "parent", Args: []ast.Expr[string]{
		ast.VarExpr[string]{Var: "P"}, ast.VarExpr[string]{Var: "X"},
	}}, and.Left)
	assert.Equal(t, ast.CallStmt[string]{Pred: "parent", Args: []ast.Expr[string]{
		ast.VarExpr[string]{Var: "P"}, ast.VarExpr[string]{Var: "Y"},
	}}, and.Right)
}

func TestParse_Disjunction(t *testing.T) {
	prog, err := Parse(`color(X) :- X = red ; X = blue ; X = green.`)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 1)

	or1, ok := prog.Defs[0].Body.(ast.OrStmt[string])
	require.True(t, ok)
	assert.Equal(t, ast.UnifyStmt[string]{Left: ast.VarExpr[string]{Var: "X"}, Right: ast.AtomExpr{Name: "red"}}, or1.Left)

	or2, ok := or1.Right.(ast.OrStmt[string])
	require.True(t, ok)
	assert.Equal(t, ast.UnifyStmt[string]{Left: ast.VarExpr[string]{Var: "X"}, Right: ast.AtomExpr{Name: "blue"}}, or2.Left)
	assert.Equal(t, ast.UnifyStmt[string]{Left: ast.VarExpr[string]{Var: "X"}, Right: ast.AtomExpr{Name: "green"}}, or2.Right)
}

func TestParse_IfThenElse(t *testing.T) {
	prog, err := Parse(`classify(X) :- (X = 0 -> print(zero) ; print(nonzero)).`)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 1)

	ite, ok := prog.Defs[0].Body.(ast.IfThenElseStmt[string])
	require.True(t, ok, "body should recognize the Cond -> Then ; Else idiom")
	assert.Equal(t, ast.UnifyStmt[string]{Left: ast.VarExpr[string]{Var: "X"}, Right: ast.IntExpr{Value: 0}}, ite.Cond)
	assert.Equal(t, ast.CallStmt[string]{Pred: "sys:print/1", Args: []ast.Expr[string]{ast.AtomExpr{Name: "zero"}}}, ite.Then)
	assert.Equal(t, ast.CallStmt[string]{Pred: "sys:print/1", Args: []ast.Expr[string]{ast.AtomExpr{Name: "nonzero"}}}, ite.Else)
}

func TestParse_BareIfThenWithoutElse(t *testing.T) {
	prog, err := Parse(`check(X) :- X = 0 -> print(zero).`)
	require.NoError(t, err)

	ite, ok := prog.Defs[0].Body.(ast.IfThenElseStmt[string])
	require.True(t, ok)
	assert.Equal(t, ast.FailStmt[string]{}, ite.Else, "a bare if-then with no else falls through to fail")
}

func TestParse_TrueAndFailAtoms(t *testing.T) {
	prog, err := Parse(`always_true :- true.
always_fail :- fail.`)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 2)
	assert.Equal(t, ast.TrueStmt[string]{}, prog.Defs[0].Body)
	assert.Equal(t, ast.FailStmt[string]{}, prog.Defs[1].Body)
}

func TestParse_CompoundTermsAndNesting(t *testing.T) {
	prog, err := Parse(`main :- X = point(1, Y), print(X).`)
	require.NoError(t, err)

	and := prog.Defs[0].Body.(ast.AndStmt[string])
	unify := and.Left.(ast.UnifyStmt[string])
	compound := unify.Right.(ast.CompoundExpr[string])
	assert.Equal(t, "point", compound.Functor)
	assert.Equal(t, []ast.Expr[string]{ast.IntExpr{Value: 1}, ast.VarExpr[string]{Var: "Y"}}, compound.Args)
}

func TestParse_MultipleClauses(t *testing.T) {
	prog, err := Parse(`
% a comment line
fact(a).
fact(b).
fact(c).
`)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 3)
}

func TestParse_BuiltinNamesResolveToSysSignatures(t *testing.T) {
	prog, err := Parse(`main :- print(ok), hash(ok, H).`)
	require.NoError(t, err)

	and := prog.Defs[0].Body.(ast.AndStmt[string])
	assert.Equal(t, ast.PredName("sys:print/1"), and.Left.(ast.CallStmt[string]).Pred)
	assert.Equal(t, ast.PredName("sys:hash/2"), and.Right.(ast.CallStmt[string]).Pred)
}

func TestParse_BuiltinNameWithWrongArityIsAUserPredicate(t *testing.T) {
	// print/2 isn't a registered builtin arity, so it's an ordinary user call.
	prog, err := Parse(`main :- print(a, b).`)
	require.NoError(t, err)
	call := prog.Defs[0].Body.(ast.CallStmt[string])
	assert.Equal(t, ast.PredName("print"), call.Pred)
}

func TestParse_SyntaxErrorIsReported(t *testing.T) {
	_, err := Parse(`main :- ,.`)
	assert.Error(t, err)
}
