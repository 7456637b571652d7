// Package parser turns the surface syntax (§6) into an ast.Program[string]
// — the only form the core lowering pipeline consumes. It is a
// collaborator, not part of the core: nothing here participates in
// unification, compilation, or execution semantics.
package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"github.com/maemre/cadmium/ast"
)

var sourceParser = participle.MustBuild[programNode](
	participle.Lexer(sourceLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse parses src into a Program; variables are still source-level names
// at this point (ConsolidateDefs/UnderscoreElim/EnumerateVariables have not
// run yet — see the top-level Load function that chains them).
func Parse(src string) (ast.Program[string], error) {
	prog, err := sourceParser.ParseString("", src)
	if err != nil {
		return ast.Program[string]{}, fmt.Errorf("parser: %w", err)
	}
	return toProgram(prog), nil
}

func toProgram(p *programNode) ast.Program[string] {
	out := ast.Program[string]{Defs: make([]ast.PredDef[string], len(p.Clauses))}
	for i, c := range p.Clauses {
		out.Defs[i] = toClause(c)
	}
	return out
}

func toClause(c *clauseNode) ast.PredDef[string] {
	params := make([]ast.Expr[string], len(c.Head.Args))
	for i, a := range c.Head.Args {
		params[i] = toExpr(a)
	}
	var body ast.Stmt[string] = ast.TrueStmt[string]{}
	if c.Body != nil {
		body = toOrGoal(c.Body)
	}
	return ast.PredDef[string]{Name: ast.PredName(c.Head.Name), Params: params, Body: body}
}

func toExpr(t *termNode) ast.Expr[string] {
	switch {
	case t.Int != nil:
		return ast.IntExpr{Value: *t.Int}
	case t.Var != nil:
		return ast.VarExpr[string]{Var: *t.Var}
	case t.Compound != nil:
		args := make([]ast.Expr[string], len(t.Compound.Args))
		for i, a := range t.Compound.Args {
			args[i] = toExpr(a)
		}
		return ast.CompoundExpr[string]{Functor: t.Compound.Functor, Args: args}
	case t.Atom != nil:
		return ast.AtomExpr{Name: *t.Atom}
	default:
		panic("parser: empty term node")
	}
}

func toOrGoal(o *orGoalNode) ast.Stmt[string] {
	// Cond -> Then ; Else: a two-alternative Or whose first alternative is
	// a single ifGoalNode with Then set compiles to IfThenElseStmt instead
	// of a plain disjunction (see ifGoalNode's doc comment).
	if len(o.Items) == 2 && len(o.Items[0].Items) == 1 && o.Items[0].Items[0].Then != nil {
		cond := toPrimary(o.Items[0].Items[0].Cond)
		then := toPrimary(o.Items[0].Items[0].Then)
		els := toAndGoal(o.Items[1])
		return ast.IfThenElseStmt[string]{Cond: cond, Then: then, Else: els}
	}

	var result ast.Stmt[string]
	for i := len(o.Items) - 1; i >= 0; i-- {
		branch := toAndGoal(o.Items[i])
		if result == nil {
			result = branch
		} else {
			result = ast.OrStmt[string]{Left: branch, Right: result}
		}
	}
	return result
}

func toAndGoal(a *andGoalNode) ast.Stmt[string] {
	var result ast.Stmt[string]
	for i := len(a.Items) - 1; i >= 0; i-- {
		goal := toIfGoal(a.Items[i])
		if result == nil {
			result = goal
		} else {
			result = ast.AndStmt[string]{Left: goal, Right: result}
		}
	}
	return result
}

func toIfGoal(i *ifGoalNode) ast.Stmt[string] {
	if i.Then == nil {
		return toPrimary(i.Cond)
	}
	// A bare `Cond -> Then` with no surrounding `; Else` at this Or level:
	// treat a failing Cond as simply failing the whole goal (Else = fail).
	return ast.IfThenElseStmt[string]{
		Cond: toPrimary(i.Cond),
		Then: toPrimary(i.Then),
		Else: ast.FailStmt[string]{},
	}
}

func toPrimary(p *primaryNode) ast.Stmt[string] {
	if p.Paren != nil {
		return toOrGoal(p.Paren)
	}
	if p.Right != nil {
		return ast.UnifyStmt[string]{Left: toExpr(p.Left), Right: toExpr(p.Right)}
	}
	return toCallGoal(p.Left)
}

// systemPredicates names every host built-in callable from source by its
// bare name — §3's `sys:atom/arity` signature form is the AST/compiler's
// internal identity for these, not surface syntax a program has to spell
// out (matching spec.md §8's own worked examples, which call `print(X)`
// directly); the parser does that sys:-prefixing here, once, by table
// lookup on (name, arity).
var systemPredicates = map[string]map[int]bool{
	"print": {1: true},
	"hash":  {2: true},
}

func callPredName(name string, arity int) ast.PredName {
	if arities, ok := systemPredicates[name]; ok && arities[arity] {
		return ast.PredName(fmt.Sprintf("sys:%s/%d", name, arity))
	}
	return ast.PredName(name)
}

// toCallGoal turns a bare term used in goal position into a call: a
// compound becomes a call with its arguments, a bare atom becomes a
// zero-arity call — `true` and `fail` are recognized here by name rather
// than as separate keywords, keeping the grammar itself free of special
// cases (§6).
func toCallGoal(t *termNode) ast.Stmt[string] {
	switch {
	case t.Atom != nil:
		switch *t.Atom {
		case "true":
			return ast.TrueStmt[string]{}
		case "fail":
			return ast.FailStmt[string]{}
		default:
			return ast.CallStmt[string]{Pred: callPredName(*t.Atom, 0)}
		}
	case t.Compound != nil:
		args := make([]ast.Expr[string], len(t.Compound.Args))
		for i, a := range t.Compound.Args {
			args[i] = toExpr(a)
		}
		return ast.CallStmt[string]{Pred: callPredName(t.Compound.Functor, len(args)), Args: args}
	default:
		panic("parser: term in goal position is neither an atom nor a call")
	}
}
