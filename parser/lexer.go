package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// sourceLexer tokenizes the surface syntax (§6): lowercase-leading
// identifiers are atoms/predicate names, uppercase-or-underscore-leading
// identifiers are variables — ordinary Prolog convention — grounded on
// kanso-lang-kanso/grammar's stateful-lexer-plus-grammar split, simplified
// to a single state since this surface syntax has no nested lexical modes.
var sourceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `%[^\n]*`},
	{Name: "Var", Pattern: `[A-Z_][a-zA-Z0-9_]*`},
	{Name: "Atom", Pattern: `[a-z][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `:-|->|[(),;.=:/]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})
