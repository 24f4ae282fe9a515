package rules

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RulesLexer defines the lexical structure of rule files.
// Keywords are matched by value in the grammar, so rule names may reuse them.
var RulesLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments - shell style (# to end of line)
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Double-quoted strings with backslash escapes
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Operators and punctuation
	{Name: "Arrow", Pattern: `->`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Semicolon", Pattern: `;`},

	// Identifiers, dashes allowed after the first character
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-]*`},
})
