package rules

import "github.com/alecthomas/participle/v2/lexer"

// RuleFile is the root of a parsed rule file.
//
//	# comment
//	rule port-alias: key prefix "PORTB_" -> "PORTA_";
//	rule lane-suffix: key match "_[AB]$" -> "_*";
//	rule strip-owner: owner drop;
type RuleFile struct {
	Rules []*RuleDecl `@@*`
}

// RuleDecl is one "rule name: field action;" statement.
type RuleDecl struct {
	Pos lexer.Position

	Name   string  `"rule" @Ident ":"`
	Field  string  `@( "owner" | "key" )`
	Action *Action `@@ ";"`
}

// Action is either a rewrite or a drop.
type Action struct {
	Drop    bool         `  @"drop"`
	Rewrite *RewriteSpec `| @@`
}

// RewriteSpec replaces From with To using the operator Op.
type RewriteSpec struct {
	Op   string `@( "prefix" | "suffix" | "match" | "rename" )`
	From string `@String "->"`
	To   string `@String`
}
