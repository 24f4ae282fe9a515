package rules

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses rule files.
type Parser struct {
	parser *participle.Parser[RuleFile]
}

// NewParser creates a new rule file parser.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[RuleFile](
		participle.Lexer(RulesLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a rule file from a reader.
func (p *Parser) Parse(r io.Reader) (*RuleFile, error) {
	f, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseString parses a rule file from a string.
func (p *Parser) ParseString(input string) (*RuleFile, error) {
	f, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses a rule file from a file path.
func (p *Parser) ParseFile(filename string) (*RuleFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Compile turns parsed declarations into rules, in file order.
func Compile(f *RuleFile) ([]Rule, error) {
	seen := make(map[string]bool)
	out := make([]Rule, 0, len(f.Rules))
	for _, d := range f.Rules {
		if seen[d.Name] {
			return nil, fmt.Errorf("%s: duplicate rule %s", d.Pos, d.Name)
		}
		seen[d.Name] = true

		field := FieldKey
		if d.Field == "owner" {
			field = FieldOwner
		}
		if d.Action.Drop {
			if field != FieldOwner {
				return nil, fmt.Errorf("%s: rule %s: only the owner can be dropped", d.Pos, d.Name)
			}
			out = append(out, DropOwner(d.Name))
			continue
		}

		rw := d.Action.Rewrite
		switch rw.Op {
		case "prefix":
			out = append(out, ReplacePrefix(d.Name, field, rw.From, rw.To))
		case "suffix":
			out = append(out, ReplaceSuffix(d.Name, field, rw.From, rw.To))
		case "rename":
			out = append(out, Rename(d.Name, field, rw.From, rw.To))
		case "match":
			r, err := Regexp(d.Name, field, rw.From, rw.To)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d.Pos, err)
			}
			out = append(out, r)
		default:
			return nil, fmt.Errorf("%s: rule %s: unknown operator %q", d.Pos, d.Name, rw.Op)
		}
	}
	return out, nil
}

// ParseRules parses and compiles rule source text.
func ParseRules(input string) ([]Rule, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	f, err := p.ParseString(input)
	if err != nil {
		return nil, err
	}
	return Compile(f)
}

// LoadFile parses and compiles a rule file.
func LoadFile(filename string) ([]Rule, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	f, err := p.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	rules, err := Compile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return rules, nil
}
