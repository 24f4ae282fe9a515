// Package rules canonicalizes configuration item names.
//
// An item name such as "SLICE1:PORTB_WIDTH_B" is split into an owner
// ("SLICE1", the functional block instance) and a key ("PORTB_WIDTH_B", the
// attribute). An ordered Chain of rewrite rules then strips the
// instance-specific parts so that equivalent items of repeated instances end
// up with the same canonical name ("SLICE*:PORTA_WIDTH_*").
//
// Every rule is a pure predicate plus transform and must be idempotent:
// applying a rule to its own output is a no-op. The chain checks this on
// every application, so a single ordered pass always terminates.
package rules

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotIdempotent is returned when a rule rewrites its own output again.
var ErrNotIdempotent = errors.New("rules: rule is not idempotent")

// Field selects the part of a name a rule operates on.
type Field int

const (
	FieldKey Field = iota
	FieldOwner
)

func (f Field) String() string {
	if f == FieldOwner {
		return "owner"
	}
	return "key"
}

// Rule is one rewrite step.
type Rule struct {
	Name    string
	Field   Field
	Match   func(owner, key string) bool
	Rewrite func(owner, key string) (string, string)
}

// onField adapts a string predicate and transform to the selected field.
func onField(name string, f Field, match func(string) bool, rewrite func(string) string) Rule {
	return Rule{
		Name:  name,
		Field: f,
		Match: func(owner, key string) bool {
			if f == FieldOwner {
				return match(owner)
			}
			return match(key)
		},
		Rewrite: func(owner, key string) (string, string) {
			if f == FieldOwner {
				return rewrite(owner), key
			}
			return owner, rewrite(key)
		},
	}
}

// ReplacePrefix replaces a leading from with to.
func ReplacePrefix(name string, f Field, from, to string) Rule {
	return onField(name, f,
		func(s string) bool { return from != "" && strings.HasPrefix(s, from) },
		func(s string) string { return to + strings.TrimPrefix(s, from) })
}

// ReplaceSuffix replaces a trailing from with to.
func ReplaceSuffix(name string, f Field, from, to string) Rule {
	return onField(name, f,
		func(s string) bool { return from != "" && strings.HasSuffix(s, from) },
		func(s string) string { return strings.TrimSuffix(s, from) + to })
}

// Rename replaces the whole field when it equals from.
func Rename(name string, f Field, from, to string) Rule {
	return onField(name, f,
		func(s string) bool { return s == from },
		func(string) string { return to })
}

// Regexp rewrites every match of pattern with replacement, which may refer
// to groups with $1 style references.
func Regexp(name string, f Field, pattern, replacement string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, errors.Wrapf(err, "rules: %s", name)
	}
	return onField(name, f, re.MatchString,
		func(s string) string { return re.ReplaceAllString(s, replacement) }), nil
}

// MustRegexp is like Regexp but panics on an invalid pattern.
func MustRegexp(name string, f Field, pattern, replacement string) Rule {
	r, err := Regexp(name, f, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

// DropOwner clears the owner so items are grouped by key alone.
func DropOwner(name string) Rule {
	return Rule{
		Name:    name,
		Field:   FieldOwner,
		Match:   func(owner, _ string) bool { return owner != "" },
		Rewrite: func(_, key string) (string, string) { return "", key },
	}
}

// Chain is an ordered list of rules.
type Chain struct {
	rules []Rule
}

// NewChain builds a chain from rules in application order.
func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: append([]Rule(nil), rules...)}
}

// Default returns the rules shared by all families.
func Default() *Chain {
	return NewChain(
		ReplacePrefix("port-alias", FieldKey, "PORTB_", "PORTA_"),
		MustRegexp("lane-suffix", FieldKey, `_[AB]$`, "_*"),
		MustRegexp("offset-tag", FieldKey, `^.+_OFFSET$`, "*_OFFSET"),
		MustRegexp("instance-index", FieldOwner, `[0-9]+$`, "*"),
	)
}

// Append returns a new chain with extra rules after the existing ones.
func (c *Chain) Append(rules ...Rule) *Chain {
	out := &Chain{rules: make([]Rule, 0, c.Len()+len(rules))}
	if c != nil {
		out.rules = append(out.rules, c.rules...)
	}
	out.rules = append(out.rules, rules...)
	return out
}

// Rules returns the rules in order.
func (c *Chain) Rules() []Rule {
	if c == nil {
		return nil
	}
	return c.rules
}

// Len returns the number of rules.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Step records one applied rule.
type Step struct {
	Rule       string
	Owner, Key string
}

// Apply runs every rule once, in order.
func (c *Chain) Apply(owner, key string) (string, string, error) {
	o, k, _, err := c.apply(owner, key, false)
	return o, k, err
}

// Trace is like Apply but also reports the rules that fired.
func (c *Chain) Trace(owner, key string) (string, string, []Step, error) {
	return c.apply(owner, key, true)
}

func (c *Chain) apply(owner, key string, trace bool) (string, string, []Step, error) {
	var steps []Step
	for _, r := range c.Rules() {
		if !r.Match(owner, key) {
			continue
		}
		no, nk := r.Rewrite(owner, key)
		if r.Match(no, nk) {
			if ao, ak := r.Rewrite(no, nk); ao != no || ak != nk {
				return owner, key, steps, errors.Wrapf(ErrNotIdempotent, "%s: %q -> %q -> %q", r.Name, join(owner, key), join(no, nk), join(ao, ak))
			}
		}
		owner, key = no, nk
		if trace {
			steps = append(steps, Step{Rule: r.Name, Owner: owner, Key: key})
		}
	}
	return owner, key, steps, nil
}

// SplitName splits an item name into owner and key on the first structural
// separator, ':' first and then '.'. Names without a separator have no owner.
func SplitName(name string) (owner, key string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// Canonical splits name, applies the chain and joins the result.
func (c *Chain) Canonical(name string) (string, error) {
	owner, key := SplitName(name)
	owner, key, err := c.Apply(owner, key)
	if err != nil {
		return "", err
	}
	return join(owner, key), nil
}

func join(owner, key string) string {
	if owner == "" {
		return key
	}
	return owner + ":" + key
}
