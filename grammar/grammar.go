// Package grammar implements the rule registry of the gram engine: named,
// composable collections of patterns with single inheritance and mixins.
//
// A Grammar maps rule names to patterns. Rule lookup walks grammar-local
// rules first, then mixed-in rule sets in composition order, then the
// parent chain. Because the engine always resolves names against the
// grammar it was compiled for, redefining an inherited rule in a derived
// grammar is visible to every rule referencing that name, including rules
// defined in the parent.
//
// Example:
//
//	g := grammar.New("ident")
//	g.Define("TOP", pattern.Seq(pattern.Ref("first"), pattern.Plus(pattern.Space()), pattern.Ref("last")))
//	g.Define("first", pattern.Plus(pattern.Word()))
//	g.Define("last", pattern.Plus(pattern.Word()))
//
// Grammars are mutable while being defined and immutable once frozen; the
// engine freezes a grammar when compiling it. A frozen grammar is safe to
// share between concurrent parses.
package grammar

import (
	"github.com/coregx/gram/pattern"
)

// Grammar is a named, ordered collection of rules with an optional parent
// and zero or more mixed-in rule sets.
type Grammar struct {
	name   string
	parent *Grammar
	mixins []*RuleSet
	rules  map[string]pattern.Pattern
	order  []string
	frozen bool
}

// Option configures a Grammar at construction time.
type Option func(*Grammar)

// WithParent sets the parent grammar. Rules not found locally or in mixins
// are looked up along the parent chain.
func WithParent(parent *Grammar) Option {
	return func(g *Grammar) {
		if parent == nil {
			panic("grammar: WithParent with nil parent")
		}
		g.parent = parent
	}
}

// WithMixins composes the given rule sets into the grammar, at lower
// priority than local rules and higher priority than the parent chain.
// Earlier mixins take precedence over later ones.
func WithMixins(mixins ...*RuleSet) Option {
	return func(g *Grammar) {
		for _, rs := range mixins {
			g.composeLocked(rs)
		}
	}
}

// New creates an empty grammar with the given name.
func New(name string, opts ...Option) *Grammar {
	if name == "" {
		panic("grammar: New with empty name")
	}
	g := &Grammar{
		name:  name,
		rules: make(map[string]pattern.Pattern),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the grammar name.
func (g *Grammar) Name() string { return g.name }

// Parent returns the parent grammar, or nil.
func (g *Grammar) Parent() *Grammar { return g.parent }

// Define registers a rule, replacing any existing local rule of the same
// name. Defining a name that exists in a mixin or parent overrides it for
// all references resolved through this grammar.
// Define panics on a frozen grammar, an empty name or a nil pattern.
func (g *Grammar) Define(name string, p pattern.Pattern) {
	if g.frozen {
		panic("grammar: Define on frozen grammar " + g.name)
	}
	if name == "" {
		panic("grammar: Define with empty rule name")
	}
	if p == nil {
		panic("grammar: Define with nil pattern for rule " + name)
	}
	if _, exists := g.rules[name]; !exists {
		g.order = append(g.order, name)
	}
	g.rules[name] = p
}

// Compose merges a rule set into the grammar at lower priority than local
// rules. Later compositions have lower priority than earlier ones.
// Compose panics on a frozen grammar or a nil rule set.
func (g *Grammar) Compose(rs *RuleSet) {
	if g.frozen {
		panic("grammar: Compose on frozen grammar " + g.name)
	}
	g.composeLocked(rs)
}

func (g *Grammar) composeLocked(rs *RuleSet) {
	if rs == nil {
		panic("grammar: Compose with nil rule set")
	}
	rs.freeze()
	g.mixins = append(g.mixins, rs)
}

// Resolve returns the pattern for name, walking local rules, then mixins
// in composition order, then the parent chain. It returns an
// *UndefinedRuleError when the name resolves nowhere.
func (g *Grammar) Resolve(name string) (pattern.Pattern, error) {
	for cur := g; cur != nil; cur = cur.parent {
		if p, ok := cur.rules[name]; ok {
			return p, nil
		}
		for _, rs := range cur.mixins {
			if p, ok := rs.rules[name]; ok {
				return p, nil
			}
		}
	}
	return nil, &UndefinedRuleError{Grammar: g.name, Rule: name}
}

// Has reports whether name resolves somewhere in the grammar chain.
func (g *Grammar) Has(name string) bool {
	_, err := g.Resolve(name)
	return err == nil
}

// RuleNames returns every rule name visible through this grammar, in
// resolution priority order (local first, then mixins, then parents),
// without duplicates.
func (g *Grammar) RuleNames() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(order []string) {
		for _, n := range order {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	for cur := g; cur != nil; cur = cur.parent {
		add(cur.order)
		for _, rs := range cur.mixins {
			add(rs.order)
		}
	}
	return names
}

// Freeze marks definition complete. Define and Compose panic afterwards.
// Freezing propagates to mixins and the parent chain, since resolution
// reads through them. Freeze is idempotent.
func (g *Grammar) Freeze() {
	for cur := g; cur != nil && !cur.frozen; cur = cur.parent {
		cur.frozen = true
		for _, rs := range cur.mixins {
			rs.freeze()
		}
	}
}

// Frozen reports whether the grammar has been frozen.
func (g *Grammar) Frozen() bool { return g.frozen }

// RuleSet is a flat, named collection of rules intended for composition
// into grammars. Unlike a Grammar it has no parent and no mixins of its
// own.
type RuleSet struct {
	name   string
	rules  map[string]pattern.Pattern
	order  []string
	frozen bool
}

// NewRuleSet creates an empty rule set with the given name.
func NewRuleSet(name string) *RuleSet {
	if name == "" {
		panic("grammar: NewRuleSet with empty name")
	}
	return &RuleSet{
		name:  name,
		rules: make(map[string]pattern.Pattern),
	}
}

// Name returns the rule set name.
func (rs *RuleSet) Name() string { return rs.name }

// Define registers a rule in the set, replacing any existing rule of the
// same name. Define panics once the set has been composed into a grammar.
func (rs *RuleSet) Define(name string, p pattern.Pattern) {
	if rs.frozen {
		panic("grammar: Define on composed rule set " + rs.name)
	}
	if name == "" {
		panic("grammar: Define with empty rule name")
	}
	if p == nil {
		panic("grammar: Define with nil pattern for rule " + name)
	}
	if _, exists := rs.rules[name]; !exists {
		rs.order = append(rs.order, name)
	}
	rs.rules[name] = p
}

// Has reports whether the set defines name.
func (rs *RuleSet) Has(name string) bool {
	_, ok := rs.rules[name]
	return ok
}

func (rs *RuleSet) freeze() { rs.frozen = true }
