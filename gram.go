// Package gram provides a grammar-based pattern-matching engine for Go.
//
// A grammar is a named collection of rules, each rule a composable pattern
// built from literals, character classes, sequences, ordered-choice
// alternation, greedy repetition, references to other rules and inline
// code actions. Grammars compose: a grammar can inherit from a parent and
// mix in shared rule sets, with lookup precedence local > mixin > parent
// and overrides visible even to rules defined in the parent.
//
// Matching is recursive descent with backtracking over an immutable input
// string. A successful parse produces a tree of Match nodes exposing the
// matched span plus positional and name-keyed sub-captures.
//
// Basic usage:
//
//	g := gram.NewGrammar("name")
//	g.Define("TOP", pattern.Seq(
//	    pattern.Ref("first"),
//	    pattern.Plus(pattern.Space()),
//	    pattern.Ref("last"),
//	))
//	g.Define("first", pattern.Plus(pattern.Word()))
//	g.Define("last", pattern.Plus(pattern.Word()))
//
//	p, err := gram.Compile(g)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := p.Parse("Jane Doe")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(m.Capture("first").Text()) // "Jane"
//	fmt.Println(m.Capture("last").Text())  // "Doe"
//
// Semantics in brief:
//   - Alternation is ordered choice: the first alternative that succeeds
//     is committed; later alternatives are not retried when a subsequent
//     element of the sequence fails.
//   - Repetition is greedy and backtracks: the longest run is tried first,
//     shorter runs on overall failure.
//   - Inline actions (pattern.Action) run at match time, as often as
//     matching reaches them, and are never rolled back on backtracking.
//     Effects wanted only for committed matches belong in an Actions map,
//     dispatched bottom-up over the final result tree.
//   - Name-keyed capture lookup is last-match-wins when a rule matched
//     repeatedly; all occurrences stay available positionally.
//
// Compiled parsers are immutable and safe for concurrent use.
package gram

import (
	"context"
	"fmt"

	"github.com/coregx/gram/engine"
	"github.com/coregx/gram/grammar"
)

// Re-exported types so common use needs only this package plus pattern.
type (
	// Grammar is a named, composable collection of rules.
	Grammar = grammar.Grammar

	// RuleSet is a flat rule collection for mixing into grammars.
	RuleSet = grammar.RuleSet

	// Match is one node of a parse result tree.
	Match = engine.Match

	// Actions maps rule names to post-commit callbacks.
	Actions = engine.Actions

	// Config controls engine limits and strategy selection.
	Config = engine.Config
)

// EntryRule is the implicit start rule name, "TOP".
const EntryRule = engine.EntryRule

// NewGrammar creates an empty grammar with the given name.
func NewGrammar(name string, opts ...grammar.Option) *Grammar {
	return grammar.New(name, opts...)
}

// NewRuleSet creates an empty rule set for composition into grammars.
func NewRuleSet(name string) *RuleSet {
	return grammar.NewRuleSet(name)
}

// WithParent sets a grammar's parent at construction time.
func WithParent(parent *Grammar) grammar.Option {
	return grammar.WithParent(parent)
}

// WithMixins composes rule sets into a grammar at construction time.
func WithMixins(mixins ...*RuleSet) grammar.Option {
	return grammar.WithMixins(mixins...)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return engine.DefaultConfig()
}

// Parser is a compiled grammar ready for matching.
//
// A Parser is immutable and safe to use concurrently from multiple
// goroutines. Action callbacks and inline pattern actions are the
// caller's responsibility to make concurrency-safe when parses run in
// parallel.
type Parser struct {
	prog *engine.Program
}

// Compile validates and compiles a grammar.
//
// Compilation freezes the grammar: every rule reference reachable from any
// visible rule must resolve in the grammar's resolution chain, otherwise a
// *grammar.UndefinedRuleError is returned before any input is matched.
func Compile(g *Grammar) (*Parser, error) {
	return CompileWithConfig(g, DefaultConfig())
}

// MustCompile is Compile panicking on error, for grammars known to be
// valid at program start.
func MustCompile(g *Grammar) *Parser {
	p, err := Compile(g)
	if err != nil {
		panic(fmt.Sprintf("gram: Compile(%q): %v", g.Name(), err))
	}
	return p
}

// CompileWithConfig compiles a grammar with a custom engine configuration.
//
// Example:
//
//	cfg := gram.DefaultConfig()
//	cfg.MaxSteps = 10_000 // bound pathological backtracking tightly
//	p, err := gram.CompileWithConfig(g, cfg)
func CompileWithConfig(g *Grammar, cfg Config) (*Parser, error) {
	prog, err := engine.Compile(g, cfg)
	if err != nil {
		return nil, err
	}
	return &Parser{prog: prog}, nil
}

// Grammar returns the grammar this parser was compiled from.
func (p *Parser) Grammar() *Grammar { return p.prog.Grammar() }

// Rules returns every visible rule name in resolution priority order.
func (p *Parser) Rules() []string { return p.prog.Rules() }

// HasRule reports whether the parser defines the named rule.
func (p *Parser) HasRule(name string) bool { return p.prog.HasRule(name) }

// String returns the compiled grammar's name.
func (p *Parser) String() string { return p.prog.Grammar().Name() }

// Parse matches the entire input against the implicit entry rule "TOP".
//
// On failure the error wraps engine.ErrNoMatch and reports the furthest
// input offset the matcher reached.
func (p *Parser) Parse(input string) (*Match, error) {
	return p.prog.Parse(context.Background(), "", input, nil)
}

// ParseRule matches the entire input against an explicit start rule.
func (p *Parser) ParseRule(rule, input string) (*Match, error) {
	return p.prog.Parse(context.Background(), rule, input, nil)
}

// ParseActions is Parse with a post-commit action map: after a successful
// parse, acts is dispatched bottom-up over the committed result tree, once
// per named-rule match. Matches discarded by backtracking are never
// dispatched.
func (p *Parser) ParseActions(input string, acts Actions) (*Match, error) {
	return p.prog.Parse(context.Background(), "", input, acts)
}

// ParseContext is the fully general parse: explicit context for
// cancellation, explicit start rule ("" for the entry rule) and an
// optional action map.
func (p *Parser) ParseContext(ctx context.Context, rule, input string, acts Actions) (*Match, error) {
	return p.prog.Parse(ctx, rule, input, acts)
}

// ParsePrefix matches a prefix of input against the given start rule,
// without requiring the whole input to be consumed.
func (p *Parser) ParsePrefix(rule, input string) (*Match, error) {
	return p.prog.ParsePrefix(context.Background(), rule, input, nil)
}

// Search finds the leftmost match of the entry rule anywhere in input.
//
// Example:
//
//	m, err := p.Search("call f(x) here")
//	// m spans the leftmost substring the TOP rule matches
func (p *Parser) Search(input string) (*Match, error) {
	return p.prog.Search(context.Background(), "", input, 0, nil)
}

// SearchRule finds the leftmost match of an explicit rule anywhere in
// input.
func (p *Parser) SearchRule(rule, input string) (*Match, error) {
	return p.prog.Search(context.Background(), rule, input, 0, nil)
}

// SearchContext is the fully general search: explicit context, start rule
// ("" for the entry rule), start offset and optional action map.
func (p *Parser) SearchContext(ctx context.Context, rule, input string, from int, acts Actions) (*Match, error) {
	return p.prog.Search(ctx, rule, input, from, acts)
}

// FindAll returns successive non-overlapping matches of rule in input.
// If n > 0 it returns at most n matches; n <= 0 returns all. An empty
// match advances the scan by one byte.
func (p *Parser) FindAll(rule, input string, n int) ([]*Match, error) {
	return p.prog.FindAll(context.Background(), rule, input, n, nil)
}

// FindAllContext is FindAll with explicit context and an optional action
// map, dispatched once per committed match.
func (p *Parser) FindAllContext(ctx context.Context, rule, input string, n int, acts Actions) ([]*Match, error) {
	return p.prog.FindAll(ctx, rule, input, n, acts)
}
