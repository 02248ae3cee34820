// Package engine compiles grammars into executable match programs and
// runs them against input strings.
//
// Compile validates a grammar (every rule reference must resolve somewhere
// in its resolution chain), freezes it, and builds the rule table and
// literal prefilters the matcher executes against. A compiled Program is
// immutable and safe for concurrent use; each Parse or Search call runs on
// its own matcher state.
//
// Matching is recursive descent with backtracking over an immutable input
// string: ordered-choice alternation, greedy repetition that backtracks to
// shorter runs, named captures assembled into a Match tree, inline actions
// executed at match time, and optional post-commit action dispatch.
package engine

import (
	"context"
	"errors"

	"github.com/coregx/gram/grammar"
	"github.com/coregx/gram/pattern"
)

// EntryRule is the implicit start rule used when no explicit rule name is
// given.
const EntryRule = "TOP"

// rule is one entry of the compiled rule table.
type rule struct {
	name  string
	index int             // dense index for activation tracking
	body  pattern.Pattern // resolved through the most-derived grammar
	ref   *pattern.RuleRef
}

// Program is a grammar compiled for execution.
type Program struct {
	grammar    *grammar.Grammar
	cfg        Config
	rules      map[string]*rule
	names      []string // resolution priority order
	prefilters map[string]*prefilter
}

// Compile validates g, freezes it and builds an executable program.
//
// Validation resolves every rule reference appearing in any visible rule
// body; a dangling reference is reported as *grammar.UndefinedRuleError
// before any input is matched. Zero fields of cfg are replaced with
// DefaultConfig values.
func Compile(g *grammar.Grammar, cfg Config) (*Program, error) {
	if g == nil {
		panic("engine: Compile with nil grammar")
	}
	g.Freeze()

	p := &Program{
		grammar: g,
		cfg:     cfg.withDefaults(),
		rules:   make(map[string]*rule),
		names:   g.RuleNames(),
	}
	for i, name := range p.names {
		body, err := g.Resolve(name)
		if err != nil {
			return nil, err
		}
		p.rules[name] = &rule{
			name:  name,
			index: i,
			body:  body,
			ref:   pattern.Ref(name),
		}
	}

	for _, name := range p.names {
		if err := p.validateRefs(name, p.rules[name].body); err != nil {
			return nil, err
		}
	}

	if p.cfg.EnablePrefilter {
		p.prefilters = make(map[string]*prefilter)
		for _, name := range p.names {
			if pf := p.buildPrefilter(name); pf != nil {
				p.prefilters[name] = pf
			}
		}
	}
	return p, nil
}

// validateRefs walks a rule body and checks that every rule reference
// resolves in the compiled table.
func (p *Program) validateRefs(owner string, pat pattern.Pattern) error {
	switch pat := pat.(type) {
	case *pattern.Sequence:
		for _, c := range pat.Children() {
			if err := p.validateRefs(owner, c); err != nil {
				return err
			}
		}
	case *pattern.Choice:
		for _, c := range pat.Children() {
			if err := p.validateRefs(owner, c); err != nil {
				return err
			}
		}
	case *pattern.Repetition:
		return p.validateRefs(owner, pat.Child())
	case *pattern.RuleRef:
		if _, ok := p.rules[pat.Name()]; !ok {
			return &grammar.UndefinedRuleError{
				Grammar:  p.grammar.Name(),
				Rule:     pat.Name(),
				Referrer: owner,
			}
		}
	}
	return nil
}

// Grammar returns the grammar this program was compiled from.
func (p *Program) Grammar() *grammar.Grammar { return p.grammar }

// Rules returns every visible rule name in resolution priority order.
func (p *Program) Rules() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// HasRule reports whether the program defines the named rule.
func (p *Program) HasRule(name string) bool {
	_, ok := p.rules[name]
	return ok
}

// startRule resolves the start rule for an operation. An empty name means
// the implicit entry rule.
func (p *Program) startRule(name string) (*rule, error) {
	if name == "" {
		r, ok := p.rules[EntryRule]
		if !ok {
			return nil, &EntryRuleError{Grammar: p.grammar.Name()}
		}
		return r, nil
	}
	r, ok := p.rules[name]
	if !ok {
		return nil, &grammar.UndefinedRuleError{Grammar: p.grammar.Name(), Rule: name}
	}
	return r, nil
}

// Parse matches the start rule anchored at the beginning of input and
// requires it to consume the entire input. An empty startRule means
// EntryRule. On success the committed Match tree is returned and acts, if
// non-nil, is dispatched bottom-up over it. On failure the error wraps
// ErrNoMatch and carries the furthest offset reached.
func (p *Program) Parse(ctx context.Context, startRule, input string, acts Actions) (*Match, error) {
	r, err := p.startRule(startRule)
	if err != nil {
		return nil, err
	}
	m := newMatcher(ctx, p, input)
	root, ok, err := m.runAt(r, 0, len(input))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NoMatchError{Rule: r.name, Furthest: m.furthest}
	}
	acts.dispatch(root)
	return root, nil
}

// ParsePrefix is Parse without the requirement to consume the entire
// input: the start rule matches a prefix of input, greedily preferring the
// longest prefix its backtracking order reaches first.
func (p *Program) ParsePrefix(ctx context.Context, startRule, input string, acts Actions) (*Match, error) {
	r, err := p.startRule(startRule)
	if err != nil {
		return nil, err
	}
	m := newMatcher(ctx, p, input)
	root, ok, err := m.runAt(r, 0, -1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NoMatchError{Rule: r.name, Furthest: m.furthest}
	}
	acts.dispatch(root)
	return root, nil
}

// Search finds the leftmost match of the start rule at or after offset
// from. Candidate start positions come from the rule's literal prefilter
// when one was built; every candidate is confirmed by the matcher, so the
// prefilter never changes results. The step budget covers the entire
// search, not each candidate separately.
func (p *Program) Search(ctx context.Context, startRule, input string, from int, acts Actions) (*Match, error) {
	r, err := p.startRule(startRule)
	if err != nil {
		return nil, err
	}
	if from < 0 {
		from = 0
	}

	m := newMatcher(ctx, p, input)
	pf := p.prefilters[r.name]
	var hay []byte
	if pf.needsBytes() {
		hay = []byte(input)
	}

	for at := from; at <= len(input); at++ {
		if pf != nil {
			cand := pf.next(input, hay, at)
			if cand < 0 {
				break
			}
			at = cand
		}
		root, ok, err := m.runAt(r, at, -1)
		if err != nil {
			return nil, err
		}
		if ok {
			acts.dispatch(root)
			return root, nil
		}
	}
	return nil, &NoMatchError{Rule: r.name, Furthest: m.furthest}
}

// FindAll returns successive non-overlapping matches of the start rule.
// If n > 0 at most n matches are returned; n <= 0 returns all. An empty
// match advances the scan by one byte so the search always terminates.
// acts, if non-nil, is dispatched once per committed match, in match
// order.
func (p *Program) FindAll(ctx context.Context, startRule, input string, n int, acts Actions) ([]*Match, error) {
	if n == 0 {
		return nil, nil
	}

	var out []*Match
	pos := 0
	for pos <= len(input) {
		match, err := p.Search(ctx, startRule, input, pos, acts)
		if err != nil {
			if errors.Is(err, ErrNoMatch) {
				break
			}
			return nil, err
		}
		out = append(out, match)
		if n > 0 && len(out) >= n {
			break
		}
		if match.End() > pos {
			pos = match.End()
		} else {
			pos++
		}
	}
	return out, nil
}
