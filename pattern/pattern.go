// Package pattern defines the immutable pattern tree consumed by the gram
// match engine.
//
// A pattern is a variant node describing one matching primitive: literal
// text, a character class, a sequence, an ordered-choice alternation, a
// greedy repetition, a reference to a named grammar rule, or an inline code
// action. Patterns are built with the constructor functions in this package
// and are immutable after construction: constructors copy child slices and
// nodes expose read-only accessors only.
//
// Example:
//
//	// \w+ \s+ \w+
//	p := pattern.Seq(
//	    pattern.Plus(pattern.Word()),
//	    pattern.Plus(pattern.Space()),
//	    pattern.Plus(pattern.Word()),
//	)
//
// Patterns do not match text by themselves; they are registered as grammar
// rules and executed by the engine package.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant of a pattern node.
type Kind int

const (
	KindLiteral Kind = iota
	KindClass
	KindSequence
	KindChoice
	KindRepetition
	KindRuleRef
	KindCode
)

// Pattern is the interface implemented by all pattern nodes.
//
// All implementations are immutable after construction and safe to share
// between grammars and concurrent parses.
type Pattern interface {
	// Kind returns the variant of this node.
	Kind() Kind

	// String returns a compact diagnostic form of the pattern.
	String() string
}

// Literal matches an exact text at the cursor position.
type Literal struct {
	text string
}

// Lit returns a pattern matching the exact text.
// Lit("") matches the empty string at any position.
func Lit(text string) *Literal {
	return &Literal{text: text}
}

// Kind returns KindLiteral.
func (p *Literal) Kind() Kind { return KindLiteral }

// Text returns the literal text this pattern matches.
func (p *Literal) Text() string { return p.text }

func (p *Literal) String() string { return strconv.Quote(p.text) }

// Sequence matches its children in order, each starting where the previous
// one ended.
type Sequence struct {
	children []Pattern
}

// Seq returns a pattern matching each child in order.
// The child slice is copied; later mutation of the argument has no effect.
func Seq(children ...Pattern) *Sequence {
	return &Sequence{children: copyChildren("Seq", children)}
}

// Kind returns KindSequence.
func (p *Sequence) Kind() Kind { return KindSequence }

// Children returns the child patterns in match order.
// The returned slice is shared and must not be modified.
func (p *Sequence) Children() []Pattern { return p.children }

func (p *Sequence) String() string { return joinChildren(p.children, " ") }

// Choice matches the first child that succeeds, trying children in
// declaration order.
//
// Choice uses ordered-choice semantics: once an alternative has succeeded,
// the alternation is committed to it. If a later element of the enclosing
// sequence fails, the engine backtracks within the chosen alternative but
// never retries a later alternative. A later alternative is reconsidered
// only when the alternation node itself is re-attempted (for example when
// an enclosing repetition backtracks past it).
type Choice struct {
	children []Pattern
}

// Alt returns an ordered-choice pattern over the given alternatives.
// The child slice is copied; later mutation of the argument has no effect.
func Alt(children ...Pattern) *Choice {
	return &Choice{children: copyChildren("Alt", children)}
}

// Kind returns KindChoice.
func (p *Choice) Kind() Kind { return KindChoice }

// Children returns the alternatives in declaration order.
// The returned slice is shared and must not be modified.
func (p *Choice) Children() []Pattern { return p.children }

func (p *Choice) String() string { return joinChildren(p.children, " | ") }

// Unbounded marks a repetition with no upper bound.
const Unbounded = -1

// Repetition matches its child between Min and Max times.
//
// Repetition is greedy: the engine tries the longest run first and
// backtracks to shorter runs when the remainder of the pattern fails.
type Repetition struct {
	child Pattern
	min   int
	max   int // Unbounded for no upper bound
}

// Repeat returns a pattern matching child between min and max times.
// Pass Unbounded as max for no upper bound.
// Repeat panics if child is nil, min is negative, or max is neither
// Unbounded nor >= min.
func Repeat(child Pattern, min, max int) *Repetition {
	if child == nil {
		panic("pattern: Repeat with nil child")
	}
	if min < 0 {
		panic("pattern: Repeat with negative min")
	}
	if max != Unbounded && max < min {
		panic(fmt.Sprintf("pattern: Repeat with max %d < min %d", max, min))
	}
	return &Repetition{child: child, min: min, max: max}
}

// Star returns child*, zero or more matches.
func Star(child Pattern) *Repetition { return Repeat(child, 0, Unbounded) }

// Plus returns child+, one or more matches.
func Plus(child Pattern) *Repetition { return Repeat(child, 1, Unbounded) }

// Opt returns child?, zero or one match.
func Opt(child Pattern) *Repetition { return Repeat(child, 0, 1) }

// Kind returns KindRepetition.
func (p *Repetition) Kind() Kind { return KindRepetition }

// Child returns the repeated pattern.
func (p *Repetition) Child() Pattern { return p.child }

// Min returns the minimum repetition count.
func (p *Repetition) Min() int { return p.min }

// Max returns the maximum repetition count, or Unbounded.
func (p *Repetition) Max() int { return p.max }

func (p *Repetition) String() string {
	switch {
	case p.min == 0 && p.max == Unbounded:
		return p.child.String() + "*"
	case p.min == 1 && p.max == Unbounded:
		return p.child.String() + "+"
	case p.min == 0 && p.max == 1:
		return p.child.String() + "?"
	default:
		if p.max == Unbounded {
			return fmt.Sprintf("%s{%d,}", p.child, p.min)
		}
		return fmt.Sprintf("%s{%d,%d}", p.child, p.min, p.max)
	}
}

// RuleRef invokes a named grammar rule at the cursor position.
//
// Rule names are resolved at match time against the grammar the engine was
// compiled for, so an override in a derived grammar is visible to every
// rule that references the name, including rules defined in a parent.
type RuleRef struct {
	name      string
	capturing bool
}

// Ref returns a capturing reference to the named rule. On success the
// sub-match is recorded as a named child of the enclosing match node.
func Ref(name string) *RuleRef {
	if name == "" {
		panic("pattern: Ref with empty rule name")
	}
	return &RuleRef{name: name, capturing: true}
}

// RefNC returns a non-capturing reference to the named rule. The rule is
// matched (and any inline actions in it run), but no capture is recorded.
func RefNC(name string) *RuleRef {
	if name == "" {
		panic("pattern: RefNC with empty rule name")
	}
	return &RuleRef{name: name, capturing: false}
}

// Kind returns KindRuleRef.
func (p *RuleRef) Kind() Kind { return KindRuleRef }

// Name returns the referenced rule name.
func (p *RuleRef) Name() string { return p.name }

// Capturing reports whether a successful sub-match is recorded as a named
// capture.
func (p *RuleRef) Capturing() bool { return p.capturing }

func (p *RuleRef) String() string {
	if p.capturing {
		return "<" + p.name + ">"
	}
	return "<." + p.name + ">"
}

// ActionFunc is an inline code block embedded in a pattern. It receives the
// input string and the cursor position at which it runs.
type ActionFunc func(input string, pos int)

// Code is a zero-width pattern that runs an inline action at match time.
//
// The action runs immediately when the engine reaches it, every time the
// engine reaches it. Side effects are never rolled back: if the enclosing
// pattern backtracks past this point and retries, the action runs again.
// Callers needing effects only for committed matches should use the
// post-commit action dispatcher (engine.Actions) instead.
type Code struct {
	fn ActionFunc
}

// Action returns a zero-width pattern running fn at match time.
// Action panics if fn is nil.
func Action(fn ActionFunc) *Code {
	if fn == nil {
		panic("pattern: Action with nil func")
	}
	return &Code{fn: fn}
}

// Kind returns KindCode.
func (p *Code) Kind() Kind { return KindCode }

// Func returns the inline action.
func (p *Code) Func() ActionFunc { return p.fn }

func (p *Code) String() string { return "{...}" }

// copyChildren copies and validates a child slice.
func copyChildren(ctor string, children []Pattern) []Pattern {
	if len(children) == 0 {
		panic("pattern: " + ctor + " with no children")
	}
	out := make([]Pattern, len(children))
	for i, c := range children {
		if c == nil {
			panic("pattern: " + ctor + " with nil child")
		}
		out[i] = c
	}
	return out
}

func joinChildren(children []Pattern, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
