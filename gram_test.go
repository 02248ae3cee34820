package gram_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coregx/gram"
	"github.com/coregx/gram/engine"
	"github.com/coregx/gram/grammar"
	"github.com/coregx/gram/pattern"
)

func nameGrammar() *gram.Grammar {
	g := gram.NewGrammar("name")
	g.Define("TOP", pattern.Seq(
		pattern.Ref("first"),
		pattern.Plus(pattern.Space()),
		pattern.Ref("last"),
	))
	g.Define("first", pattern.Plus(pattern.Word()))
	g.Define("last", pattern.Plus(pattern.Word()))
	return g
}

func TestCompileAndParse(t *testing.T) {
	p, err := gram.Compile(nameGrammar())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	m, err := p.Parse("Jane Doe")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Capture("first").Text() != "Jane" || m.Capture("last").Text() != "Doe" {
		t.Errorf("captures = %q/%q, want Jane/Doe",
			m.Capture("first").Text(), m.Capture("last").Text())
	}

	if _, err := p.Parse("Jane"); !errors.Is(err, engine.ErrNoMatch) {
		t.Fatalf("Parse(\"Jane\") = %v, want ErrNoMatch", err)
	}
}

func TestCompileReportsUndefinedRule(t *testing.T) {
	g := gram.NewGrammar("bad")
	g.Define("TOP", pattern.Ref("missing"))

	_, err := gram.Compile(g)
	if !errors.Is(err, grammar.ErrUndefinedRule) {
		t.Fatalf("Compile = %v, want ErrUndefinedRule", err)
	}
}

func TestMustCompilePanicsOnInvalidGrammar(t *testing.T) {
	g := gram.NewGrammar("bad")
	g.Define("TOP", pattern.Ref("missing"))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustCompile did not panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "bad") {
			t.Errorf("panic = %v, want message naming the grammar", r)
		}
	}()
	gram.MustCompile(g)
}

func TestParseRuleAndPrefix(t *testing.T) {
	p := gram.MustCompile(nameGrammar())

	m, err := p.ParseRule("first", "Jane")
	if err != nil {
		t.Fatalf("ParseRule failed: %v", err)
	}
	if m.Rule() != "first" || m.Text() != "Jane" {
		t.Errorf("ParseRule = %v, want first \"Jane\"", m)
	}

	m, err = p.ParsePrefix("first", "Jane Doe")
	if err != nil {
		t.Fatalf("ParsePrefix failed: %v", err)
	}
	if m.Text() != "Jane" {
		t.Errorf("ParsePrefix matched %q, want %q", m.Text(), "Jane")
	}
}

func TestSearchAndFindAll(t *testing.T) {
	g := gram.NewGrammar("nums")
	g.Define("TOP", pattern.Plus(pattern.Digit()))
	p := gram.MustCompile(g)

	m, err := p.Search("abc 42 def 7")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if m.Text() != "42" || m.Start() != 4 {
		t.Errorf("Search = %v, want 42 at 4", m)
	}

	ms, err := p.FindAll("", "abc 42 def 7", -1)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(ms) != 2 || ms[0].Text() != "42" || ms[1].Text() != "7" {
		t.Errorf("FindAll = %v, want [42 7]", ms)
	}
}

func TestParseActionsDispatch(t *testing.T) {
	p := gram.MustCompile(nameGrammar())

	var names []string
	acts := gram.Actions{
		"first": func(m *gram.Match) { names = append(names, m.Text()) },
		"last":  func(m *gram.Match) { names = append(names, m.Text()) },
	}
	if _, err := p.ParseActions("Jane Doe", acts); err != nil {
		t.Fatalf("ParseActions failed: %v", err)
	}
	if len(names) != 2 || names[0] != "Jane" || names[1] != "Doe" {
		t.Errorf("dispatched = %v, want [Jane Doe]", names)
	}
}

func TestParseContextCancellation(t *testing.T) {
	g := gram.NewGrammar("pathological")
	g.Define("TOP", pattern.Seq(
		pattern.Star(pattern.Plus(pattern.Lit("a"))),
		pattern.Lit("b"),
	))
	p := gram.MustCompile(g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ParseContext(ctx, "", strings.Repeat("a", 64), nil)
	if !errors.Is(err, engine.ErrAborted) {
		t.Fatalf("ParseContext = %v, want ErrAborted", err)
	}
}

func TestCompileWithConfigLimits(t *testing.T) {
	cfg := gram.DefaultConfig()
	cfg.MaxSteps = 100

	g := gram.NewGrammar("pathological")
	g.Define("TOP", pattern.Seq(
		pattern.Star(pattern.Plus(pattern.Lit("a"))),
		pattern.Lit("b"),
	))
	p, err := gram.CompileWithConfig(g, cfg)
	if err != nil {
		t.Fatalf("CompileWithConfig failed: %v", err)
	}
	if _, err := p.Parse(strings.Repeat("a", 32)); !errors.Is(err, engine.ErrAborted) {
		t.Fatalf("Parse = %v, want ErrAborted", err)
	}
}

func TestParserIntrospection(t *testing.T) {
	p := gram.MustCompile(nameGrammar())

	if p.String() != "name" {
		t.Errorf("String() = %q, want %q", p.String(), "name")
	}
	if !p.HasRule("first") || p.HasRule("nope") {
		t.Error("HasRule reported wrong visibility")
	}
	rules := p.Rules()
	if len(rules) != 3 || rules[0] != "TOP" {
		t.Errorf("Rules() = %v, want [TOP first last]", rules)
	}
	if p.Grammar().Name() != "name" {
		t.Errorf("Grammar().Name() = %q", p.Grammar().Name())
	}
}

func TestInheritanceThroughRootAPI(t *testing.T) {
	base := gram.NewGrammar("base")
	base.Define("TOP", pattern.Seq(pattern.Lit("["), pattern.Ref("item"), pattern.Lit("]")))
	base.Define("item", pattern.Plus(pattern.Digit()))

	derived := gram.NewGrammar("derived", gram.WithParent(base))
	derived.Define("item", pattern.Plus(pattern.Word()))

	p := gram.MustCompile(derived)
	m, err := p.Parse("[abc]")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Capture("item").Text() != "abc" {
		t.Errorf(`Capture("item") = %q, want "abc"`, m.Capture("item").Text())
	}
}

func TestMixinsThroughRootAPI(t *testing.T) {
	ops := gram.NewRuleSet("ops")
	ops.Define("op", pattern.OneOf("+-*/"))

	g := gram.NewGrammar("expr", gram.WithMixins(ops))
	g.Define("TOP", pattern.Seq(pattern.Ref("num"), pattern.Ref("op"), pattern.Ref("num")))
	g.Define("num", pattern.Plus(pattern.Digit()))

	p := gram.MustCompile(g)
	m, err := p.Parse("12*34")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Capture("op").Text() != "*" {
		t.Errorf(`Capture("op") = %q, want "*"`, m.Capture("op").Text())
	}
}
