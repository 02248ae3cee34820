package pattern

import (
	"testing"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		pat  Pattern
		want Kind
	}{
		{Lit("x"), KindLiteral},
		{Digit(), KindClass},
		{Seq(Lit("a"), Lit("b")), KindSequence},
		{Alt(Lit("a"), Lit("b")), KindChoice},
		{Star(Lit("a")), KindRepetition},
		{Ref("x"), KindRuleRef},
		{Action(func(string, int) {}), KindCode},
	}
	for _, tt := range tests {
		if got := tt.pat.Kind(); got != tt.want {
			t.Errorf("%v.Kind() = %v, want %v", tt.pat, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		pat  Pattern
		want string
	}{
		{Lit("ab"), `"ab"`},
		{Seq(Lit("a"), Lit("b")), `("a" "b")`},
		{Alt(Lit("a"), Lit("b")), `("a" | "b")`},
		{Star(Lit("a")), `"a"*`},
		{Plus(Lit("a")), `"a"+`},
		{Opt(Lit("a")), `"a"?`},
		{Repeat(Lit("a"), 2, 3), `"a"{2,3}`},
		{Repeat(Lit("a"), 2, Unbounded), `"a"{2,}`},
		{Ref("name"), "<name>"},
		{RefNC("name"), "<.name>"},
		{Action(func(string, int) {}), "{...}"},
		{Word(), "<word>"},
		{NotSpace(), "<!space>"},
		{OneOf("+-"), "[+-]"},
		{In(RuneRange{'a', 'z'}, RuneRange{'0', '0'}), "[a-z0]"},
		{NotIn(RuneRange{'a', 'z'}), "[^a-z]"},
	}
	for _, tt := range tests {
		if got := tt.pat.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRepeatBoundsAccessors(t *testing.T) {
	r := Repeat(Lit("a"), 2, 5)
	if r.Min() != 2 || r.Max() != 5 {
		t.Errorf("bounds = {%d,%d}, want {2,5}", r.Min(), r.Max())
	}
	if Star(Lit("a")).Max() != Unbounded {
		t.Error("Star has a bounded Max")
	}
	if Opt(Lit("a")).Max() != 1 {
		t.Error("Opt.Max != 1")
	}
}

func TestSeqCopiesChildren(t *testing.T) {
	children := []Pattern{Lit("a"), Lit("b")}
	s := Seq(children...)
	children[0] = Lit("mutated")
	if s.Children()[0].(*Literal).Text() != "a" {
		t.Error("Seq shares the caller's child slice")
	}
}

func TestRefCapturing(t *testing.T) {
	if !Ref("x").Capturing() {
		t.Error("Ref is not capturing")
	}
	if RefNC("x").Capturing() {
		t.Error("RefNC is capturing")
	}
	if Ref("x").Name() != "x" {
		t.Error("Name() mismatch")
	}
}

func TestConstructorPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Seq no children", func() { Seq() }},
		{"Seq nil child", func() { Seq(Lit("a"), nil) }},
		{"Alt no children", func() { Alt() }},
		{"Alt nil child", func() { Alt(nil) }},
		{"Repeat nil child", func() { Repeat(nil, 0, 1) }},
		{"Repeat negative min", func() { Repeat(Lit("a"), -1, 1) }},
		{"Repeat max below min", func() { Repeat(Lit("a"), 3, 2) }},
		{"Ref empty name", func() { Ref("") }},
		{"RefNC empty name", func() { RefNC("") }},
		{"Action nil func", func() { Action(nil) }},
		{"In no ranges", func() { In() }},
		{"In inverted range", func() { In(RuneRange{'z', 'a'}) }},
		{"OneOf empty set", func() { OneOf("") }},
		{"ClassFunc nil predicate", func() { ClassFunc("x", nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", tt.name)
				}
			}()
			tt.fn()
		})
	}
}

func TestClassContains(t *testing.T) {
	tests := []struct {
		name  string
		class *Class
		r     rune
		want  bool
	}{
		{"range in", In(RuneRange{'a', 'z'}), 'm', true},
		{"range out", In(RuneRange{'a', 'z'}), 'M', false},
		{"multi range", In(RuneRange{'a', 'f'}, RuneRange{'0', '9'}), '7', true},
		{"negated in", NotIn(RuneRange{'a', 'z'}), 'm', false},
		{"negated out", NotIn(RuneRange{'a', 'z'}), '!', true},
		{"one of", OneOf("+-"), '-', true},
		{"one of miss", OneOf("+-"), '*', false},
		{"any", Any(), '\n', true},
		{"digit", Digit(), '7', true},
		{"digit miss", Digit(), 'x', false},
		{"word underscore", Word(), '_', true},
		{"word unicode letter", Word(), 'é', true},
		{"word miss", Word(), '-', false},
		{"not word", NotWord(), '-', true},
		{"space", Space(), '\t', true},
		{"not space", NotSpace(), 'x', true},
		{"func", ClassFunc("vowel", func(r rune) bool { return r == 'a' || r == 'e' }), 'e', true},
		{"func miss", ClassFunc("vowel", func(r rune) bool { return r == 'a' || r == 'e' }), 'b', false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.class.Contains(tt.r); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestPredicateClassHasNoRanges(t *testing.T) {
	if Word().Ranges() != nil {
		t.Error("predicate class exposes ranges")
	}
	if got := OneOf("ab").Ranges(); len(got) != 2 {
		t.Errorf("OneOf(\"ab\") has %d ranges, want 2", len(got))
	}
}
