package pattern

import (
	"fmt"
	"strings"
	"unicode"
)

// RuneRange is an inclusive range of runes in a character class.
type RuneRange struct {
	Lo, Hi rune
}

// Class matches a single rune accepted by a predicate or a set of ranges.
type Class struct {
	name    string
	ranges  []RuneRange
	negated bool
	pred    func(rune) bool
}

// In returns a class matching any rune inside one of the given ranges.
func In(ranges ...RuneRange) *Class {
	return &Class{ranges: copyRanges("In", ranges)}
}

// NotIn returns a class matching any rune outside all of the given ranges.
func NotIn(ranges ...RuneRange) *Class {
	return &Class{ranges: copyRanges("NotIn", ranges), negated: true}
}

// OneOf returns a class matching any rune of set.
func OneOf(set string) *Class {
	if set == "" {
		panic("pattern: OneOf with empty set")
	}
	ranges := make([]RuneRange, 0, len(set))
	for _, r := range set {
		ranges = append(ranges, RuneRange{r, r})
	}
	return &Class{ranges: ranges}
}

// ClassFunc returns a class matching any rune accepted by pred.
// The name is used in diagnostics only.
// ClassFunc panics if pred is nil.
func ClassFunc(name string, pred func(rune) bool) *Class {
	if pred == nil {
		panic("pattern: ClassFunc with nil predicate")
	}
	return &Class{name: name, pred: pred}
}

// Stock classes. Word, Space and Digit follow the usual \w, \s and \d
// definitions over Unicode.

// Any returns a class matching any single rune.
func Any() *Class { return anyClass }

// Digit returns a class matching a decimal digit rune (\d).
func Digit() *Class { return digitClass }

// Word returns a class matching a word rune (\w): letter, digit or underscore.
func Word() *Class { return wordClass }

// Space returns a class matching a whitespace rune (\s).
func Space() *Class { return spaceClass }

// NotWord returns the complement of Word (\W).
func NotWord() *Class { return notWordClass }

// NotSpace returns the complement of Space (\S).
func NotSpace() *Class { return notSpaceClass }

var (
	anyClass   = &Class{name: "any", pred: func(rune) bool { return true }}
	digitClass = &Class{name: "digit", pred: unicode.IsDigit}
	wordClass  = &Class{name: "word", pred: isWordRune}
	spaceClass = &Class{name: "space", pred: unicode.IsSpace}

	notWordClass  = &Class{name: "!word", pred: isWordRune, negated: true}
	notSpaceClass = &Class{name: "!space", pred: unicode.IsSpace, negated: true}
)

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Kind returns KindClass.
func (p *Class) Kind() Kind { return KindClass }

// Contains reports whether the class accepts r.
func (p *Class) Contains(r rune) bool {
	var in bool
	if p.pred != nil {
		in = p.pred(r)
	} else {
		for _, rr := range p.ranges {
			if r >= rr.Lo && r <= rr.Hi {
				in = true
				break
			}
		}
	}
	return in != p.negated
}

// Ranges returns the explicit rune ranges of the class, or nil for a
// predicate-backed class. The returned slice is shared and must not be
// modified.
func (p *Class) Ranges() []RuneRange { return p.ranges }

// Negated reports whether the class is complemented.
func (p *Class) Negated() bool { return p.negated }

func (p *Class) String() string {
	if p.name != "" {
		return "<" + p.name + ">"
	}
	var b strings.Builder
	b.WriteByte('[')
	if p.negated {
		b.WriteByte('^')
	}
	for _, rr := range p.ranges {
		if rr.Lo == rr.Hi {
			b.WriteRune(rr.Lo)
		} else {
			fmt.Fprintf(&b, "%c-%c", rr.Lo, rr.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func copyRanges(ctor string, ranges []RuneRange) []RuneRange {
	if len(ranges) == 0 {
		panic("pattern: " + ctor + " with no ranges")
	}
	out := make([]RuneRange, len(ranges))
	for i, rr := range ranges {
		if rr.Hi < rr.Lo {
			panic(fmt.Sprintf("pattern: %s with inverted range %q-%q", ctor, rr.Lo, rr.Hi))
		}
		out[i] = rr
	}
	return out
}
