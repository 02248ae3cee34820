package engine

import (
	"strings"

	"github.com/coregx/ahocorasick"
)

// prefilter proposes candidate start positions for Search by scanning for
// the start rule's leading literals. One literal uses a plain substring
// scan; several use an Aho-Corasick automaton. A prefilter is only a
// candidate generator: the matcher confirms every candidate, so filtering
// never changes results.
type prefilter struct {
	lit  string
	auto *ahocorasick.Automaton
}

// buildPrefilter returns the prefilter for a rule, or nil when the rule
// has no complete, non-empty leading-literal set.
func (p *Program) buildPrefilter(name string) *prefilter {
	r := p.rules[name]
	h := p.headsOf(r.body, map[string]bool{name: true})
	if !h.complete || h.mayBeEmpty || len(h.lits) == 0 {
		return nil
	}
	if len(h.lits) == 1 {
		return &prefilter{lit: h.lits[0]}
	}
	b := ahocorasick.NewBuilder()
	for _, lit := range h.lits {
		b.AddPattern([]byte(lit))
	}
	auto, err := b.Build()
	if err != nil {
		return nil
	}
	return &prefilter{auto: auto}
}

// needsBytes reports whether next requires the []byte form of the input.
func (pf *prefilter) needsBytes() bool {
	return pf != nil && pf.auto != nil
}

// next returns the smallest candidate start position >= at, or -1 when no
// leading literal occurs at or after at. hay is the []byte form of input,
// required only for the automaton path.
func (pf *prefilter) next(input string, hay []byte, at int) int {
	if at >= len(input) {
		return -1
	}
	if pf.auto != nil {
		m := pf.auto.Find(hay, at)
		if m == nil {
			return -1
		}
		return m.Start
	}
	i := strings.Index(input[at:], pf.lit)
	if i < 0 {
		return -1
	}
	return at + i
}
