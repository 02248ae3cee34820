package engine

import (
	"github.com/coregx/gram/pattern"
)

// Limits for leading-literal extraction. Rules fanning out beyond
// maxPrefilterLiterals alternatives, or through classes wider than
// maxClassExpansion runes, get no prefilter.
const (
	maxPrefilterLiterals = 64
	maxClassExpansion    = 8
)

// heads is the leading-literal analysis of a pattern: the set of literals
// one of which must prefix any match. The set is only usable when it is
// complete (every possible match starts with one of the literals) and the
// pattern cannot match the empty string.
type heads struct {
	lits       []string
	complete   bool
	mayBeEmpty bool
}

// headsOf computes the leading literals of pat. seen holds rule names on
// the current recursion path; a cycle makes the analysis incomplete
// rather than recursing forever.
func (p *Program) headsOf(pat pattern.Pattern, seen map[string]bool) heads {
	switch pat := pat.(type) {
	case *pattern.Literal:
		if pat.Text() == "" {
			return heads{complete: true, mayBeEmpty: true}
		}
		return heads{lits: []string{pat.Text()}, complete: true}

	case *pattern.Class:
		return classHeads(pat)

	case *pattern.Code:
		// Zero width; contributes nothing to the head set.
		return heads{complete: true, mayBeEmpty: true}

	case *pattern.Sequence:
		// Union heads of leading children for as long as each child may
		// match empty; the first child that cannot closes the set.
		var lits []string
		for _, c := range pat.Children() {
			h := p.headsOf(c, seen)
			if !h.complete {
				return heads{}
			}
			lits = append(lits, h.lits...)
			if len(lits) > maxPrefilterLiterals {
				return heads{}
			}
			if !h.mayBeEmpty {
				return heads{lits: dedupLiterals(lits), complete: true}
			}
		}
		return heads{lits: dedupLiterals(lits), complete: true, mayBeEmpty: true}

	case *pattern.Choice:
		var lits []string
		mayBeEmpty := false
		for _, c := range pat.Children() {
			h := p.headsOf(c, seen)
			if !h.complete {
				return heads{}
			}
			lits = append(lits, h.lits...)
			if len(lits) > maxPrefilterLiterals {
				return heads{}
			}
			mayBeEmpty = mayBeEmpty || h.mayBeEmpty
		}
		return heads{lits: dedupLiterals(lits), complete: true, mayBeEmpty: mayBeEmpty}

	case *pattern.Repetition:
		h := p.headsOf(pat.Child(), seen)
		if !h.complete {
			return heads{}
		}
		if pat.Min() == 0 {
			h.mayBeEmpty = true
		}
		return h

	case *pattern.RuleRef:
		if seen[pat.Name()] {
			return heads{}
		}
		r, ok := p.rules[pat.Name()]
		if !ok {
			return heads{}
		}
		seen[pat.Name()] = true
		h := p.headsOf(r.body, seen)
		delete(seen, pat.Name())
		return h
	}
	return heads{}
}

// classHeads expands a small, explicit, non-negated class into one literal
// per rune. Predicate-backed and negated classes are not enumerable.
func classHeads(c *pattern.Class) heads {
	ranges := c.Ranges()
	if ranges == nil || c.Negated() {
		return heads{}
	}
	total := 0
	for _, rr := range ranges {
		total += int(rr.Hi-rr.Lo) + 1
		if total > maxClassExpansion {
			return heads{}
		}
	}
	lits := make([]string, 0, total)
	for _, rr := range ranges {
		for r := rr.Lo; r <= rr.Hi; r++ {
			lits = append(lits, string(r))
		}
	}
	return heads{lits: lits, complete: true}
}

func dedupLiterals(lits []string) []string {
	if len(lits) < 2 {
		return lits
	}
	seen := make(map[string]bool, len(lits))
	out := lits[:0]
	for _, l := range lits {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
