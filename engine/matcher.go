package engine

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/coregx/gram/grammar"
	"github.com/coregx/gram/internal/active"
	"github.com/coregx/gram/pattern"
)

// matcher executes one top-level parse or search over a single input
// string. It is single-threaded and not reused across calls; the Program
// it was built from is the shared, immutable part.
//
// Matching is recursive descent in continuation-passing style: match(p,
// pos, k) succeeds when p matches at pos in some way whose continuation k
// also succeeds. Backtracking falls out of the style: a primitive with
// several ways to match (a repetition, an alternation being re-attempted)
// calls k once per candidate end position, longest first, until k accepts.
type matcher struct {
	prog     *Program
	input    string
	ctx      context.Context
	maxSteps int

	// steps counts primitive attempts across the whole call, including
	// every restart position of a search, so MaxSteps bounds total work.
	steps int

	// furthest is the largest input offset at which a primitive failed,
	// reported in NoMatchError for diagnostics.
	furthest int

	// caps is the capture journal. Committed capturing rule matches are
	// appended in completion order; backtracking truncates back to a mark
	// so abandoned attempts leave no trace.
	caps []*Match

	// active tracks in-flight (rule, position) activations so left
	// recursion fails the branch instead of recursing forever.
	active *active.Tracker
}

// cont is a match continuation. It receives the end position of the
// current candidate match and reports whether the rest of the pattern
// succeeded from there.
type cont func(end int) (bool, error)

func newMatcher(ctx context.Context, prog *Program, input string) *matcher {
	if ctx == nil {
		ctx = context.Background()
	}
	return &matcher{
		prog:     prog,
		input:    input,
		ctx:      ctx,
		maxSteps: prog.cfg.MaxSteps,
		active:   active.NewTracker(len(prog.names), len(input), prog.cfg.MaxActiveEntries),
	}
}

// reset prepares the matcher for an attempt at a new start position.
// The step counter and furthest-failure offset deliberately survive.
func (m *matcher) reset() {
	m.caps = m.caps[:0]
	m.active.Reset()
}

// runAt matches rule r anchored at offset at. When requireEnd is >= 0 the
// match must end exactly there (full-input parse); -1 accepts any end
// (prefix match). On success the returned node is the committed root.
func (m *matcher) runAt(r *rule, at, requireEnd int) (*Match, bool, error) {
	m.reset()
	ok, err := m.match(r.ref, at, func(end int) (bool, error) {
		if requireEnd >= 0 && end != requireEnd {
			m.fail(end)
			return false, nil
		}
		return true, nil
	})
	if err != nil || !ok {
		return nil, false, err
	}
	return m.caps[0], true, nil
}

// fail records a failed primitive attempt at pos.
func (m *matcher) fail(pos int) {
	if pos > m.furthest {
		m.furthest = pos
	}
}

// step charges one primitive attempt against the budget and checks for
// cancellation every 1024 steps.
func (m *matcher) step() error {
	m.steps++
	if m.steps > m.maxSteps {
		return &AbortError{Steps: m.maxSteps}
	}
	if m.steps&1023 == 0 {
		select {
		case <-m.ctx.Done():
			return &AbortError{Steps: m.steps, Cause: m.ctx.Err()}
		default:
		}
	}
	return nil
}

// match attempts pattern p at pos, calling k for each candidate end
// position until k accepts one.
func (m *matcher) match(p pattern.Pattern, pos int, k cont) (bool, error) {
	if err := m.step(); err != nil {
		return false, err
	}

	switch p := p.(type) {
	case *pattern.Literal:
		t := p.Text()
		if strings.HasPrefix(m.input[pos:], t) {
			return k(pos + len(t))
		}
		m.fail(pos)
		return false, nil

	case *pattern.Class:
		if pos < len(m.input) {
			r, w := utf8.DecodeRuneInString(m.input[pos:])
			if w > 0 && p.Contains(r) {
				return k(pos + w)
			}
		}
		m.fail(pos)
		return false, nil

	case *pattern.Sequence:
		return m.matchSeq(p.Children(), pos, k)

	case *pattern.Choice:
		return m.matchChoice(p, pos, k)

	case *pattern.Repetition:
		return m.matchRepeat(p, pos, 0, k)

	case *pattern.RuleRef:
		return m.matchRef(p, pos, k)

	case *pattern.Code:
		// Inline actions run now, every time matching reaches them, and
		// are never rolled back when the branch is later abandoned.
		p.Func()(m.input, pos)
		return k(pos)
	}

	m.fail(pos)
	return false, nil
}

// matchSeq matches children left to right. Backtracking between children
// happens through the continuations: an earlier child with remaining
// candidates retries them when the tail fails.
func (m *matcher) matchSeq(children []pattern.Pattern, pos int, k cont) (bool, error) {
	if len(children) == 0 {
		return k(pos)
	}
	return m.match(children[0], pos, func(end int) (bool, error) {
		return m.matchSeq(children[1:], end, k)
	})
}

// matchChoice implements ordered choice: alternatives are tried in
// declaration order and the first one to succeed is committed. When the
// continuation fails after a successful alternative, the engine backtracks
// within that alternative but does not try later ones.
func (m *matcher) matchChoice(p *pattern.Choice, pos int, k cont) (bool, error) {
	for _, alt := range p.Children() {
		committed := false
		mark := len(m.caps)
		ok, err := m.match(alt, pos, func(end int) (bool, error) {
			committed = true
			return k(end)
		})
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		m.caps = m.caps[:mark]
		if committed {
			return false, nil
		}
	}
	return false, nil
}

// matchRepeat matches the n+1'th iteration of a repetition. Greedy: the
// extra iteration is tried before stopping, so the longest run is offered
// to the continuation first and shorter runs on backtracking.
func (m *matcher) matchRepeat(p *pattern.Repetition, pos, n int, k cont) (bool, error) {
	if max := p.Max(); max == pattern.Unbounded || n < max {
		mark := len(m.caps)
		ok, err := m.match(p.Child(), pos, func(end int) (bool, error) {
			if end == pos && n+1 >= p.Min() {
				// Zero-width iteration past the minimum: stop consuming
				// empties instead of looping forever.
				return k(end)
			}
			return m.matchRepeat(p, end, n+1, k)
		})
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		m.caps = m.caps[:mark]
	}
	if n >= p.Min() {
		return k(pos)
	}
	m.fail(pos)
	return false, nil
}

// matchRef invokes a named rule. The rule body is resolved through the
// compiled rule table, which was built from the most-derived grammar, so
// overrides are visible to inherited callers.
//
// A capturing reference wraps the body's journal entries into a committed
// Match node before running the continuation; a non-capturing reference
// discards them. Either way the entries are restored when the continuation
// fails, so the body can resume backtracking with a consistent journal.
func (m *matcher) matchRef(ref *pattern.RuleRef, pos int, k cont) (bool, error) {
	r, ok := m.prog.rules[ref.Name()]
	if !ok {
		// Compile validates every reachable reference; this guards
		// direct engine misuse.
		return false, &grammar.UndefinedRuleError{Grammar: m.prog.grammar.Name(), Rule: ref.Name()}
	}
	if !m.active.Enter(r.index, pos) {
		// Left recursion: this rule is already being matched here.
		m.fail(pos)
		return false, nil
	}
	mark := len(m.caps)
	matched, err := m.match(r.body, pos, func(end int) (bool, error) {
		m.active.Exit(r.index, pos)

		children := append([]*Match(nil), m.caps[mark:]...)
		m.caps = m.caps[:mark]
		if ref.Capturing() {
			m.caps = append(m.caps, newMatch(m.input, r.name, pos, end, children))
		}
		done, kerr := k(end)
		if kerr != nil {
			return false, kerr
		}
		if !done {
			// The continuation rejected this candidate: restore the
			// body's captures and re-arm the activation so the body can
			// keep backtracking.
			m.caps = append(m.caps[:mark], children...)
			m.active.Enter(r.index, pos)
		}
		return done, nil
	})
	if err != nil {
		return false, err
	}
	if !matched {
		m.active.Exit(r.index, pos)
		m.caps = m.caps[:mark]
	}
	return matched, nil
}
