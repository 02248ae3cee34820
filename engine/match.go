package engine

import (
	"fmt"
)

// Match is one node of the result tree produced by a successful parse.
//
// A node records the span of input matched by one capturing rule
// invocation, the ordered list of capturing sub-matches made inside it,
// and a name-keyed view of those sub-matches. Text is exposed as a
// substring of the original input; no text is copied.
//
// Match nodes are read-only after construction and safe to share.
type Match struct {
	input    string
	rule     string
	start    int
	end      int
	children []*Match
	named    map[string]*Match
}

// newMatch builds a committed match node from the capture journal entries
// produced while matching the rule body. The children slice is owned by
// the new node.
func newMatch(input, rule string, start, end int, children []*Match) *Match {
	m := &Match{
		input:    input,
		rule:     rule,
		start:    start,
		end:      end,
		children: children,
	}
	if len(children) > 0 {
		m.named = make(map[string]*Match, len(children))
		for _, c := range children {
			// Repeated matches of one name: last match wins in the
			// name-keyed view; Positional keeps every occurrence.
			m.named[c.rule] = c
		}
	}
	return m
}

// Rule returns the name of the rule that produced this node.
func (m *Match) Rule() string { return m.rule }

// Start returns the byte offset of the start of the matched span.
func (m *Match) Start() int { return m.start }

// End returns the byte offset just past the matched span.
func (m *Match) End() int { return m.end }

// Span returns the matched span as (start, end) byte offsets into the
// original input.
func (m *Match) Span() (start, end int) { return m.start, m.end }

// Len returns the length of the matched span in bytes.
func (m *Match) Len() int { return m.end - m.start }

// Text returns the matched substring of the original input.
func (m *Match) Text() string { return m.input[m.start:m.end] }

// Positional returns the capturing sub-matches in the order they were
// committed, including every occurrence of rules matched repeatedly.
// The returned slice is shared and must not be modified.
func (m *Match) Positional() []*Match { return m.children }

// Captures returns the name-keyed sub-matches. When a named rule matched
// more than once inside this node, the map holds the last occurrence;
// earlier occurrences remain available through Positional.
// The returned map is shared and must not be modified.
func (m *Match) Captures() map[string]*Match { return m.named }

// Capture returns the sub-match for name, or nil when the name was not
// captured in this node.
func (m *Match) Capture(name string) *Match {
	return m.named[name]
}

// Has reports whether name was captured in this node.
func (m *Match) Has(name string) bool {
	_, ok := m.named[name]
	return ok
}

// String returns a compact diagnostic form: rule, span and matched text.
func (m *Match) String() string {
	return fmt.Sprintf("%s[%d:%d] %q", m.rule, m.start, m.end, m.Text())
}

// Actions maps rule names to callbacks invoked after a successful parse,
// once per committed named-rule match. Dispatch is bottom-up: a rule's
// callback runs after the callbacks of every capture inside it, in the
// order the matches were committed during the parse. Matches discarded by
// backtracking are never dispatched.
//
// Callbacks observe the match only; their return is void and they cannot
// influence the parse outcome.
type Actions map[string]func(*Match)

// dispatch walks the committed result tree post-order, invoking the
// callback registered for each node's rule name.
func (a Actions) dispatch(m *Match) {
	if len(a) == 0 || m == nil {
		return
	}
	for _, c := range m.children {
		a.dispatch(c)
	}
	if fn, ok := a[m.rule]; ok && fn != nil {
		fn(m)
	}
}
