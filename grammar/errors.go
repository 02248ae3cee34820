package grammar

import (
	"errors"
	"fmt"
)

// ErrUndefinedRule indicates a rule name that resolves nowhere in a
// grammar's resolution chain. It is a definition-time error: the engine
// surfaces it when compiling a grammar, before any input is matched.
var ErrUndefinedRule = errors.New("undefined rule")

// UndefinedRuleError carries the context of a failed rule resolution.
type UndefinedRuleError struct {
	// Grammar is the name of the grammar the lookup started from.
	Grammar string

	// Rule is the name that failed to resolve.
	Rule string

	// Referrer is the rule whose body contains the dangling reference,
	// when known. Empty for direct lookups.
	Referrer string
}

// Error implements the error interface.
func (e *UndefinedRuleError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("grammar %q: rule %q references undefined rule %q", e.Grammar, e.Referrer, e.Rule)
	}
	return fmt.Sprintf("grammar %q: undefined rule %q", e.Grammar, e.Rule)
}

// Unwrap returns ErrUndefinedRule so callers can test with errors.Is.
func (e *UndefinedRuleError) Unwrap() error { return ErrUndefinedRule }
