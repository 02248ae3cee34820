package engine

import (
	"errors"
	"fmt"
)

// Common engine errors.
var (
	// ErrNoMatch indicates the start rule did not match the input. This is
	// a recoverable outcome, not a fault; the wrapping NoMatchError carries
	// the furthest input position the matcher reached, for diagnostics.
	ErrNoMatch = errors.New("no match")

	// ErrAborted indicates a parse was cut off by the step limit or by
	// context cancellation before completing.
	ErrAborted = errors.New("parse aborted")

	// ErrNoEntryRule indicates a grammar was used with the implicit entry
	// point but defines no rule named EntryRule ("TOP").
	ErrNoEntryRule = errors.New("grammar has no entry rule")
)

// NoMatchError reports a failed parse.
type NoMatchError struct {
	// Rule is the start rule that failed to match.
	Rule string

	// Furthest is the furthest byte offset the matcher reached before
	// giving up. Useful for pointing at the offending input position.
	Furthest int
}

// Error implements the error interface.
func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no match for rule %q (matching stopped at offset %d)", e.Rule, e.Furthest)
}

// Unwrap returns ErrNoMatch so callers can test with errors.Is.
func (e *NoMatchError) Unwrap() error { return ErrNoMatch }

// AbortError reports a parse cut off before completion.
type AbortError struct {
	// Steps is the number of primitive attempts executed before the abort.
	Steps int

	// Cause is the context error when the abort came from cancellation,
	// nil when it came from the step limit.
	Cause error
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse aborted after %d steps: %v", e.Steps, e.Cause)
	}
	return fmt.Sprintf("parse aborted: step limit of %d reached", e.Steps)
}

// Unwrap returns the cancellation cause, if any.
func (e *AbortError) Unwrap() error { return e.Cause }

// Is reports true for ErrAborted.
func (e *AbortError) Is(target error) bool { return target == ErrAborted }

// EntryRuleError reports use of the implicit entry point on a grammar that
// does not define it.
type EntryRuleError struct {
	// Grammar is the name of the grammar missing the entry rule.
	Grammar string
}

// Error implements the error interface.
func (e *EntryRuleError) Error() string {
	return fmt.Sprintf("grammar %q defines no %q rule and no start rule was given", e.Grammar, EntryRule)
}

// Unwrap returns ErrNoEntryRule so callers can test with errors.Is.
func (e *EntryRuleError) Unwrap() error { return ErrNoEntryRule }
