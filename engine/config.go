package engine

// Config controls match-engine limits and strategy selection.
//
// The zero value is usable: Compile replaces zero fields with the
// DefaultConfig values.
//
// Example:
//
//	cfg := engine.DefaultConfig()
//	cfg.MaxSteps = 10_000 // fail fast on pathological backtracking
//	prog, err := engine.Compile(g, cfg)
type Config struct {
	// MaxSteps bounds the number of primitive match attempts in one
	// top-level parse or search. Nested repetition over alternation can
	// backtrack exponentially; the limit turns runaway parses into an
	// AbortError instead of unbounded work.
	// Default: 10,000,000.
	MaxSteps int

	// MaxActiveEntries bounds the size of the sparse activation set used
	// for left-recursion cutoff. When numRules*(len(input)+1) exceeds the
	// limit the engine falls back to a map-based set.
	// Default: 262,144.
	MaxActiveEntries int

	// EnablePrefilter enables literal-based candidate scanning for Search
	// and FindAll. When the start rule is known to begin with one of a
	// complete set of literals, candidate positions come from a literal
	// scan (strings.Index for one literal, an Aho-Corasick automaton for
	// several) instead of trying every offset. Prefilters only propose
	// candidates; every candidate is confirmed by the matcher.
	// Default: true.
	EnablePrefilter bool
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxSteps:         10_000_000,
		MaxActiveEntries: 256 * 1024,
		EnablePrefilter:  true,
	}
}

// withDefaults fills zero fields from DefaultConfig. EnablePrefilter is
// boolean and cannot be defaulted this way; Compile entry points take the
// config by value from callers that started from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxSteps <= 0 {
		c.MaxSteps = def.MaxSteps
	}
	if c.MaxActiveEntries <= 0 {
		c.MaxActiveEntries = def.MaxActiveEntries
	}
	return c
}
