package grammar

import (
	"fmt"
	"runtime"

	"github.com/parsekit/lalrtab/tabspec"
)

type compileConfig struct {
	strict      bool
	partials    bool
	parallelism int
	infos       string
}

type CompileOption func(c *compileConfig)

// StrictMode escalates any conflict, resolved or not, to a fatal
// ambiguous-grammar error.
func StrictMode() CompileOption {
	return func(c *compileConfig) {
		c.strict = true
	}
}

// EnablePartials generates the partial-match tables alongside the exact
// action tables.
func EnablePartials() CompileOption {
	return func(c *compileConfig) {
		c.partials = true
	}
}

// Parallelism bounds the number of goroutines used for the closure
// computation. The generated tables are identical for any value.
func Parallelism(n int) CompileOption {
	return func(c *compileConfig) {
		c.parallelism = n
	}
}

// ProvenanceNote overrides the human-readable note stored in the exported
// table set.
func ProvenanceNote(infos string) CompileOption {
	return func(c *compileConfig) {
		c.infos = infos
	}
}

// Compile builds the LALR(1) automaton of a grammar, resolves conflicts, and
// assembles the dense table set. The conflict diagnostics are returned even
// when every conflict was auto-resolved; in strict mode any conflict aborts
// compilation and no table set is returned.
func Compile(gram *Grammar, opts ...CompileOption) (*tabspec.TableSet, []Conflict, error) {
	cfg := &compileConfig{
		parallelism: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	lr0, err := genLR0Automaton(gram.ruleSet, symbolStart)
	if err != nil {
		return nil, nil, err
	}

	first, err := genFirstSet(gram.ruleSet)
	if err != nil {
		return nil, nil, err
	}

	automaton, err := genLALR1Automaton(lr0, gram.ruleSet, first, cfg.parallelism)
	if err != nil {
		return nil, nil, err
	}

	if len(automaton.stateList) >= ErrorVal || gram.ruleSet.count() >= ErrorVal {
		return nil, nil, fmt.Errorf("%v states, %v rules: %w", len(automaton.stateList), gram.ruleSet.count(), semErrSentinelOverflow)
	}

	b := &lalrTableBuilder{
		automaton: automaton,
		rules:     gram.ruleSet,
		symTab:    gram.symTab,
	}
	ptab, err := b.build()
	if err != nil {
		return nil, nil, err
	}

	if cfg.strict && len(b.conflicts) > 0 {
		return nil, b.conflicts, fmt.Errorf("%v conflicts: %w", len(b.conflicts), semErrAmbiguousGrammar)
	}

	if cfg.partials {
		if err := genPartialTables(ptab, automaton, gram.symTab); err != nil {
			return nil, nil, err
		}
	}

	ts, err := genTableSet(gram, ptab, cfg.infos)
	if err != nil {
		return nil, nil, err
	}

	return ts, b.conflicts, nil
}
