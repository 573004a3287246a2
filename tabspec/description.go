package tabspec

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// GrammarDescription is the declarative grammar input format consumed by the
// CLI. Identifiers follow the grammar model: terminals and non-terminals live
// in disjoint id spaces, and an empty RHS denotes an epsilon rule.
type GrammarDescription struct {
	Name         string            `toml:"name"`
	Start        int               `toml:"start"`
	Terminals    []TerminalDesc    `toml:"terminals"`
	NonTerminals []NonTerminalDesc `toml:"nonterminals"`
	Rules        []RuleDesc        `toml:"rules"`
}

type TerminalDesc struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`

	// Prec and Assoc are optional; a zero precedence means none was declared.
	// Assoc is one of "left", "right", "none".
	Prec  int    `toml:"prec"`
	Assoc string `toml:"assoc"`
}

type NonTerminalDesc struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
}

type RuleDesc struct {
	ID     int   `toml:"id"`
	LHS    int   `toml:"lhs"`
	RHS    []int `toml:"rhs"`
	Action int   `toml:"action"`

	// PrecTerm optionally overrides the rule's effective precedence with the
	// named terminal's.
	PrecTerm *int `toml:"prec_term"`
}

func ReadDescription(src io.Reader) (*GrammarDescription, error) {
	var d GrammarDescription
	if _, err := toml.NewDecoder(src).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to read grammar description: %w", err)
	}
	if len(d.Rules) == 0 {
		return nil, fmt.Errorf("invalid grammar description: no rules")
	}
	return &d, nil
}
