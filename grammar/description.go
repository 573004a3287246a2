package grammar

import (
	"fmt"

	"github.com/parsekit/lalrtab/tabspec"
)

// FromDescription builds a validated grammar from a declarative description.
func FromDescription(d *tabspec.GrammarDescription) (*Grammar, error) {
	b := NewGrammarBuilder()
	for _, t := range d.Terminals {
		b.Terminal(SymbolID(t.ID), t.Name)
		if t.Prec == 0 && t.Assoc == "" {
			continue
		}
		assoc, err := assocFromString(t.Assoc)
		if err != nil {
			return nil, fmt.Errorf("terminal %v: %w", t.ID, err)
		}
		b.Precedence(SymbolID(t.ID), t.Prec, assoc)
	}
	for _, n := range d.NonTerminals {
		b.NonTerminal(SymbolID(n.ID), n.Name)
	}
	for _, r := range d.Rules {
		rhs := make([]SymbolID, len(r.RHS))
		for i, id := range r.RHS {
			rhs[i] = SymbolID(id)
		}
		if r.PrecTerm != nil {
			b.RuleWithPrec(RuleID(r.ID), SymbolID(r.LHS), rhs, r.Action, SymbolID(*r.PrecTerm))
		} else {
			b.Rule(RuleID(r.ID), SymbolID(r.LHS), rhs, r.Action)
		}
	}
	b.Start(SymbolID(d.Start))
	return b.Build()
}

func assocFromString(s string) (AssocType, error) {
	switch s {
	case "":
		return AssocTypeNil, nil
	case "left":
		return AssocTypeLeft, nil
	case "right":
		return AssocTypeRight, nil
	case "none":
		return AssocTypeNone, nil
	}
	return AssocTypeNil, fmt.Errorf("invalid associativity %q: must be one of left, right, none", s)
}
