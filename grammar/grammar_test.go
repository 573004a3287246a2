package grammar

import (
	"errors"
	"testing"
)

func TestGrammarBuilder_validation(t *testing.T) {
	tests := []struct {
		caption string
		build   func(b *GrammarBuilder)
		wantErr error
	}{
		{
			caption: "a grammar with no rules is invalid",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					Start(10)
			},
			wantErr: semErrNoRule,
		},
		{
			caption: "a terminal identifier must not be declared twice",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					Terminal(1, "b").
					NonTerminal(10, "s").
					Rule(1, 10, []SymbolID{1}, 0).
					Start(10)
			},
			wantErr: semErrDuplicateID,
		},
		{
			caption: "a terminal and a non-terminal must not share an identifier",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(1, "s").
					Rule(1, 1, []SymbolID{1}, 0).
					Start(1)
			},
			wantErr: semErrDuplicateID,
		},
		{
			caption: "an identifier must not exceed the maximum",
			build: func(b *GrammarBuilder) {
				b.Terminal(MaxUserIdent+1, "a").
					NonTerminal(10, "s").
					Rule(1, 10, []SymbolID{MaxUserIdent + 1}, 0).
					Start(10)
			},
			wantErr: semErrInvalidIdent,
		},
		{
			caption: "an RHS symbol must be declared",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					Rule(1, 10, []SymbolID{2}, 0).
					Start(10)
			},
			wantErr: semErrUndeclaredSymbol,
		},
		{
			caption: "the LHS of a rule must be a declared non-terminal",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					Rule(1, 10, []SymbolID{1}, 0).
					Rule(2, 11, []SymbolID{1}, 0).
					Start(10)
			},
			wantErr: semErrUndeclaredSymbol,
		},
		{
			caption: "the empty-production marker must be the only RHS element",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					Rule(1, 10, []SymbolID{1, EpsIdent}, 0).
					Start(10)
			},
			wantErr: semErrMisplacedEpsilon,
		},
		{
			caption: "a rule identifier must be non-negative",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					Rule(-1, 10, []SymbolID{1}, 0).
					Start(10)
			},
			wantErr: semErrInvalidIdent,
		},
		{
			caption: "a rule identifier must not be declared twice",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					Rule(1, 10, []SymbolID{1}, 0).
					Rule(1, 10, []SymbolID{1, 1}, 0).
					Start(10)
			},
			wantErr: semErrDuplicateID,
		},
		{
			caption: "the start symbol must be derivable by at least one rule",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					NonTerminal(11, "t").
					Rule(1, 11, []SymbolID{1}, 0).
					Start(10)
			},
			wantErr: semErrUnreachableStart,
		},
		{
			caption: "a precedence declaration needs a declared terminal",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					Precedence(2, 1, AssocTypeLeft).
					Rule(1, 10, []SymbolID{1}, 0).
					Start(10)
			},
			wantErr: semErrUndeclaredSymbol,
		},
		{
			caption: "a terminal must not carry two precedence declarations",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					Precedence(1, 1, AssocTypeLeft).
					Precedence(1, 2, AssocTypeRight).
					Rule(1, 10, []SymbolID{1}, 0).
					Start(10)
			},
			wantErr: semErrDuplicateID,
		},
		{
			caption: "a precedence terminal of a rule needs a declared precedence",
			build: func(b *GrammarBuilder) {
				b.Terminal(1, "a").
					NonTerminal(10, "s").
					RuleWithPrec(1, 10, []SymbolID{1}, 0, 1).
					Start(10)
			},
			wantErr: semErrNoPrecedence,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			b := NewGrammarBuilder()
			tt.build(b)
			_, err := b.Build()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error; want: %v, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestGrammarBuilder_effectivePrecedence(t *testing.T) {
	b := NewGrammarBuilder().
		Terminal(1, "int").
		Terminal(2, "+").
		Terminal(3, "*").
		NonTerminal(10, "expr").
		Precedence(2, 1, AssocTypeLeft).
		Precedence(3, 2, AssocTypeLeft).
		Rule(1, 10, []SymbolID{10, 2, 10}, 0).
		RuleWithPrec(2, 10, []SymbolID{10, 3, 10}, 0, 2).
		Rule(3, 10, []SymbolID{1}, 0).
		Start(10)
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ruleID    RuleID
		wantPrec  int
		wantAssoc AssocType
	}{
		// The rightmost terminal of the RHS decides.
		{ruleID: 1, wantPrec: 1, wantAssoc: AssocTypeLeft},
		// An explicit precedence terminal overrides the RHS.
		{ruleID: 2, wantPrec: 1, wantAssoc: AssocTypeLeft},
		// No terminal with a precedence appears in the RHS.
		{ruleID: 3, wantPrec: precNil, wantAssoc: AssocTypeNil},
	}
	for _, tt := range tests {
		r, ok := gram.ruleSet.findByID(tt.ruleID)
		if !ok {
			t.Fatalf("rule %v not found", tt.ruleID)
		}
		if r.prec != tt.wantPrec || r.assoc != tt.wantAssoc {
			t.Fatalf("unexpected precedence of rule %v; want: %v/%v, got: %v/%v", tt.ruleID, tt.wantPrec, tt.wantAssoc, r.prec, r.assoc)
		}
	}
}

func TestGrammarBuilder_denseNumbering(t *testing.T) {
	b := NewGrammarBuilder().
		Terminal(100, "a").
		Terminal(7, "b").
		NonTerminal(200, "s").
		NonTerminal(3, "t").
		Rule(1, 200, []SymbolID{100, 3}, 0).
		Rule(2, 3, []SymbolID{7}, 0).
		Rule(3, 3, []SymbolID{EpsIdent}, 0).
		Start(200)
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	// Terminal index 0 is the end marker; user terminals follow in
	// declaration order regardless of their identifiers.
	termNums := map[SymbolID]int{
		EndIdent: 0,
		100:      1,
		7:        2,
	}
	for id, want := range termNums {
		got, ok := gram.symTab.termNum(id)
		if !ok || got != want {
			t.Fatalf("unexpected terminal index of %v; want: %v, got: %v", id, want, got)
		}
	}

	nonTermNums := map[SymbolID]int{
		identStart: 0,
		200:        1,
		3:          2,
	}
	for id, want := range nonTermNums {
		got, ok := gram.symTab.nonTermNum(id)
		if !ok || got != want {
			t.Fatalf("unexpected non-terminal index of %v; want: %v, got: %v", id, want, got)
		}
	}

	// Rule index 0 is the accept rule; user rules follow in declaration
	// order. An epsilon RHS normalizes to an empty RHS.
	if gram.AcceptingRule() != 0 {
		t.Fatalf("unexpected accept rule index; want: 0, got: %v", gram.AcceptingRule())
	}
	ruleNums := map[RuleID]ruleNum{
		-1: 0,
		1:  1,
		2:  2,
		3:  3,
	}
	for id, want := range ruleNums {
		r, ok := gram.ruleSet.findByID(id)
		if !ok {
			t.Fatalf("rule %v not found", id)
		}
		if r.num != want {
			t.Fatalf("unexpected rule index of %v; want: %v, got: %v", id, want, r.num)
		}
	}
	eps, _ := gram.ruleSet.findByID(3)
	if !eps.isEmpty() {
		t.Fatalf("an epsilon rule must have an empty RHS")
	}
}
