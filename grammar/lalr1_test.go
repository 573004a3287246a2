package grammar

import "testing"

type expectedLALR1Item struct {
	ruleID RuleID
	dot    int
	la     []SymbolID
}

// The grammar is LALR(1) but not SLR(1): FOLLOW(r) contains the eq terminal,
// but the state holding both s → l・eq r and r → l・ must reduce only at the
// end of the input.
//
// s → l eq r | r
// l → star r | id
// r → l
func TestGenLALR1Automaton(t *testing.T) {
	b := NewGrammarBuilder().
		Terminal(1, "eq").
		Terminal(2, "star").
		Terminal(3, "id").
		NonTerminal(10, "s").
		NonTerminal(11, "l").
		NonTerminal(12, "r").
		Rule(1, 10, []SymbolID{11, 1, 12}, 0).
		Rule(2, 10, []SymbolID{12}, 0).
		Rule(3, 11, []SymbolID{2, 12}, 0).
		Rule(4, 11, []SymbolID{3}, 0).
		Rule(5, 12, []SymbolID{11}, 0).
		Start(10)
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	lr0, err := genLR0Automaton(gram.ruleSet, symbolStart)
	if err != nil {
		t.Fatal(err)
	}
	first, err := genFirstSet(gram.ruleSet)
	if err != nil {
		t.Fatal(err)
	}
	automaton, err := genLALR1Automaton(lr0, gram.ruleSet, first, 4)
	if err != nil {
		t.Fatal(err)
	}

	if len(automaton.stateList) != 10 {
		t.Fatalf("unexpected state count; want: 10, got: %v", len(automaton.stateList))
	}

	expectedKernels := [][]expectedLALR1Item{
		{
			{ruleID: -1, dot: 0, la: []SymbolID{EndIdent}},
		},
		{
			{ruleID: -1, dot: 1, la: []SymbolID{EndIdent}},
		},
		{
			{ruleID: 1, dot: 1, la: []SymbolID{EndIdent}},
			{ruleID: 5, dot: 1, la: []SymbolID{EndIdent}},
		},
		{
			{ruleID: 2, dot: 1, la: []SymbolID{EndIdent}},
		},
		{
			{ruleID: 3, dot: 1, la: []SymbolID{1, EndIdent}},
		},
		{
			{ruleID: 4, dot: 1, la: []SymbolID{1, EndIdent}},
		},
		{
			{ruleID: 1, dot: 2, la: []SymbolID{EndIdent}},
		},
		{
			{ruleID: 3, dot: 2, la: []SymbolID{1, EndIdent}},
		},
		{
			{ruleID: 5, dot: 1, la: []SymbolID{1, EndIdent}},
		},
		{
			{ruleID: 1, dot: 3, la: []SymbolID{EndIdent}},
		},
	}

	for _, expected := range expectedKernels {
		items := make([]*lrItem, len(expected))
		for i, e := range expected {
			items[i] = genTestLRItem(t, gram, e.ruleID, e.dot)
		}
		k, err := newKernel(items)
		if err != nil {
			t.Fatal(err)
		}
		state, ok := automaton.states[k.id]
		if !ok {
			t.Fatalf("state not found; kernel: %v", expected)
		}

		for i, e := range expected {
			item := state.findItem(items[i].id)
			if item == nil {
				t.Fatalf("item %v not found in state %v", items[i].id, state.num)
			}
			assertLookAhead(t, state, item, e.la)
		}
	}
}

func genTestLRItem(t *testing.T, gram *Grammar, ruleID RuleID, dot int) *lrItem {
	t.Helper()

	r, ok := gram.ruleSet.findByID(ruleID)
	if !ok {
		t.Fatalf("rule %v not found", ruleID)
	}
	item, err := newLRItem(r, dot)
	if err != nil {
		t.Fatal(err)
	}
	return item
}

func assertLookAhead(t *testing.T, state *lrState, item *lrItem, la []SymbolID) {
	t.Helper()

	if len(item.lookAhead.symbols) != len(la) {
		t.Fatalf("unexpected look-ahead of %v in state %v; want: %v symbols, got: %v", item.id, state.num, len(la), len(item.lookAhead.symbols))
	}
	for _, id := range la {
		sym := symbol{id: id, kind: SymbolKindTerminal}
		if _, ok := item.lookAhead.symbols[sym]; !ok {
			t.Fatalf("look-ahead of %v in state %v does not contain %v", item.id, state.num, sym)
		}
	}
}
