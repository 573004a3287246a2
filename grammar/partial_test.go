package grammar

import (
	"testing"

	"github.com/parsekit/lalrtab/tabspec"
)

func TestCompile_partialTables(t *testing.T) {
	// expr → expr eq expr | int, with eq non-associative. Chaining eq leaves
	// an empty cell whose partial-match entry points back at the eq rule.
	b := NewGrammarBuilder().
		Terminal(1, "int").
		Terminal(2, "eq").
		NonTerminal(10, "expr").
		Precedence(2, 1, AssocTypeNone).
		Rule(1, 10, []SymbolID{10, 2, 10}, 0).
		Rule(2, 10, []SymbolID{1}, 0).
		Start(10)
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	ts, _, err := Compile(gram, EnablePartials())
	if err != nil {
		t.Fatal(err)
	}
	if !ts.HasPartials() {
		t.Fatal("the table set must carry the partial-match tables")
	}

	idxInt, _ := ts.TermIndexOf(1)
	idxEq, _ := ts.TermIndexOf(2)
	idxExpr := 1 // the only user non-terminal

	// Walk to the state holding expr eq expr with eq as the next input.
	s1 := ts.Jump.Elems[ts.StartState][idxExpr]
	if s1 == tabspec.ErrorVal {
		t.Fatal("no jump action on expr from the start state")
	}
	sEq := ts.Shift.Elems[s1][idxEq]
	if sEq == tabspec.ErrorVal {
		t.Fatal("no shift action on eq")
	}
	s2 := ts.Jump.Elems[sEq][idxExpr]
	if s2 == tabspec.ErrorVal {
		t.Fatal("no jump action on expr after eq")
	}

	if ts.Shift.Elems[s2][idxEq] != tabspec.ErrorVal || ts.Reduce.Elems[s2][idxEq] != tabspec.ErrorVal {
		t.Fatal("the non-associative cell must hold no action")
	}
	if got := ts.PartialsRuleTerm.Elems[s2][idxEq]; got != 1 {
		t.Fatalf("unexpected partial rule; want: 1, got: %v", got)
	}
	if got := ts.PartialsMatchLenTerm.Elems[s2][idxEq]; got != 1 {
		t.Fatalf("unexpected partial match length; want: 1, got: %v", got)
	}

	// After a lone int, the expr column is empty, and the candidate is the
	// completed int rule.
	sInt := ts.Shift.Elems[ts.StartState][idxInt]
	if got := ts.Jump.Elems[sInt][idxExpr]; got != tabspec.ErrorVal {
		t.Fatalf("unexpected jump action; want: none, got: %v", got)
	}
	if got := ts.PartialsRuleNonTerm.Elems[sInt][idxExpr]; got != 2 {
		t.Fatalf("unexpected partial rule; want: 2, got: %v", got)
	}
	if got := ts.PartialsMatchLenNonTerm.Elems[sInt][idxExpr]; got != 1 {
		t.Fatalf("unexpected partial match length; want: 1, got: %v", got)
	}
	if got := ts.PartialsLHSNonTerm.Elems[sInt][idxExpr]; got != idxExpr {
		t.Fatalf("unexpected partial LHS; want: %v, got: %v", idxExpr, got)
	}

	// The start column after the start symbol was consumed: the accept rule
	// is the completed candidate.
	if got := ts.PartialsRuleNonTerm.Elems[s1][0]; got != ts.AcceptRule {
		t.Fatalf("unexpected partial rule; want: %v, got: %v", ts.AcceptRule, got)
	}
	if got := ts.PartialsMatchLenNonTerm.Elems[s1][0]; got != 1 {
		t.Fatalf("unexpected partial match length; want: 1, got: %v", got)
	}

	// A cell with no candidate stays empty with a zero match length.
	if got := ts.PartialsRuleTerm.Elems[ts.StartState][idxEq]; got != tabspec.ErrorVal {
		t.Fatalf("unexpected partial rule; want: none, got: %v", got)
	}
	if got := ts.PartialsMatchLenTerm.Elems[ts.StartState][idxEq]; got != 0 {
		t.Fatalf("unexpected partial match length; want: 0, got: %v", got)
	}

	assertPartialMatchBound(t, ts)
}

func TestCompile_partialMatchBound(t *testing.T) {
	ts, _, err := Compile(exprGrammar(t), EnablePartials())
	if err != nil {
		t.Fatal(err)
	}
	assertPartialMatchBound(t, ts)
}

// assertPartialMatchBound checks that every partial-match length stays within
// the RHS length of its candidate rule, and that cells with no candidate carry
// a zero length.
func assertPartialMatchBound(t *testing.T, ts *tabspec.TableSet) {
	t.Helper()

	families := []struct {
		caption  string
		rule     *tabspec.Table
		matchLen *tabspec.Table
	}{
		{caption: "terminal", rule: ts.PartialsRuleTerm, matchLen: ts.PartialsMatchLenTerm},
		{caption: "nonterminal", rule: ts.PartialsRuleNonTerm, matchLen: ts.PartialsMatchLenNonTerm},
	}
	for _, f := range families {
		for state := 0; state < f.rule.Rows; state++ {
			for col := 0; col < f.rule.Cols; col++ {
				r := f.rule.Elems[state][col]
				n := f.matchLen.Elems[state][col]
				if r == tabspec.ErrorVal {
					if n != 0 {
						t.Fatalf("a cell with no candidate must have a zero match length; family: %v, state: %v, column: %v, got: %v", f.caption, state, col, n)
					}
					continue
				}
				if r < 0 || r >= len(ts.NumRHSSyms) {
					t.Fatalf("invalid partial rule index; family: %v, state: %v, column: %v, got: %v", f.caption, state, col, r)
				}
				if n > ts.NumRHSSyms[r] {
					t.Fatalf("a match length must not exceed the RHS length of its rule; family: %v, state: %v, column: %v, rule: %v, length: %v", f.caption, state, col, r, n)
				}
			}
		}
	}
}
