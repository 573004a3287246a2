package grammar

import (
	"reflect"
	"testing"

	"github.com/parsekit/lalrtab/tabspec"
)

func TestCompile_tableSetProjection(t *testing.T) {
	ts, _, err := Compile(exprGrammar(t))
	if err != nil {
		t.Fatal(err)
	}

	if ts.Err != tabspec.ErrorVal || ts.Acc != tabspec.AcceptVal || ts.Eps != tabspec.EpsIdent || ts.End != tabspec.EndIdent {
		t.Fatal("unexpected reserved values")
	}
	if ts.AcceptRule != 0 {
		t.Fatalf("unexpected accept rule index; want: 0, got: %v", ts.AcceptRule)
	}
	if ts.StartState != 0 {
		t.Fatalf("unexpected start state; want: 0, got: %v", ts.StartState)
	}

	wantTermIdx := []tabspec.TermIndex{
		{ID: tabspec.EndIdent, Idx: 0, Name: "<end>"},
		{ID: 1, Idx: 1, Name: "int"},
		{ID: 2, Idx: 2, Name: "add"},
		{ID: 3, Idx: 3, Name: "mul"},
	}
	if !reflect.DeepEqual(ts.TermIdx, wantTermIdx) {
		t.Fatalf("unexpected terminal index; want: %v, got: %v", wantTermIdx, ts.TermIdx)
	}

	if len(ts.NonTermIdx) != 2 {
		t.Fatalf("unexpected non-terminal index length; want: 2, got: %v", len(ts.NonTermIdx))
	}
	if ts.NonTermIdx[0].Idx != 0 || ts.NonTermIdx[0].Name != "<start>" {
		t.Fatalf("non-terminal index 0 must be the augmented start symbol; got: %v", ts.NonTermIdx[0])
	}
	if ts.NonTermIdx[1] != (tabspec.NonTermIndex{ID: 10, Idx: 1, Name: "expr"}) {
		t.Fatalf("unexpected non-terminal index entry; got: %v", ts.NonTermIdx[1])
	}

	// The accept rule has no semantic index entry.
	wantSemanticIdx := []tabspec.SemanticIndex{
		{RuleID: 1, Idx: 1},
		{RuleID: 2, Idx: 2},
		{RuleID: 3, Idx: 3},
	}
	if !reflect.DeepEqual(ts.SemanticIdx, wantSemanticIdx) {
		t.Fatalf("unexpected semantic index; want: %v, got: %v", wantSemanticIdx, ts.SemanticIdx)
	}

	if want := []int{1, 3, 3, 1}; !reflect.DeepEqual(ts.NumRHSSyms, want) {
		t.Fatalf("unexpected RHS lengths; want: %v, got: %v", want, ts.NumRHSSyms)
	}
	if want := []int{0, 1, 1, 1}; !reflect.DeepEqual(ts.LHSIdx, want) {
		t.Fatalf("unexpected LHS indices; want: %v, got: %v", want, ts.LHSIdx)
	}

	wantPrec := []tabspec.TermPrec{
		{ID: 2, Prec: 1},
		{ID: 3, Prec: 2},
	}
	if !reflect.DeepEqual(ts.TermPrec, wantPrec) {
		t.Fatalf("unexpected precedences; want: %v, got: %v", wantPrec, ts.TermPrec)
	}
	wantAssoc := []tabspec.TermAssoc{
		{ID: 2, Assoc: "left"},
		{ID: 3, Assoc: "left"},
	}
	if !reflect.DeepEqual(ts.TermAssoc, wantAssoc) {
		t.Fatalf("unexpected associativities; want: %v, got: %v", wantAssoc, ts.TermAssoc)
	}

	if ts.HasPartials() {
		t.Fatal("the partial-match tables must be absent by default")
	}
}
