package grammar

import (
	"fmt"

	"github.com/parsekit/lalrtab/tabspec"
)

// genTableSet projects the internal tables and the symbol/rule numbering into
// the exportable table set. The projection never mutates the tables.
func genTableSet(gram *Grammar, ptab *ParsingTable, infos string) (*tabspec.TableSet, error) {
	if infos == "" {
		name := "grammar"
		if e := gram.symTab.nonTerms[gram.startSym.id]; e != nil && e.name != "" {
			name = e.name
		}
		infos = fmt.Sprintf("LALR(1) tables for %v: %v states, %v terminals, %v non-terminals, %v rules",
			name, ptab.StateCount(), ptab.TerminalCount(), ptab.NonTerminalCount(), gram.ruleSet.count())
	}

	ts := &tabspec.TableSet{
		Infos:      infos,
		Err:        tabspec.ErrorVal,
		Acc:        tabspec.AcceptVal,
		Eps:        tabspec.EpsIdent,
		End:        tabspec.EndIdent,
		AcceptRule: gram.acceptRule.num.Int(),
		StartState: ptab.InitialState,

		Shift:  project(ptab.shift, ptab.stateCount, ptab.termCount, "state", "terminal", "next_state"),
		Reduce: project(ptab.reduce, ptab.stateCount, ptab.termCount, "state", "terminal", "rule"),
		Jump:   project(ptab.jump, ptab.stateCount, ptab.nonTermCount, "state", "nonterminal", "next_state"),
	}

	if ptab.hasPartials() {
		ts.PartialsRuleTerm = project(ptab.partialsRuleTerm, ptab.stateCount, ptab.termCount, "state", "terminal", "rule")
		ts.PartialsMatchLenTerm = project(ptab.partialsMatchLenTerm, ptab.stateCount, ptab.termCount, "state", "terminal", "match_length")
		ts.PartialsRuleNonTerm = project(ptab.partialsRuleNonTerm, ptab.stateCount, ptab.nonTermCount, "state", "nonterminal", "rule")
		ts.PartialsMatchLenNonTerm = project(ptab.partialsMatchLenNonTerm, ptab.stateCount, ptab.nonTermCount, "state", "nonterminal", "match_length")
		ts.PartialsLHSNonTerm = project(ptab.partialsLHSNonTerm, ptab.stateCount, ptab.nonTermCount, "state", "nonterminal", "lhs")
	}

	for _, e := range gram.symTab.precedencedTerminals() {
		if e.prec != precNil {
			ts.TermPrec = append(ts.TermPrec, tabspec.TermPrec{ID: int(e.id), Prec: e.prec})
		}
		if e.assoc != AssocTypeNil {
			ts.TermAssoc = append(ts.TermAssoc, tabspec.TermAssoc{ID: int(e.id), Assoc: e.assoc.String()})
		}
	}

	for _, e := range gram.symTab.terminals() {
		ts.TermIdx = append(ts.TermIdx, tabspec.TermIndex{ID: int(e.id), Idx: e.num, Name: e.name})
	}
	for _, e := range gram.symTab.nonTerminals() {
		ts.NonTermIdx = append(ts.NonTermIdx, tabspec.NonTermIndex{ID: int(e.id), Idx: e.num, Name: e.name})
	}

	rules := gram.ruleSet.rules()
	ts.NumRHSSyms = make([]int, len(rules))
	ts.LHSIdx = make([]int, len(rules))
	for _, r := range rules {
		if r.num != ruleNumAccept {
			ts.SemanticIdx = append(ts.SemanticIdx, tabspec.SemanticIndex{RuleID: int(r.id), Idx: r.num.Int()})
		}
		lhsNum, ok := gram.symTab.nonTermNum(r.lhs.id)
		if !ok {
			return nil, fmt.Errorf("LHS of rule %v not found: %v", r.id, r.lhs)
		}
		ts.NumRHSSyms[r.num] = r.rhsLen
		ts.LHSIdx[r.num] = lhsNum
	}

	return ts, nil
}

func project(flat []int, rows, cols int, rowLabel, colLabel, elemLabel string) *tabspec.Table {
	elems := make([][]int, rows)
	for i := 0; i < rows; i++ {
		row := make([]int, cols)
		copy(row, flat[i*cols:(i+1)*cols])
		elems[i] = row
	}
	return &tabspec.Table{
		Rows:      rows,
		Cols:      cols,
		RowLabel:  rowLabel,
		ColLabel:  colLabel,
		ElemLabel: elemLabel,
		Elems:     elems,
	}
}
