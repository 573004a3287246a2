package tabspec

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

type tomlConsts struct {
	Err    int `toml:"err"`
	Acc    int `toml:"acc"`
	Eps    int `toml:"eps"`
	End    int `toml:"end"`
	Accept int `toml:"accept"`
	Start  int `toml:"start"`
}

type tomlTable struct {
	Rows      int     `toml:"rows"`
	Cols      int     `toml:"cols"`
	RowLabel  string  `toml:"row_label"`
	ColLabel  string  `toml:"col_label"`
	ElemLabel string  `toml:"elem_label"`
	Elems     [][]int `toml:"elems"`
}

type tomlPrecedences struct {
	TermPrec  [][]int         `toml:"term_prec"`
	TermAssoc [][]interface{} `toml:"term_assoc"`
}

type tomlIndices struct {
	TermIdx     [][]interface{} `toml:"term_idx"`
	NonTermIdx  [][]interface{} `toml:"nonterm_idx"`
	SemanticIdx [][]int         `toml:"semantic_idx"`
	NumRHSSyms  []int           `toml:"num_rhs_syms"`
	LHSIdx      []int           `toml:"lhs_idx"`
}

type tomlHead struct {
	Infos  string     `toml:"infos"`
	Consts tomlConsts `toml:"consts"`
}

type tomlCoreTables struct {
	Shift  tomlTable `toml:"shift"`
	Reduce tomlTable `toml:"reduce"`
	Jump   tomlTable `toml:"jump"`
}

type tomlPartialTables struct {
	PartialsRuleTerm        tomlTable `toml:"partials_rule_term"`
	PartialsMatchLenTerm    tomlTable `toml:"partials_matchlen_term"`
	PartialsRuleNonTerm     tomlTable `toml:"partials_rule_nonterm"`
	PartialsMatchLenNonTerm tomlTable `toml:"partials_matchlen_nonterm"`
	PartialsLHSNonTerm      tomlTable `toml:"partials_lhs_nonterm"`
}

type tomlTail struct {
	Precedences tomlPrecedences `toml:"precedences"`
	Indices     tomlIndices     `toml:"indices"`
}

// sentinelMap is the file representation of the four reserved values.
type sentinelMap struct {
	err int
	acc int
	eps int
	end int
}

func rawSentinels() sentinelMap {
	return sentinelMap{err: ErrorVal, acc: AcceptVal, eps: EpsIdent, end: EndIdent}
}

func negativeSentinels() sentinelMap {
	return sentinelMap{err: negErrorVal, acc: negAcceptVal, eps: negEpsIdent, end: negEndIdent}
}

// Writer serializes a TableSet to the persisted text format. The zero value
// writes raw sentinel values; set NegativeSentinels to substitute the negative
// representation.
type Writer struct {
	NegativeSentinels bool
}

// Write serializes the table set as one bulk write. On failure the
// destination's contents are unspecified; callers must not consume a
// partially written destination.
func (w *Writer) Write(dst io.Writer, ts *TableSet) error {
	sm := rawSentinels()
	if w.NegativeSentinels {
		sm = negativeSentinels()
	}

	enc := toml.NewEncoder(dst)

	head := tomlHead{
		Infos: ts.Infos,
		Consts: tomlConsts{
			Err:    sm.err,
			Acc:    sm.acc,
			Eps:    sm.eps,
			End:    sm.end,
			Accept: ts.AcceptRule,
			Start:  ts.StartState,
		},
	}
	if err := enc.Encode(head); err != nil {
		return fmt.Errorf("failed to write table set: %w", err)
	}

	core := tomlCoreTables{
		Shift:  encodeTable(ts.Shift, sm, false),
		Reduce: encodeTable(ts.Reduce, sm, true),
		Jump:   encodeTable(ts.Jump, sm, false),
	}
	if err := enc.Encode(core); err != nil {
		return fmt.Errorf("failed to write table set: %w", err)
	}

	if ts.HasPartials() {
		partials := tomlPartialTables{
			PartialsRuleTerm:        encodeTable(ts.PartialsRuleTerm, sm, false),
			PartialsMatchLenTerm:    encodeTable(ts.PartialsMatchLenTerm, sm, false),
			PartialsRuleNonTerm:     encodeTable(ts.PartialsRuleNonTerm, sm, false),
			PartialsMatchLenNonTerm: encodeTable(ts.PartialsMatchLenNonTerm, sm, false),
			PartialsLHSNonTerm:      encodeTable(ts.PartialsLHSNonTerm, sm, false),
		}
		if err := enc.Encode(partials); err != nil {
			return fmt.Errorf("failed to write table set: %w", err)
		}
	}

	tail := tomlTail{
		Precedences: tomlPrecedences{
			TermPrec:  encodeTermPrec(ts.TermPrec),
			TermAssoc: encodeTermAssoc(ts.TermAssoc),
		},
		Indices: tomlIndices{
			TermIdx:     encodeTermIdx(ts.TermIdx, sm),
			NonTermIdx:  encodeNonTermIdx(ts.NonTermIdx),
			SemanticIdx: encodeSemanticIdx(ts.SemanticIdx),
			NumRHSSyms:  ts.NumRHSSyms,
			LHSIdx:      ts.LHSIdx,
		},
	}
	if err := enc.Encode(tail); err != nil {
		return fmt.Errorf("failed to write table set: %w", err)
	}

	return nil
}

// encodeTable substitutes the sentinel representation into a table's cells.
// withAccept additionally maps AcceptVal, which occurs only in the reduce
// table.
func encodeTable(t *Table, sm sentinelMap, withAccept bool) tomlTable {
	elems := make([][]int, len(t.Elems))
	for i, row := range t.Elems {
		elems[i] = make([]int, len(row))
		for j, v := range row {
			switch {
			case v == ErrorVal:
				v = sm.err
			case withAccept && v == AcceptVal:
				v = sm.acc
			}
			elems[i][j] = v
		}
	}
	return tomlTable{
		Rows:      t.Rows,
		Cols:      t.Cols,
		RowLabel:  t.RowLabel,
		ColLabel:  t.ColLabel,
		ElemLabel: t.ElemLabel,
		Elems:     elems,
	}
}

func encodeTermPrec(precs []TermPrec) [][]int {
	pairs := make([][]int, len(precs))
	for i, p := range precs {
		pairs[i] = []int{p.ID, p.Prec}
	}
	return pairs
}

func encodeTermAssoc(assocs []TermAssoc) [][]interface{} {
	pairs := make([][]interface{}, len(assocs))
	for i, a := range assocs {
		pairs[i] = []interface{}{a.ID, a.Assoc}
	}
	return pairs
}

func encodeTermIdx(entries []TermIndex, sm sentinelMap) [][]interface{} {
	rows := make([][]interface{}, len(entries))
	for i, e := range entries {
		id := e.ID
		if id == EndIdent {
			id = sm.end
		}
		if e.Name != "" {
			rows[i] = []interface{}{id, e.Idx, e.Name}
		} else {
			rows[i] = []interface{}{id, e.Idx}
		}
	}
	return rows
}

func encodeNonTermIdx(entries []NonTermIndex) [][]interface{} {
	rows := make([][]interface{}, len(entries))
	for i, e := range entries {
		if e.Name != "" {
			rows[i] = []interface{}{e.ID, e.Idx, e.Name}
		} else {
			rows[i] = []interface{}{e.ID, e.Idx}
		}
	}
	return rows
}

func encodeSemanticIdx(entries []SemanticIndex) [][]int {
	rows := make([][]int, len(entries))
	for i, e := range entries {
		rows[i] = []int{e.RuleID, e.Idx}
	}
	return rows
}
