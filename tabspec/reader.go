package tabspec

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

type tomlFile struct {
	Infos  string     `toml:"infos"`
	Consts tomlConsts `toml:"consts"`

	Shift  tomlTable `toml:"shift"`
	Reduce tomlTable `toml:"reduce"`
	Jump   tomlTable `toml:"jump"`

	PartialsRuleTerm        tomlTable `toml:"partials_rule_term"`
	PartialsMatchLenTerm    tomlTable `toml:"partials_matchlen_term"`
	PartialsRuleNonTerm     tomlTable `toml:"partials_rule_nonterm"`
	PartialsMatchLenNonTerm tomlTable `toml:"partials_matchlen_nonterm"`
	PartialsLHSNonTerm      tomlTable `toml:"partials_lhs_nonterm"`

	Precedences tomlPrecedences `toml:"precedences"`
	Indices     tomlIndices     `toml:"indices"`
}

// Read parses a persisted table set and normalizes it back to raw sentinel
// values, regardless of the sentinel mode it was written in.
func Read(src io.Reader) (*TableSet, error) {
	var f tomlFile
	if _, err := toml.NewDecoder(src).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to read table set: %w", err)
	}

	// The [consts] section tells which sentinel representation the file uses.
	sm := sentinelMap{
		err: f.Consts.Err,
		acc: f.Consts.Acc,
		eps: f.Consts.Eps,
		end: f.Consts.End,
	}

	ts := &TableSet{
		Infos:      f.Infos,
		Err:        ErrorVal,
		Acc:        AcceptVal,
		Eps:        EpsIdent,
		End:        EndIdent,
		AcceptRule: f.Consts.Accept,
		StartState: f.Consts.Start,
	}

	var err error
	ts.Shift, err = decodeTable("shift", f.Shift, sm, false)
	if err != nil {
		return nil, err
	}
	ts.Reduce, err = decodeTable("reduce", f.Reduce, sm, true)
	if err != nil {
		return nil, err
	}
	ts.Jump, err = decodeTable("jump", f.Jump, sm, false)
	if err != nil {
		return nil, err
	}

	if f.PartialsRuleTerm.Rows > 0 || len(f.PartialsRuleTerm.Elems) > 0 {
		ts.PartialsRuleTerm, err = decodeTable("partials_rule_term", f.PartialsRuleTerm, sm, false)
		if err != nil {
			return nil, err
		}
		ts.PartialsMatchLenTerm, err = decodeTable("partials_matchlen_term", f.PartialsMatchLenTerm, sm, false)
		if err != nil {
			return nil, err
		}
		ts.PartialsRuleNonTerm, err = decodeTable("partials_rule_nonterm", f.PartialsRuleNonTerm, sm, false)
		if err != nil {
			return nil, err
		}
		ts.PartialsMatchLenNonTerm, err = decodeTable("partials_matchlen_nonterm", f.PartialsMatchLenNonTerm, sm, false)
		if err != nil {
			return nil, err
		}
		ts.PartialsLHSNonTerm, err = decodeTable("partials_lhs_nonterm", f.PartialsLHSNonTerm, sm, false)
		if err != nil {
			return nil, err
		}
	}

	ts.TermPrec, err = decodeTermPrec(f.Precedences.TermPrec)
	if err != nil {
		return nil, err
	}
	ts.TermAssoc, err = decodeTermAssoc(f.Precedences.TermAssoc)
	if err != nil {
		return nil, err
	}
	ts.TermIdx, err = decodeTermIdx(f.Indices.TermIdx, sm)
	if err != nil {
		return nil, err
	}
	ts.NonTermIdx, err = decodeNonTermIdx(f.Indices.NonTermIdx)
	if err != nil {
		return nil, err
	}
	ts.SemanticIdx, err = decodeSemanticIdx(f.Indices.SemanticIdx)
	if err != nil {
		return nil, err
	}
	ts.NumRHSSyms = f.Indices.NumRHSSyms
	ts.LHSIdx = f.Indices.LHSIdx

	return ts, nil
}

func decodeTable(name string, t tomlTable, sm sentinelMap, withAccept bool) (*Table, error) {
	if len(t.Elems) != t.Rows {
		return nil, fmt.Errorf("invalid table %v: %v rows declared, %v present", name, t.Rows, len(t.Elems))
	}
	elems := make([][]int, len(t.Elems))
	for i, row := range t.Elems {
		if len(row) != t.Cols {
			return nil, fmt.Errorf("invalid table %v: row %v has %v columns, want %v", name, i, len(row), t.Cols)
		}
		elems[i] = make([]int, len(row))
		for j, v := range row {
			switch {
			case v == sm.err:
				v = ErrorVal
			case withAccept && v == sm.acc:
				v = AcceptVal
			}
			elems[i][j] = v
		}
	}
	return &Table{
		Rows:      t.Rows,
		Cols:      t.Cols,
		RowLabel:  t.RowLabel,
		ColLabel:  t.ColLabel,
		ElemLabel: t.ElemLabel,
		Elems:     elems,
	}, nil
}

func decodeTermPrec(pairs [][]int) ([]TermPrec, error) {
	var precs []TermPrec
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("invalid term_prec entry %v: want [terminal, precedence]", i)
		}
		precs = append(precs, TermPrec{ID: p[0], Prec: p[1]})
	}
	return precs, nil
}

func decodeTermAssoc(pairs [][]interface{}) ([]TermAssoc, error) {
	var assocs []TermAssoc
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("invalid term_assoc entry %v: want [terminal, associativity]", i)
		}
		id, ok := asInt(p[0])
		if !ok {
			return nil, fmt.Errorf("invalid term_assoc entry %v: terminal must be an integer", i)
		}
		assoc, ok := p[1].(string)
		if !ok {
			return nil, fmt.Errorf("invalid term_assoc entry %v: associativity must be a string", i)
		}
		assocs = append(assocs, TermAssoc{ID: id, Assoc: assoc})
	}
	return assocs, nil
}

func decodeTermIdx(rows [][]interface{}, sm sentinelMap) ([]TermIndex, error) {
	var entries []TermIndex
	for i, row := range rows {
		id, idx, name, err := decodeIdxRow("term_idx", i, row)
		if err != nil {
			return nil, err
		}
		if id == sm.end {
			id = EndIdent
		}
		entries = append(entries, TermIndex{ID: id, Idx: idx, Name: name})
	}
	return entries, nil
}

func decodeNonTermIdx(rows [][]interface{}) ([]NonTermIndex, error) {
	var entries []NonTermIndex
	for i, row := range rows {
		id, idx, name, err := decodeIdxRow("nonterm_idx", i, row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, NonTermIndex{ID: id, Idx: idx, Name: name})
	}
	return entries, nil
}

func decodeIdxRow(name string, i int, row []interface{}) (int, int, string, error) {
	if len(row) != 2 && len(row) != 3 {
		return 0, 0, "", fmt.Errorf("invalid %v entry %v: want [id, index] or [id, index, name]", name, i)
	}
	id, ok := asInt(row[0])
	if !ok {
		return 0, 0, "", fmt.Errorf("invalid %v entry %v: id must be an integer", name, i)
	}
	idx, ok := asInt(row[1])
	if !ok {
		return 0, 0, "", fmt.Errorf("invalid %v entry %v: index must be an integer", name, i)
	}
	var text string
	if len(row) == 3 {
		text, ok = row[2].(string)
		if !ok {
			return 0, 0, "", fmt.Errorf("invalid %v entry %v: name must be a string", name, i)
		}
	}
	return id, idx, text, nil
}

func decodeSemanticIdx(rows [][]int) ([]SemanticIndex, error) {
	var entries []SemanticIndex
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("invalid semantic_idx entry %v: want [rule, index]", i)
		}
		entries = append(entries, SemanticIndex{RuleID: row[0], Idx: row[1]})
	}
	return entries, nil
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
