// Package tabspec defines the persisted parsing-table format and the
// declarative grammar description format. The table layout is
// compatibility-significant: drivers in other processes read these files.
package tabspec

// Reserved values. The symbol-id space sentinels (EpsIdent, EndIdent) sit just
// above the 16-bit user identifier range; the table-value space sentinels
// (ErrorVal, AcceptVal) are distinct from every valid state and rule index.
const (
	ErrorVal  = 0x10000
	AcceptVal = 0x10001
	EpsIdent  = 0x10000
	EndIdent  = 0x10001
)

// Negative sentinel representation used when a writer runs in negative
// sentinel mode.
const (
	negErrorVal  = -1
	negAcceptVal = -2
	negEpsIdent  = -3
	negEndIdent  = -4
)

// Table is one dense 2-D integer table. Elems is row-major: one row per
// state, one column per terminal, non-terminal, or rule index as appropriate.
// Empty cells hold ErrorVal.
type Table struct {
	Rows      int
	Cols      int
	RowLabel  string
	ColLabel  string
	ElemLabel string
	Elems     [][]int
}

// TermIndex maps a raw terminal identifier to its dense column index. Name is
// optional and only serves human-readable output.
type TermIndex struct {
	ID   int
	Idx  int
	Name string
}

type NonTermIndex struct {
	ID   int
	Idx  int
	Name string
}

type TermPrec struct {
	ID   int
	Prec int
}

type TermAssoc struct {
	ID    int
	Assoc string
}

// SemanticIndex maps a raw rule identifier to its dense rule index, which is
// also the index the driver hands to reduction callbacks.
type SemanticIndex struct {
	RuleID int
	Idx    int
}

// TableSet is the complete assembled table set. In memory it always carries
// raw sentinel values; the negative representation exists only in files
// written in negative sentinel mode.
type TableSet struct {
	// Infos is a human-readable provenance note.
	Infos string

	Err int
	Acc int
	Eps int
	End int

	// AcceptRule is the dense index of the accepting rule, StartState the
	// dense index of the start state.
	AcceptRule int
	StartState int

	Shift  *Table
	Reduce *Table
	Jump   *Table

	PartialsRuleTerm        *Table
	PartialsMatchLenTerm    *Table
	PartialsRuleNonTerm     *Table
	PartialsMatchLenNonTerm *Table
	PartialsLHSNonTerm      *Table

	TermPrec  []TermPrec
	TermAssoc []TermAssoc

	TermIdx     []TermIndex
	NonTermIdx  []NonTermIndex
	SemanticIdx []SemanticIndex

	// NumRHSSyms and LHSIdx are ordered by dense rule index. LHSIdx holds
	// dense non-terminal indices.
	NumRHSSyms []int
	LHSIdx     []int
}

// HasPartials reports whether the set carries partial-match tables.
func (ts *TableSet) HasPartials() bool {
	return ts.PartialsRuleTerm != nil
}

// TermIndexOf returns the dense index of a raw terminal identifier.
func (ts *TableSet) TermIndexOf(id int) (int, bool) {
	for _, e := range ts.TermIdx {
		if e.ID == id {
			return e.Idx, true
		}
	}
	return 0, false
}
