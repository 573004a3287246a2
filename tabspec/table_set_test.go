package tabspec

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func testTableSet() *TableSet {
	return &TableSet{
		Infos:      "test tables",
		Err:        ErrorVal,
		Acc:        AcceptVal,
		Eps:        EpsIdent,
		End:        EndIdent,
		AcceptRule: 0,
		StartState: 0,

		Shift: &Table{
			Rows: 2, Cols: 2,
			RowLabel: "state", ColLabel: "terminal", ElemLabel: "next_state",
			Elems: [][]int{
				{ErrorVal, 1},
				{ErrorVal, ErrorVal},
			},
		},
		Reduce: &Table{
			Rows: 2, Cols: 2,
			RowLabel: "state", ColLabel: "terminal", ElemLabel: "rule",
			Elems: [][]int{
				{ErrorVal, ErrorVal},
				{AcceptVal, 1},
			},
		},
		Jump: &Table{
			Rows: 2, Cols: 2,
			RowLabel: "state", ColLabel: "nonterminal", ElemLabel: "next_state",
			Elems: [][]int{
				{ErrorVal, 1},
				{ErrorVal, ErrorVal},
			},
		},

		TermPrec:  []TermPrec{{ID: 1, Prec: 1}},
		TermAssoc: []TermAssoc{{ID: 1, Assoc: "left"}},

		TermIdx: []TermIndex{
			{ID: EndIdent, Idx: 0, Name: "<end>"},
			{ID: 1, Idx: 1, Name: "a"},
		},
		NonTermIdx: []NonTermIndex{
			{ID: 0x10002, Idx: 0, Name: "<start>"},
			{ID: 10, Idx: 1, Name: "s"},
		},
		SemanticIdx: []SemanticIndex{{RuleID: 1, Idx: 1}},
		NumRHSSyms:  []int{1, 1},
		LHSIdx:      []int{0, 1},
	}
}

func TestWriteRead_roundTrip(t *testing.T) {
	for _, negative := range []bool{false, true} {
		t.Run("negative sentinels: "+strconv.FormatBool(negative), func(t *testing.T) {
			orig := testTableSet()
			w := &Writer{
				NegativeSentinels: negative,
			}

			var buf bytes.Buffer
			err := w.Write(&buf, orig)
			require.NoError(t, err)

			got, err := Read(&buf)
			require.NoError(t, err)
			require.Equal(t, orig, got)
		})
	}
}

func TestWrite_negativeSentinels(t *testing.T) {
	w := &Writer{
		NegativeSentinels: true,
	}

	var buf bytes.Buffer
	err := w.Write(&buf, testTableSet())
	require.NoError(t, err)

	// The raw reserved values must not survive into the file.
	text := buf.String()
	require.NotContains(t, text, strconv.Itoa(ErrorVal))
	require.NotContains(t, text, strconv.Itoa(AcceptVal))
	require.Contains(t, text, "err = -1")
	require.Contains(t, text, "acc = -2")
	require.Contains(t, text, "eps = -3")
	require.Contains(t, text, "end = -4")
}

func TestWriteRead_partials(t *testing.T) {
	orig := testTableSet()
	partial := func(colLabel, elemLabel string, fill int) *Table {
		return &Table{
			Rows: 2, Cols: 2,
			RowLabel: "state", ColLabel: colLabel, ElemLabel: elemLabel,
			Elems: [][]int{
				{fill, fill},
				{fill, 1},
			},
		}
	}
	orig.PartialsRuleTerm = partial("terminal", "rule", ErrorVal)
	orig.PartialsMatchLenTerm = partial("terminal", "match_length", 0)
	orig.PartialsRuleNonTerm = partial("nonterminal", "rule", ErrorVal)
	orig.PartialsMatchLenNonTerm = partial("nonterminal", "match_length", 0)
	orig.PartialsLHSNonTerm = partial("nonterminal", "lhs", ErrorVal)

	var buf bytes.Buffer
	w := &Writer{}
	err := w.Write(&buf, orig)
	require.NoError(t, err)

	got, err := Read(&buf)
	require.NoError(t, err)
	require.True(t, got.HasPartials())
	require.Equal(t, orig, got)
}

func TestRead_dimensionMismatch(t *testing.T) {
	orig := testTableSet()
	orig.Shift.Rows = 3

	var buf bytes.Buffer
	w := &Writer{}
	err := w.Write(&buf, orig)
	require.NoError(t, err)

	_, err = Read(&buf)
	require.ErrorContains(t, err, "shift")
}
