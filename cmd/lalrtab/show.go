package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/parsekit/lalrtab/tabspec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the contents of a parsing table file",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ts, err := tabspec.Read(f)
	if err != nil {
		return err
	}

	if ts.Infos != "" {
		fmt.Printf("%v\n\n", ts.Infos)
	}
	fmt.Printf("accept rule: %v\n", ts.AcceptRule)
	fmt.Printf("start state: %v\n", ts.StartState)
	fmt.Printf("partial-match tables: %v\n\n", ts.HasPartials())

	termNames := make([]string, ts.Shift.Cols)
	for _, e := range ts.TermIdx {
		termNames[e.Idx] = e.Name
	}
	nonTermNames := make([]string, ts.Jump.Cols)
	for _, e := range ts.NonTermIdx {
		nonTermNames[e.Idx] = e.Name
	}

	fmt.Println("ACTION (shift/reduce)")
	printActionTable(ts, termNames)
	fmt.Println()

	fmt.Println("GOTO (jump)")
	printDenseTable(ts.Jump, nonTermNames)
	fmt.Println()

	fmt.Println("TERMINALS")
	printTermIndex(ts)
	fmt.Println()

	fmt.Println("NON-TERMINALS")
	printNonTermIndex(ts)
	fmt.Println()

	fmt.Println("RULES")
	printRules(ts, nonTermNames)

	return nil
}

// printActionTable merges the shift and reduce tables into one view: sN for a
// shift to state N, rN for a reduction of rule N, acc for acceptance.
func printActionTable(ts *tabspec.TableSet, termNames []string) {
	tab := tablewriter.NewWriter(os.Stdout)
	tab.SetHeader(append([]string{"state"}, termNames...))
	for row := 0; row < ts.Shift.Rows; row++ {
		cells := make([]string, 0, ts.Shift.Cols+1)
		cells = append(cells, strconv.Itoa(row))
		for col := 0; col < ts.Shift.Cols; col++ {
			cells = append(cells, actionCell(ts, row, col))
		}
		tab.Append(cells)
	}
	tab.Render()
}

func actionCell(ts *tabspec.TableSet, row, col int) string {
	if s := ts.Shift.Elems[row][col]; s != tabspec.ErrorVal {
		return fmt.Sprintf("s%v", s)
	}
	switch r := ts.Reduce.Elems[row][col]; r {
	case tabspec.ErrorVal:
		return ""
	case tabspec.AcceptVal:
		return "acc"
	default:
		return fmt.Sprintf("r%v", r)
	}
}

func printDenseTable(t *tabspec.Table, colNames []string) {
	tab := tablewriter.NewWriter(os.Stdout)
	tab.SetHeader(append([]string{t.RowLabel}, colNames...))
	for row := 0; row < t.Rows; row++ {
		cells := make([]string, 0, t.Cols+1)
		cells = append(cells, strconv.Itoa(row))
		for col := 0; col < t.Cols; col++ {
			v := t.Elems[row][col]
			if v == tabspec.ErrorVal {
				cells = append(cells, "")
			} else {
				cells = append(cells, strconv.Itoa(v))
			}
		}
		tab.Append(cells)
	}
	tab.Render()
}

func printTermIndex(ts *tabspec.TableSet) {
	precs := map[int]int{}
	for _, p := range ts.TermPrec {
		precs[p.ID] = p.Prec
	}
	assocs := map[int]string{}
	for _, a := range ts.TermAssoc {
		assocs[a.ID] = a.Assoc
	}

	tab := tablewriter.NewWriter(os.Stdout)
	tab.SetHeader([]string{"index", "id", "name", "prec", "assoc"})
	for _, e := range ts.TermIdx {
		prec := ""
		if p, ok := precs[e.ID]; ok {
			prec = strconv.Itoa(p)
		}
		tab.Append([]string{
			strconv.Itoa(e.Idx),
			termID(e.ID),
			e.Name,
			prec,
			assocs[e.ID],
		})
	}
	tab.Render()
}

func termID(id int) string {
	if id == tabspec.EndIdent {
		return "<end>"
	}
	return strconv.Itoa(id)
}

func printNonTermIndex(ts *tabspec.TableSet) {
	tab := tablewriter.NewWriter(os.Stdout)
	tab.SetHeader([]string{"index", "id", "name"})
	for _, e := range ts.NonTermIdx {
		id := ""
		if e.Idx != 0 {
			id = strconv.Itoa(e.ID)
		}
		tab.Append([]string{strconv.Itoa(e.Idx), id, e.Name})
	}
	tab.Render()
}

func printRules(ts *tabspec.TableSet, nonTermNames []string) {
	ids := map[int]int{}
	for _, e := range ts.SemanticIdx {
		ids[e.Idx] = e.RuleID
	}

	tab := tablewriter.NewWriter(os.Stdout)
	tab.SetHeader([]string{"index", "id", "lhs", "rhs len"})
	for idx := range ts.NumRHSSyms {
		id := ""
		if rid, ok := ids[idx]; ok {
			id = strconv.Itoa(rid)
		}
		tab.Append([]string{
			strconv.Itoa(idx),
			id,
			nonTermNames[ts.LHSIdx[idx]],
			strconv.Itoa(ts.NumRHSSyms[idx]),
		})
	}
	tab.Render()
}
