package driver

import (
	"fmt"
	"io"

	"github.com/parsekit/lalrtab/tabspec"
)

// SemanticActionSet receives the parser's events. Reduce is keyed by the
// dense rule index; front ends map it to their own action identifiers via the
// table set's semantic index.
type SemanticActionSet interface {
	// Shift runs when the parser consumes a terminal.
	Shift(tok *Token)

	// Reduce runs when the parser reduces a rule, after the RHS states were
	// popped and the jump was taken.
	Reduce(ruleIdx int)

	// Accept runs once when the parser accepts the input.
	Accept()
}

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// SyntaxTreeActionSet builds a concrete syntax tree from the parse. It is the
// default semantic action set front ends use when they only need the tree
// shape.
type SyntaxTreeActionSet struct {
	tabSet       *tabspec.TableSet
	termNames    []string
	nonTermNames []string
	semStack     []*Node
	tree         *Node
}

func NewSyntaxTreeActionSet(tabSet *tabspec.TableSet) *SyntaxTreeActionSet {
	termNames := make([]string, tabSet.Shift.Cols)
	for _, e := range tabSet.TermIdx {
		if e.Idx < len(termNames) {
			termNames[e.Idx] = e.Name
		}
	}
	nonTermNames := make([]string, tabSet.Jump.Cols)
	for _, e := range tabSet.NonTermIdx {
		if e.Idx < len(nonTermNames) {
			nonTermNames[e.Idx] = e.Name
		}
	}
	return &SyntaxTreeActionSet{
		tabSet:       tabSet,
		termNames:    termNames,
		nonTermNames: nonTermNames,
	}
}

func (a *SyntaxTreeActionSet) Shift(tok *Token) {
	term, _ := a.tabSet.TermIndexOf(tok.TermID)
	a.semStack = append(a.semStack, &Node{
		KindName: a.termNames[term],
		Text:     tok.Text,
		Row:      tok.Row,
		Col:      tok.Col,
	})
}

func (a *SyntaxTreeActionSet) Reduce(ruleIdx int) {
	n := a.tabSet.NumRHSSyms[ruleIdx]

	// When a rule is empty, n is 0 and the handle is empty.
	handle := a.semStack[len(a.semStack)-n:]
	children := make([]*Node, len(handle))
	copy(children, handle)

	a.semStack = a.semStack[:len(a.semStack)-n]
	a.semStack = append(a.semStack, &Node{
		KindName: a.nonTermNames[a.tabSet.LHSIdx[ruleIdx]],
		Children: children,
	})
}

func (a *SyntaxTreeActionSet) Accept() {
	a.tree = a.semStack[len(a.semStack)-1]
}

func (a *SyntaxTreeActionSet) Tree() *Node {
	return a.tree
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}
