// Package driver implements a generic table-driven LR parser over an
// assembled table set. It owns no grammar knowledge beyond the tables: tokens
// arrive as raw terminal identifiers, and every reduction is delegated to a
// caller-supplied semantic action set.
package driver

import (
	"fmt"

	"github.com/parsekit/lalrtab/tabspec"
)

type SyntaxError struct {
	Row     int
	Col     int
	Message string
	Token   *Token

	// ExpectedTerminals lists the terminals the state had an exact action for.
	ExpectedTerminals []string

	// PartialRule and PartialMatchLen carry the partial-match candidate for
	// the failing (state, terminal) cell when the table set has partial
	// tables: the rule whose prefix matched furthest and how many of its RHS
	// symbols were already matched. PartialRule is ErrorVal when no item
	// matched at all.
	PartialRule     int
	PartialMatchLen int
}

type ParserOption func(p *Parser) error

// WithSemanticAction registers the callback set invoked on shift, reduction,
// and acceptance.
func WithSemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

type Parser struct {
	tabSet     *tabspec.TableSet
	toks       TokenStream
	stateStack []int
	semAct     SemanticActionSet
	synErrs    []*SyntaxError

	termIdx   map[int]int
	termNames []string
}

func NewParser(tabSet *tabspec.TableSet, toks TokenStream, opts ...ParserOption) (*Parser, error) {
	termIdx := make(map[int]int, len(tabSet.TermIdx))
	termNames := make([]string, tabSet.Shift.Cols)
	for _, e := range tabSet.TermIdx {
		termIdx[e.ID] = e.Idx
		if e.Idx < len(termNames) {
			name := e.Name
			if name == "" {
				name = fmt.Sprintf("#%v", e.ID)
			}
			termNames[e.Idx] = name
		}
	}

	p := &Parser{
		tabSet:    tabSet,
		toks:      toks,
		termIdx:   termIdx,
		termNames: termNames,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs the input to acceptance or to the first syntax error. A syntax
// error is recorded, not returned: the returned error reports only stream or
// table malfunctions.
func (p *Parser) Parse() error {
	p.push(p.tabSet.StartState)
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for {
		term, ok := p.termIdx[tok.TermID]
		if !ok {
			return fmt.Errorf("unknown terminal identifier: %v", tok.TermID)
		}

		if next := p.tabSet.Shift.Elems[p.top()][term]; next != tabspec.ErrorVal {
			p.push(next)
			if p.semAct != nil {
				p.semAct.Shift(tok)
			}
			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
			continue
		}

		switch r := p.tabSet.Reduce.Elems[p.top()][term]; r {
		case tabspec.AcceptVal:
			if p.semAct != nil {
				p.semAct.Accept()
			}
			return nil
		case tabspec.ErrorVal:
			p.synErrs = append(p.synErrs, p.newSyntaxError(tok, term))
			return nil
		default:
			p.pop(p.tabSet.NumRHSSyms[r])
			lhs := p.tabSet.LHSIdx[r]
			next := p.tabSet.Jump.Elems[p.top()][lhs]
			if next == tabspec.ErrorVal {
				return fmt.Errorf("no jump action; state: %v, non-terminal index: %v", p.top(), lhs)
			}
			p.push(next)
			if p.semAct != nil {
				p.semAct.Reduce(r)
			}
		}
	}
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

func (p *Parser) newSyntaxError(tok *Token, term int) *SyntaxError {
	synErr := &SyntaxError{
		Row:               tok.Row,
		Col:               tok.Col,
		Message:           "unexpected token",
		Token:             tok,
		PartialRule:       tabspec.ErrorVal,
		ExpectedTerminals: p.expectedTerminals(p.top()),
	}
	if p.tabSet.HasPartials() {
		synErr.PartialRule = p.tabSet.PartialsRuleTerm.Elems[p.top()][term]
		synErr.PartialMatchLen = p.tabSet.PartialsMatchLenTerm.Elems[p.top()][term]
	}
	return synErr
}

func (p *Parser) expectedTerminals(state int) []string {
	var names []string
	for term := 0; term < p.tabSet.Shift.Cols; term++ {
		if p.tabSet.Shift.Elems[state][term] == tabspec.ErrorVal &&
			p.tabSet.Reduce.Elems[state][term] == tabspec.ErrorVal {
			continue
		}
		names = append(names, p.termNames[term])
	}
	return names
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}
