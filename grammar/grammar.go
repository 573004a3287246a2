package grammar

import "fmt"

// Grammar is a validated, immutable grammar model. Build one with a
// GrammarBuilder, then generate parsing tables with Compile.
type Grammar struct {
	symTab     *symbolTable
	ruleSet    *ruleSet
	startSym   symbol
	acceptRule *rule
}

// AcceptingRule returns the dense index of the implicit accept rule, whose
// reduction at end-of-input accepts the input.
func (g *Grammar) AcceptingRule() int {
	return g.acceptRule.num.Int()
}

type terminalDecl struct {
	id   SymbolID
	name string
}

type nonTerminalDecl struct {
	id   SymbolID
	name string
}

type precDecl struct {
	id    SymbolID
	prec  int
	assoc AssocType
}

type ruleDecl struct {
	id       RuleID
	lhs      SymbolID
	rhs      []SymbolID
	actionID int
	precTerm SymbolID
}

// GrammarBuilder collects symbol, rule, and precedence declarations and
// validates them as a whole. Declaration order is significant: it determines
// dense index assignment and reduce/reduce conflict resolution.
type GrammarBuilder struct {
	terminals    []terminalDecl
	nonTerminals []nonTerminalDecl
	precs        []precDecl
	rules        []ruleDecl
	start        SymbolID
	startSet     bool
}

func NewGrammarBuilder() *GrammarBuilder {
	return &GrammarBuilder{}
}

// Terminal declares a terminal symbol. The name is optional and is carried
// into the exported index maps for human-readable output.
func (b *GrammarBuilder) Terminal(id SymbolID, name string) *GrammarBuilder {
	b.terminals = append(b.terminals, terminalDecl{id: id, name: name})
	return b
}

func (b *GrammarBuilder) NonTerminal(id SymbolID, name string) *GrammarBuilder {
	b.nonTerminals = append(b.nonTerminals, nonTerminalDecl{id: id, name: name})
	return b
}

// Precedence declares the precedence level and associativity of a terminal.
// Higher levels bind tighter.
func (b *GrammarBuilder) Precedence(term SymbolID, prec int, assoc AssocType) *GrammarBuilder {
	b.precs = append(b.precs, precDecl{id: term, prec: prec, assoc: assoc})
	return b
}

// Rule declares a production. An RHS of exactly one EpsIdent denotes the empty
// RHS. The action identifier is handed to the driver's reduction callback.
func (b *GrammarBuilder) Rule(id RuleID, lhs SymbolID, rhs []SymbolID, actionID int) *GrammarBuilder {
	b.rules = append(b.rules, ruleDecl{id: id, lhs: lhs, rhs: rhs, actionID: actionID, precTerm: -1})
	return b
}

// RuleWithPrec declares a production whose effective precedence is overridden
// by the named terminal's declared precedence.
func (b *GrammarBuilder) RuleWithPrec(id RuleID, lhs SymbolID, rhs []SymbolID, actionID int, precTerm SymbolID) *GrammarBuilder {
	b.rules = append(b.rules, ruleDecl{id: id, lhs: lhs, rhs: rhs, actionID: actionID, precTerm: precTerm})
	return b
}

func (b *GrammarBuilder) Start(nonTerm SymbolID) *GrammarBuilder {
	b.start = nonTerm
	b.startSet = true
	return b
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	if len(b.rules) == 0 {
		return nil, semErrNoRule
	}

	symTab := newSymbolTable()
	for _, d := range b.terminals {
		if err := symTab.registerTerminal(d.id, d.name); err != nil {
			return nil, err
		}
	}
	for _, d := range b.nonTerminals {
		if err := symTab.registerNonTerminal(d.id, d.name); err != nil {
			return nil, err
		}
	}

	for _, d := range b.precs {
		e, ok := symTab.terms[d.id]
		if !ok {
			return nil, fmt.Errorf("precedence declaration for %v: %w", d.id, semErrUndeclaredSymbol)
		}
		if e.prec != precNil || e.assoc != AssocTypeNil {
			return nil, fmt.Errorf("precedence declaration for %v: %w", d.id, semErrDuplicateID)
		}
		e.prec = d.prec
		e.assoc = d.assoc
	}

	if !b.startSet {
		return nil, fmt.Errorf("start symbol: %w", semErrUndeclaredSymbol)
	}
	startSym, ok := symTab.lookup(b.start)
	if !ok || !startSym.isNonTerminal() {
		return nil, fmt.Errorf("start symbol %v: %w", b.start, semErrUndeclaredSymbol)
	}

	ruleSet := newRuleSet()
	acceptRule, err := newRule(-1, symbolStart, []symbol{startSym}, 0)
	if err != nil {
		return nil, err
	}
	ruleSet.append(acceptRule)

	startDerivable := false
	for _, d := range b.rules {
		if d.id < 0 {
			return nil, fmt.Errorf("rule %v: %w: an identifier must be non-negative", d.id, semErrInvalidIdent)
		}
		if _, declared := ruleSet.findByID(d.id); declared {
			return nil, fmt.Errorf("rule %v: %w", d.id, semErrDuplicateID)
		}

		lhs, ok := symTab.lookup(d.lhs)
		if !ok || !lhs.isNonTerminal() {
			return nil, fmt.Errorf("rule %v: LHS %v: %w", d.id, d.lhs, semErrUndeclaredSymbol)
		}

		rhs, err := b.resolveRHS(symTab, d)
		if err != nil {
			return nil, err
		}

		r, err := newRule(d.id, lhs, rhs, d.actionID)
		if err != nil {
			return nil, err
		}
		if err := b.applyPrecedence(symTab, d, r); err != nil {
			return nil, err
		}
		ruleSet.append(r)

		if lhs == startSym {
			startDerivable = true
		}
	}
	if !startDerivable {
		return nil, fmt.Errorf("start symbol %v: %w", b.start, semErrUnreachableStart)
	}

	return &Grammar{
		symTab:     symTab,
		ruleSet:    ruleSet,
		startSym:   startSym,
		acceptRule: acceptRule,
	}, nil
}

func (b *GrammarBuilder) resolveRHS(symTab *symbolTable, d ruleDecl) ([]symbol, error) {
	if len(d.rhs) == 1 && d.rhs[0] == EpsIdent {
		return nil, nil
	}
	rhs := make([]symbol, len(d.rhs))
	for i, id := range d.rhs {
		if id == EpsIdent {
			return nil, fmt.Errorf("rule %v: %w", d.id, semErrMisplacedEpsilon)
		}
		sym, ok := symTab.lookup(id)
		if !ok || sym.isEnd() {
			return nil, fmt.Errorf("rule %v: RHS %v: %w", d.id, id, semErrUndeclaredSymbol)
		}
		rhs[i] = sym
	}
	return rhs, nil
}

func (b *GrammarBuilder) applyPrecedence(symTab *symbolTable, d ruleDecl, r *rule) error {
	if d.precTerm >= 0 {
		e, ok := symTab.terms[d.precTerm]
		if !ok {
			return fmt.Errorf("rule %v: precedence terminal %v: %w", d.id, d.precTerm, semErrUndeclaredSymbol)
		}
		if e.prec == precNil {
			return fmt.Errorf("rule %v: precedence terminal %v: %w", d.id, d.precTerm, semErrNoPrecedence)
		}
		r.prec = e.prec
		r.assoc = e.assoc
		return nil
	}
	for i := r.rhsLen - 1; i >= 0; i-- {
		if !r.rhs[i].isTerminal() {
			continue
		}
		e := symTab.terms[r.rhs[i].id]
		r.prec = e.prec
		r.assoc = e.assoc
		break
	}
	return nil
}
