package grammar

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
)

// Sentinel values of the table-value space. They are distinct from every valid
// state and rule index; Compile fails if a grammar is large enough for the
// ranges to collide.
const (
	ErrorVal  = 0x10000
	AcceptVal = 0x10001
)

type ConflictResolution int

const (
	ResolvedByPrec ConflictResolution = iota + 1
	ResolvedByAssoc
	ResolvedByShift
	ResolvedByRuleOrder
	Unresolved
)

func (r ConflictResolution) String() string {
	switch r {
	case ResolvedByPrec:
		return "precedence"
	case ResolvedByAssoc:
		return "associativity"
	case ResolvedByShift:
		return "shift by default"
	case ResolvedByRuleOrder:
		return "rule declaration order"
	case Unresolved:
		return "unresolved"
	}
	return "unknown"
}

// Conflict is a diagnostic record of a resolved or unresolved ambiguity in one
// (state, terminal) cell. Conflicts are always reported, even when the
// resolution policy picked an action.
type Conflict interface {
	conflict()
}

type ShiftReduceConflict struct {
	State      int
	Terminal   SymbolID
	NextState  int
	Rule       RuleID
	ResolvedBy ConflictResolution

	// AdoptedShift is true when the shift action survived. When ResolvedBy is
	// Unresolved, neither action survived and the cell holds ErrorVal.
	AdoptedShift bool
}

func (c *ShiftReduceConflict) conflict() {
}

type ReduceReduceConflict struct {
	State      int
	Terminal   SymbolID
	Rule1      RuleID
	Rule2      RuleID
	Adopted    RuleID
	ResolvedBy ConflictResolution
}

func (c *ReduceReduceConflict) conflict() {
}

var (
	_ Conflict = &ShiftReduceConflict{}
	_ Conflict = &ReduceReduceConflict{}
)

// ParsingTable holds the dense, conflict-free tables. Rows are state indices;
// columns are dense terminal indices for shift/reduce and the partial terminal
// tables, and dense non-terminal indices for jump and the partial non-terminal
// tables. Empty cells hold ErrorVal.
type ParsingTable struct {
	shift  []int
	reduce []int
	jump   []int

	partialsRuleTerm        []int
	partialsMatchLenTerm    []int
	partialsRuleNonTerm     []int
	partialsMatchLenNonTerm []int
	partialsLHSNonTerm      []int

	stateCount   int
	termCount    int
	nonTermCount int

	InitialState int
}

func (t *ParsingTable) StateCount() int {
	return t.stateCount
}

func (t *ParsingTable) TerminalCount() int {
	return t.termCount
}

func (t *ParsingTable) NonTerminalCount() int {
	return t.nonTermCount
}

func (t *ParsingTable) Shift(state, term int) int {
	return t.shift[state*t.termCount+term]
}

func (t *ParsingTable) Reduce(state, term int) int {
	return t.reduce[state*t.termCount+term]
}

func (t *ParsingTable) Jump(state, nonTerm int) int {
	return t.jump[state*t.nonTermCount+nonTerm]
}

func (t *ParsingTable) PartialsRuleTerm(state, term int) int {
	return t.partialsRuleTerm[state*t.termCount+term]
}

func (t *ParsingTable) PartialsMatchLenTerm(state, term int) int {
	return t.partialsMatchLenTerm[state*t.termCount+term]
}

func (t *ParsingTable) PartialsRuleNonTerm(state, nonTerm int) int {
	return t.partialsRuleNonTerm[state*t.nonTermCount+nonTerm]
}

func (t *ParsingTable) PartialsMatchLenNonTerm(state, nonTerm int) int {
	return t.partialsMatchLenNonTerm[state*t.nonTermCount+nonTerm]
}

func (t *ParsingTable) PartialsLHSNonTerm(state, nonTerm int) int {
	return t.partialsLHSNonTerm[state*t.nonTermCount+nonTerm]
}

func (t *ParsingTable) hasPartials() bool {
	return t.partialsRuleTerm != nil
}

type lalrTableBuilder struct {
	automaton *lalr1Automaton
	rules     *ruleSet
	symTab    *symbolTable

	conflicts []Conflict
}

func (b *lalrTableBuilder) build() (*ParsingTable, error) {
	stateCount := len(b.automaton.stateList)
	termCount := b.symTab.termCount()
	nonTermCount := b.symTab.nonTermCount()

	ptab := &ParsingTable{
		shift:        newTableSlice(stateCount * termCount),
		reduce:       newTableSlice(stateCount * termCount),
		jump:         newTableSlice(stateCount * nonTermCount),
		stateCount:   stateCount,
		termCount:    termCount,
		nonTermCount: nonTermCount,
		InitialState: b.automaton.states[b.automaton.initialState].num.Int(),
	}

	for _, state := range b.automaton.stateList {
		nextSyms := make([]symbol, 0, len(state.next))
		for sym := range state.next {
			nextSyms = append(nextSyms, sym)
		}
		sort.Slice(nextSyms, func(i, j int) bool {
			return symLess(nextSyms[i], nextSyms[j])
		})
		for _, sym := range nextSyms {
			nextState := b.automaton.states[state.next[sym]]
			if sym.isTerminal() {
				if err := b.writeShiftAction(ptab, state.num, sym, nextState.num); err != nil {
					return nil, err
				}
			} else {
				b.writeJump(ptab, state.num, sym, nextState.num)
			}
		}

		reducibleNums := make([]ruleNum, 0, len(state.reducible))
		for num := range state.reducible {
			reducibleNums = append(reducibleNums, num)
		}
		sort.Slice(reducibleNums, func(i, j int) bool {
			return reducibleNums[i] < reducibleNums[j]
		})
		for _, num := range reducibleNums {
			reducibleRule, ok := b.rules.findByNum(num)
			if !ok {
				return nil, fmt.Errorf("reducible rule not found: %v", num)
			}

			var reducibleItem *lrItem
			for _, item := range state.items {
				if item.rule.num == num && item.reducible {
					reducibleItem = item
					break
				}
			}
			if reducibleItem == nil {
				for _, item := range state.emptyRuleItems {
					if item.rule.num == num {
						reducibleItem = item
						break
					}
				}
				if reducibleItem == nil {
					return nil, fmt.Errorf("reducible item not found; state: %v, rule: %v", state.num, num)
				}
			}

			// Iterate look-ahead symbols in sorted column order so that
			// conflict records and cell writes are reproducible.
			las := treeset.NewWithIntComparator()
			for a := range reducibleItem.lookAhead.symbols {
				n, ok := b.symTab.termNum(a.id)
				if !ok {
					return nil, fmt.Errorf("look-ahead symbol not found: %v", a)
				}
				las.Add(n)
			}
			for _, v := range las.Values() {
				if err := b.writeReduceAction(ptab, state.num, v.(int), reducibleRule); err != nil {
					return nil, err
				}
			}
		}
	}

	return ptab, nil
}

func newTableSlice(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = ErrorVal
	}
	return s
}

func (b *lalrTableBuilder) writeJump(tab *ParsingTable, state stateNum, sym symbol, nextState stateNum) {
	n, _ := b.symTab.nonTermNum(sym.id)
	tab.jump[state.Int()*tab.nonTermCount+n] = nextState.Int()
}

// writeShiftAction writes a shift action. A collision with an already written
// reduce action is a shift/reduce conflict and goes through the resolution
// policy.
func (b *lalrTableBuilder) writeShiftAction(tab *ParsingTable, state stateNum, sym symbol, nextState stateNum) error {
	termE := b.symTab.terms[sym.id]
	pos := state.Int()*tab.termCount + termE.num
	if tab.reduce[pos] != ErrorVal {
		num := reduceCellRule(tab.reduce[pos])
		reduced, ok := b.rules.findByNum(num)
		if !ok {
			return fmt.Errorf("reduce cell holds an unknown rule: %v", num)
		}
		b.resolveAndWriteSR(tab, pos, state, termE, nextState, reduced)
		return nil
	}
	tab.shift[pos] = nextState.Int()
	return nil
}

// writeReduceAction writes a reduce action (AcceptVal for the accept rule).
// Collisions with a shift action go through the precedence policy; collisions
// with another reduce action are resolved in favor of the rule declared
// earliest.
func (b *lalrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, term int, r *rule) error {
	pos := state.Int()*tab.termCount + term
	termE := b.symTab.termList[term]

	if tab.reduce[pos] != ErrorVal {
		num := reduceCellRule(tab.reduce[pos])
		existing, ok := b.rules.findByNum(num)
		if !ok {
			return fmt.Errorf("reduce cell holds an unknown rule: %v", num)
		}
		if existing.num == r.num {
			return nil
		}

		adopted := existing
		if r.num < existing.num {
			adopted = r
		}
		b.conflicts = append(b.conflicts, &ReduceReduceConflict{
			State:      state.Int(),
			Terminal:   termE.id,
			Rule1:      existing.id,
			Rule2:      r.id,
			Adopted:    adopted.id,
			ResolvedBy: ResolvedByRuleOrder,
		})
		tab.reduce[pos] = reduceCellValue(adopted)
		return nil
	}

	if tab.shift[pos] != ErrorVal {
		b.resolveAndWriteSR(tab, pos, state, termE, stateNum(tab.shift[pos]), r)
		return nil
	}

	tab.reduce[pos] = reduceCellValue(r)
	return nil
}

// resolveAndWriteSR applies the shift/reduce resolution policy to one cell and
// records the conflict. Exactly one of the two actions survives, or neither
// when the conflict is unresolved.
func (b *lalrTableBuilder) resolveAndWriteSR(tab *ParsingTable, pos int, state stateNum, termE *termEntry, nextState stateNum, r *rule) {
	shift, method := resolveSRConflict(termE, r)
	b.conflicts = append(b.conflicts, &ShiftReduceConflict{
		State:        state.Int(),
		Terminal:     termE.id,
		NextState:    nextState.Int(),
		Rule:         r.id,
		ResolvedBy:   method,
		AdoptedShift: method != Unresolved && shift,
	})
	switch {
	case method == Unresolved:
		tab.shift[pos] = ErrorVal
		tab.reduce[pos] = ErrorVal
	case shift:
		tab.shift[pos] = nextState.Int()
		tab.reduce[pos] = ErrorVal
	default:
		tab.shift[pos] = ErrorVal
		tab.reduce[pos] = reduceCellValue(r)
	}
}

// resolveSRConflict decides a shift/reduce conflict: higher precedence wins;
// on a tie the associativity decides (left reduces, right shifts, none leaves
// the cell empty); when either side lacks precedence, shift wins.
func resolveSRConflict(termE *termEntry, r *rule) (bool, ConflictResolution) {
	if termE.prec == precNil || r.prec == precNil {
		return true, ResolvedByShift
	}
	if termE.prec == r.prec {
		switch termE.assoc {
		case AssocTypeLeft:
			return false, ResolvedByAssoc
		case AssocTypeRight:
			return true, ResolvedByAssoc
		}
		return false, Unresolved
	}
	if termE.prec > r.prec {
		return true, ResolvedByPrec
	}
	return false, ResolvedByPrec
}

func reduceCellValue(r *rule) int {
	if r.num == ruleNumAccept {
		return AcceptVal
	}
	return r.num.Int()
}

func reduceCellRule(v int) ruleNum {
	if v == AcceptVal {
		return ruleNumAccept
	}
	return ruleNum(v)
}
