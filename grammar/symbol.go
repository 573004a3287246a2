package grammar

import (
	"fmt"
	"sort"
)

// SymbolID is a grammar-level symbol identifier declared by the caller.
// Terminal and non-terminal identifiers live in disjoint id spaces, so an ID
// is meaningful only together with its kind.
type SymbolID int

const (
	// MaxUserIdent is the largest identifier callers may declare. The reserved
	// identifiers below sit outside this range.
	MaxUserIdent = SymbolID(0xffff)

	// EpsIdent marks an empty production. A RHS consisting of exactly one
	// EpsIdent is equivalent to an empty RHS.
	EpsIdent = SymbolID(0x10000)

	// EndIdent is the end-of-input marker. It is treated as a terminal symbol
	// and always occupies terminal index 0.
	EndIdent = SymbolID(0x10001)

	// identStart identifies the augmented start symbol. It never appears in a
	// user-declared rule.
	identStart = SymbolID(0x10002)
)

type SymbolKind string

const (
	SymbolKindTerminal    = SymbolKind("terminal")
	SymbolKindNonTerminal = SymbolKind("non-terminal")
)

func (k SymbolKind) String() string {
	return string(k)
}

type AssocType int

const (
	// AssocTypeNil means no associativity was declared for a terminal.
	AssocTypeNil AssocType = iota
	AssocTypeLeft
	AssocTypeRight
	AssocTypeNone
)

func (a AssocType) String() string {
	switch a {
	case AssocTypeLeft:
		return "left"
	case AssocTypeRight:
		return "right"
	case AssocTypeNone:
		return "none"
	}
	return ""
}

// precNil means no precedence was declared.
const precNil = 0

type symbol struct {
	id   SymbolID
	kind SymbolKind
}

var (
	symbolNil   = symbol{id: -1}
	symbolEnd   = symbol{id: EndIdent, kind: SymbolKindTerminal}
	symbolStart = symbol{id: identStart, kind: SymbolKindNonTerminal}
)

func (s symbol) isNil() bool {
	return s.id < 0
}

func (s symbol) isTerminal() bool {
	return !s.isNil() && s.kind == SymbolKindTerminal
}

func (s symbol) isNonTerminal() bool {
	return !s.isNil() && s.kind == SymbolKindNonTerminal
}

func (s symbol) isStart() bool {
	return s.id == identStart
}

func (s symbol) isEnd() bool {
	return s.id == EndIdent
}

func (s symbol) String() string {
	switch {
	case s.isNil():
		return "<nil>"
	case s.isStart():
		return "<start>"
	case s.isEnd():
		return "<end>"
	case s.isTerminal():
		return fmt.Sprintf("t%v", int(s.id))
	}
	return fmt.Sprintf("n%v", int(s.id))
}

// symLess orders symbols deterministically: terminals before non-terminals,
// then by identifier. Neighbour kernels and table writes follow this order.
func symLess(a, b symbol) bool {
	if a.kind != b.kind {
		return a.kind == SymbolKindTerminal
	}
	return a.id < b.id
}

type termEntry struct {
	id    SymbolID
	name  string
	num   int // dense terminal index
	prec  int
	assoc AssocType
}

type nonTermEntry struct {
	id   SymbolID
	name string
	num  int // dense non-terminal index
}

// symbolTable maps the caller's sparse identifiers to dense indices. Indices
// are assigned in declaration order, so an unchanged grammar always yields the
// same assignment. Terminal index 0 and non-terminal index 0 are reserved for
// the end-of-input marker and the augmented start symbol.
type symbolTable struct {
	terms       map[SymbolID]*termEntry
	nonTerms    map[SymbolID]*nonTermEntry
	termList    []*termEntry
	nonTermList []*nonTermEntry
}

func newSymbolTable() *symbolTable {
	end := &termEntry{
		id:   EndIdent,
		name: "<end>",
		num:  0,
	}
	start := &nonTermEntry{
		id:   identStart,
		name: "<start>",
		num:  0,
	}
	return &symbolTable{
		terms: map[SymbolID]*termEntry{
			EndIdent: end,
		},
		nonTerms: map[SymbolID]*nonTermEntry{
			identStart: start,
		},
		termList:    []*termEntry{end},
		nonTermList: []*nonTermEntry{start},
	}
}

func (t *symbolTable) registerTerminal(id SymbolID, name string) error {
	if id < 0 || id > MaxUserIdent {
		return fmt.Errorf("terminal %v: %w: an identifier must be between 0 and %v", id, semErrInvalidIdent, int(MaxUserIdent))
	}
	if _, declared := t.terms[id]; declared {
		return fmt.Errorf("terminal %v: %w", id, semErrDuplicateID)
	}
	if _, declared := t.nonTerms[id]; declared {
		return fmt.Errorf("terminal %v: %w: the identifier is already a non-terminal", id, semErrDuplicateID)
	}
	e := &termEntry{
		id:   id,
		name: name,
		num:  len(t.termList),
	}
	t.terms[id] = e
	t.termList = append(t.termList, e)
	return nil
}

func (t *symbolTable) registerNonTerminal(id SymbolID, name string) error {
	if id < 0 || id > MaxUserIdent {
		return fmt.Errorf("non-terminal %v: %w: an identifier must be between 0 and %v", id, semErrInvalidIdent, int(MaxUserIdent))
	}
	if _, declared := t.nonTerms[id]; declared {
		return fmt.Errorf("non-terminal %v: %w", id, semErrDuplicateID)
	}
	if _, declared := t.terms[id]; declared {
		return fmt.Errorf("non-terminal %v: %w: the identifier is already a terminal", id, semErrDuplicateID)
	}
	e := &nonTermEntry{
		id:   id,
		name: name,
		num:  len(t.nonTermList),
	}
	t.nonTerms[id] = e
	t.nonTermList = append(t.nonTermList, e)
	return nil
}

// lookup resolves an identifier from either id space. EpsIdent is not a
// declarable symbol and never resolves.
func (t *symbolTable) lookup(id SymbolID) (symbol, bool) {
	if _, ok := t.terms[id]; ok {
		return symbol{id: id, kind: SymbolKindTerminal}, true
	}
	if _, ok := t.nonTerms[id]; ok {
		return symbol{id: id, kind: SymbolKindNonTerminal}, true
	}
	return symbolNil, false
}

func (t *symbolTable) termNum(id SymbolID) (int, bool) {
	e, ok := t.terms[id]
	if !ok {
		return 0, false
	}
	return e.num, true
}

func (t *symbolTable) nonTermNum(id SymbolID) (int, bool) {
	e, ok := t.nonTerms[id]
	if !ok {
		return 0, false
	}
	return e.num, true
}

// num returns the dense column index of a symbol within its kind's table.
func (t *symbolTable) num(sym symbol) (int, bool) {
	if sym.isTerminal() {
		return t.termNum(sym.id)
	}
	return t.nonTermNum(sym.id)
}

func (t *symbolTable) terminals() []*termEntry {
	return t.termList
}

func (t *symbolTable) nonTerminals() []*nonTermEntry {
	return t.nonTermList
}

func (t *symbolTable) termCount() int {
	return len(t.termList)
}

func (t *symbolTable) nonTermCount() int {
	return len(t.nonTermList)
}

// precedencedTerminals returns the terminals carrying a precedence or
// associativity declaration, in declaration order.
func (t *symbolTable) precedencedTerminals() []*termEntry {
	var entries []*termEntry
	for _, e := range t.termList {
		if e.prec == precNil && e.assoc == AssocTypeNil {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].num < entries[j].num
	})
	return entries
}
