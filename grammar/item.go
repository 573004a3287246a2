package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
)

// itemID identifies an LR item by (rule, dot), ignoring look-ahead. Two item
// sets with the same itemIDs share a core.
type itemID struct {
	rule ruleNum
	dot  int
}

func (id itemID) String() string {
	return fmt.Sprintf("%v.%v", id.rule, id.dot)
}

func itemIDLess(a, b itemID) bool {
	if a.rule != b.rule {
		return a.rule < b.rule
	}
	return a.dot < b.dot
}

type lookAhead struct {
	symbols map[symbol]struct{}

	// When propagation is true, an item propagates look-ahead symbols to other
	// items.
	propagation bool
}

type lrItem struct {
	id   itemID
	rule *rule

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol symbol

	// When initial is true, the LHS of the rule is the augmented start symbol
	// and dot is 0. It looks like S' →・S.
	initial bool

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	// When kernel is true, the item is a kernel item.
	kernel bool

	// lookAhead stores look-ahead terminal symbols. The item is reducible only
	// when a look-ahead symbol appears as the next input symbol.
	lookAhead lookAhead
}

func newLRItem(r *rule, dot int) (*lrItem, error) {
	if r == nil {
		return nil, fmt.Errorf("rule must be non-nil")
	}
	if dot < 0 || dot > r.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", r.rhsLen)
	}

	dottedSymbol := symbolNil
	if dot < r.rhsLen {
		dottedSymbol = r.rhs[dot]
	}

	initial := r.lhs.isStart() && dot == 0
	reducible := dot == r.rhsLen
	kernel := initial || dot > 0

	return &lrItem{
		id:           itemID{rule: r.num, dot: dot},
		rule:         r,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      initial,
		reducible:    reducible,
		kernel:       kernel,
	}, nil
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

type kernel struct {
	id    kernelID
	items []*lrItem
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	// Remove duplicates from items and order them canonically.
	var sortedItems []*lrItem
	{
		m := map[itemID]*lrItem{}
		for _, item := range items {
			if !item.kernel {
				return nil, fmt.Errorf("not a kernel item: %v", item.id)
			}
			m[item.id] = item
		}
		sortedItems = make([]*lrItem, 0, len(m))
		for _, item := range m {
			sortedItems = append(sortedItems, item)
		}
		sort.Slice(sortedItems, func(i, j int) bool {
			return itemIDLess(sortedItems[i].id, sortedItems[j].id)
		})
	}

	var id kernelID
	{
		b := make([]byte, 0, len(sortedItems)*16)
		for _, item := range sortedItems {
			var enc [16]byte
			binary.LittleEndian.PutUint64(enc[:8], uint64(item.id.rule))
			binary.LittleEndian.PutUint64(enc[8:], uint64(item.id.dot))
			b = append(b, enc[:]...)
		}
		id = sha256.Sum256(b)
	}

	return &kernel{
		id:    id,
		items: sortedItems,
	}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

type lrState struct {
	*kernel
	num       stateNum
	next      map[symbol]kernelID
	reducible map[ruleNum]struct{}

	// emptyRuleItems stores reducible items of empty rules like `p →・`.
	// They are not kernel items, but they carry look-ahead symbols, so they
	// must survive beyond the closure computation.
	emptyRuleItems []*lrItem

	// closure retains the state's full item closure. The partial-match pass
	// scans it after the automaton is complete.
	closure []*lrItem
}

// findItem looks up an item of the state by its core, searching kernel items
// first and empty-rule items second.
func (s *lrState) findItem(id itemID) *lrItem {
	for _, item := range s.items {
		if item.id == id {
			return item
		}
	}
	for _, item := range s.emptyRuleItems {
		if item.id == id {
			return item
		}
	}
	return nil
}
