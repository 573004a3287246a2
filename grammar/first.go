package grammar

import "fmt"

type firstEntry struct {
	symbols map[symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol]struct{}{},
	}
}

func (e *firstEntry) add(sym symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

type firstSet struct {
	set map[symbol]*firstEntry
}

func newFirstSet(rules *ruleSet) *firstSet {
	fst := &firstSet{
		set: map[symbol]*firstEntry{},
	}
	for _, r := range rules.rules() {
		if _, ok := fst.set[r.lhs]; ok {
			continue
		}
		fst.set[r.lhs] = newFirstEntry()
	}
	return fst
}

// find computes FIRST of the RHS suffix of a rule beginning at position head.
func (fst *firstSet) find(r *rule, head int) (*firstEntry, error) {
	entry := newFirstEntry()
	if r.rhsLen <= head {
		entry.addEmpty()
		return entry, nil
	}
	for _, sym := range r.rhs[head:] {
		if sym.isTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", sym)
		}
		for s := range e.symbols {
			entry.add(s)
		}
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol) *firstEntry {
	return fst.set[sym]
}

func genFirstSet(rules *ruleSet) (*firstSet, error) {
	fst := newFirstSet(rules)
	for {
		more := false
		for _, r := range rules.rules() {
			e := fst.findBySymbol(r.lhs)
			changed, err := genRuleFirstEntry(fst, e, r)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst, nil
}

func genRuleFirstEntry(fst *firstSet, acc *firstEntry, r *rule) (bool, error) {
	if r.isEmpty() {
		return acc.addEmpty(), nil
	}
	for _, sym := range r.rhs {
		if sym.isTerminal() {
			return acc.add(sym), nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %v", sym)
		}
		changed := acc.mergeExceptEmpty(e)
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty(), nil
}
