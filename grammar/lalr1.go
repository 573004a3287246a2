package grammar

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

type stateAndLRItem struct {
	kernelID kernelID
	itemID   itemID
}

type propagation struct {
	src  *stateAndLRItem
	dest []*stateAndLRItem
}

type lalr1Automaton struct {
	*lr0Automaton
}

// genLALR1Automaton computes the look-ahead sets of an LR(0) automaton using
// spontaneous generation plus propagation, which yields the canonical LALR(1)
// result. The per-item closures are pure and are fanned out across goroutines;
// their results are applied strictly in state order, so the outcome is
// identical to a serial pass.
func genLALR1Automaton(lr0 *lr0Automaton, rules *ruleSet, first *firstSet, parallelism int) (*lalr1Automaton, error) {
	// Set the look-ahead symbol <end> on the initial item: [S' →・S, $]
	iniState := lr0.states[lr0.initialState]
	iniState.items[0].lookAhead.symbols = map[symbol]struct{}{
		symbolEnd: {},
	}

	closures := make([][][]*lrItem, len(lr0.stateList))
	{
		if parallelism < 1 {
			parallelism = 1
		}
		var g errgroup.Group
		g.SetLimit(parallelism)
		for si, state := range lr0.stateList {
			closures[si] = make([][]*lrItem, len(state.items))
			for ii, kItem := range state.items {
				si, ii, kItem := si, ii, kItem
				g.Go(func() error {
					items, err := genLALR1Closure(kItem, rules, first)
					if err != nil {
						return err
					}
					closures[si][ii] = items
					return nil
				})
			}
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var props []*propagation
	for si, state := range lr0.stateList {
		for ii, kItem := range state.items {
			items := closures[si][ii]

			kItem.lookAhead.propagation = true

			var propDests []*stateAndLRItem
			for _, item := range items {
				if item.reducible {
					if !item.rule.isEmpty() {
						continue
					}

					reducibleItem := state.findItem(item.id)
					if reducibleItem == nil {
						return nil, fmt.Errorf("reducible item not found: %v", item.id)
					}
					if reducibleItem.lookAhead.symbols == nil {
						reducibleItem.lookAhead.symbols = map[symbol]struct{}{}
					}
					for a := range item.lookAhead.symbols {
						reducibleItem.lookAhead.symbols[a] = struct{}{}
					}

					propDests = append(propDests, &stateAndLRItem{
						kernelID: state.id,
						itemID:   item.id,
					})
					continue
				}

				nextKID := state.next[item.dottedSymbol]
				nextItemID := itemID{rule: item.rule.num, dot: item.dot + 1}

				if item.lookAhead.propagation {
					propDests = append(propDests, &stateAndLRItem{
						kernelID: nextKID,
						itemID:   nextItemID,
					})
				} else {
					nextItem := lr0.states[nextKID].findItem(nextItemID)
					if nextItem == nil {
						return nil, fmt.Errorf("item not found: %v", nextItemID)
					}

					if nextItem.lookAhead.symbols == nil {
						nextItem.lookAhead.symbols = map[symbol]struct{}{}
					}
					for a := range item.lookAhead.symbols {
						nextItem.lookAhead.symbols[a] = struct{}{}
					}
				}
			}
			if len(propDests) == 0 {
				continue
			}

			props = append(props, &propagation{
				src: &stateAndLRItem{
					kernelID: state.id,
					itemID:   kItem.id,
				},
				dest: propDests,
			})
		}
	}

	err := propagateLookAhead(lr0, props)
	if err != nil {
		return nil, fmt.Errorf("failed to propagate look-ahead symbols: %w", err)
	}

	return &lalr1Automaton{
		lr0Automaton: lr0,
	}, nil
}

// genLALR1Closure computes the LALR(1) closure of a single kernel item. Items
// whose look-ahead derives from FIRST of the dotted suffix carry concrete
// symbols (spontaneous); items whose look-ahead depends on the kernel item's
// own set carry the propagation flag instead.
func genLALR1Closure(srcItem *lrItem, rules *ruleSet, first *firstSet) ([]*lrItem, error) {
	items := []*lrItem{}
	knownItems := map[itemID]map[symbol]struct{}{}
	knownItemsProp := map[itemID]struct{}{}
	uncheckedItems := []*lrItem{}
	items = append(items, srcItem)
	uncheckedItems = append(uncheckedItems, srcItem)
	for len(uncheckedItems) > 0 {
		nextUncheckedItems := []*lrItem{}
		for _, item := range uncheckedItems {
			if !item.dottedSymbol.isNonTerminal() {
				continue
			}

			var fstSyms []symbol
			var isFstNullable bool
			{
				fst, err := first.find(item.rule, item.dot+1)
				if err != nil {
					return nil, err
				}

				fstSyms = make([]symbol, len(fst.symbols))
				i := 0
				for s := range fst.symbols {
					fstSyms[i] = s
					i++
				}
				if fst.empty {
					isFstNullable = true
				}
			}

			rs, _ := rules.findByLHS(item.dottedSymbol)
			for _, r := range rs {
				var lookAhead []symbol
				{
					lookAheadCount := len(fstSyms)
					if isFstNullable {
						lookAheadCount += len(item.lookAhead.symbols)
					}

					lookAhead = make([]symbol, 0, lookAheadCount)
					lookAhead = append(lookAhead, fstSyms...)
					if isFstNullable {
						for a := range item.lookAhead.symbols {
							lookAhead = append(lookAhead, a)
						}
					}
				}

				for _, a := range lookAhead {
					newItem, err := newLRItem(r, 0)
					if err != nil {
						return nil, err
					}
					if syms, exist := knownItems[newItem.id]; exist {
						if _, exist := syms[a]; exist {
							continue
						}
					}

					newItem.lookAhead.symbols = map[symbol]struct{}{
						a: {},
					}

					items = append(items, newItem)
					if knownItems[newItem.id] == nil {
						knownItems[newItem.id] = map[symbol]struct{}{}
					}
					knownItems[newItem.id][a] = struct{}{}
					nextUncheckedItems = append(nextUncheckedItems, newItem)
				}

				if isFstNullable {
					newItem, err := newLRItem(r, 0)
					if err != nil {
						return nil, err
					}
					if _, exist := knownItemsProp[newItem.id]; exist {
						continue
					}

					newItem.lookAhead.propagation = true

					items = append(items, newItem)
					knownItemsProp[newItem.id] = struct{}{}
					nextUncheckedItems = append(nextUncheckedItems, newItem)
				}
			}
		}
		uncheckedItems = nextUncheckedItems
	}

	return items, nil
}

func propagateLookAhead(lr0 *lr0Automaton, props []*propagation) error {
	for {
		changed := false
		for _, prop := range props {
			srcState, ok := lr0.states[prop.src.kernelID]
			if !ok {
				return fmt.Errorf("source state not found: %v", prop.src.kernelID)
			}
			srcItem := srcState.findItem(prop.src.itemID)
			if srcItem == nil {
				return fmt.Errorf("source item not found: %v", prop.src.itemID)
			}

			for _, dest := range prop.dest {
				destState, ok := lr0.states[dest.kernelID]
				if !ok {
					return fmt.Errorf("destination state not found: %v", dest.kernelID)
				}
				destItem := destState.findItem(dest.itemID)
				if destItem == nil {
					return fmt.Errorf("destination item not found: %v", dest.itemID)
				}

				for a := range srcItem.lookAhead.symbols {
					if _, ok := destItem.lookAhead.symbols[a]; ok {
						continue
					}

					if destItem.lookAhead.symbols == nil {
						destItem.lookAhead.symbols = map[symbol]struct{}{}
					}

					destItem.lookAhead.symbols[a] = struct{}{}
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return nil
}
