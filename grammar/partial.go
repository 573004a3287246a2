package grammar

// genPartialTables fills the partial-match tables: for every (state, column)
// cell the exact tables answer with ErrorVal, the longest-prefix candidate
// rule and its match length. A lenient driver uses them to report the closest
// valid continuation; they never participate in accept/reject parsing.
func genPartialTables(ptab *ParsingTable, automaton *lalr1Automaton, symTab *symbolTable) error {
	ptab.partialsRuleTerm = newTableSlice(ptab.stateCount * ptab.termCount)
	ptab.partialsMatchLenTerm = make([]int, ptab.stateCount*ptab.termCount)
	ptab.partialsRuleNonTerm = newTableSlice(ptab.stateCount * ptab.nonTermCount)
	ptab.partialsMatchLenNonTerm = make([]int, ptab.stateCount*ptab.nonTermCount)
	ptab.partialsLHSNonTerm = newTableSlice(ptab.stateCount * ptab.nonTermCount)

	for _, state := range automaton.stateList {
		row := state.num.Int()

		for col := 0; col < ptab.termCount; col++ {
			if ptab.Shift(row, col) != ErrorVal || ptab.Reduce(row, col) != ErrorVal {
				continue
			}
			termE := symTab.termList[col]
			best := bestPartialItem(state.closure, func(item *lrItem) bool {
				return item.dottedSymbol.isTerminal() && item.dottedSymbol.id == termE.id
			})
			if best == nil {
				continue
			}
			pos := row*ptab.termCount + col
			ptab.partialsRuleTerm[pos] = best.rule.num.Int()
			ptab.partialsMatchLenTerm[pos] = best.dot
		}

		for col := 0; col < ptab.nonTermCount; col++ {
			if ptab.Jump(row, col) != ErrorVal {
				continue
			}
			nonTermE := symTab.nonTermList[col]
			best := bestPartialItem(state.closure, func(item *lrItem) bool {
				if item.dottedSymbol.isNonTerminal() && item.dottedSymbol.id == nonTermE.id {
					return true
				}
				// A completed rule whose LHS is the column symbol is also a
				// candidate: the state has fully matched one of its
				// derivations.
				return item.reducible && item.rule.lhs.id == nonTermE.id
			})
			if best == nil {
				continue
			}
			lhsNum, ok := symTab.nonTermNum(best.rule.lhs.id)
			if !ok {
				continue
			}
			pos := row*ptab.nonTermCount + col
			ptab.partialsRuleNonTerm[pos] = best.rule.num.Int()
			ptab.partialsMatchLenNonTerm[pos] = best.dot
			ptab.partialsLHSNonTerm[pos] = lhsNum
		}
	}

	return nil
}

// bestPartialItem selects the matching item with the greatest dot position,
// breaking ties in favor of the lowest rule number.
func bestPartialItem(items []*lrItem, match func(*lrItem) bool) *lrItem {
	var best *lrItem
	for _, item := range items {
		if !match(item) {
			continue
		}
		if best == nil || item.dot > best.dot ||
			(item.dot == best.dot && item.rule.num < best.rule.num) {
			best = item
		}
	}
	return best
}
