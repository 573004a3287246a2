package grammar

import "fmt"

// RuleID is a grammar-level rule identifier declared by the caller.
type RuleID int

// ruleNum is the dense rule index. The implicit accept rule is always 0, and
// user rules follow in declaration order.
type ruleNum int

const ruleNumAccept = ruleNum(0)

func (n ruleNum) Int() int {
	return int(n)
}

type rule struct {
	id       RuleID
	num      ruleNum
	lhs      symbol
	rhs      []symbol
	rhsLen   int
	actionID int

	// prec and assoc form the rule's effective precedence: the explicitly
	// overridden terminal's when one was named, otherwise the rightmost
	// terminal's in the RHS, otherwise none.
	prec  int
	assoc AssocType
}

func newRule(id RuleID, lhs symbol, rhs []symbol, actionID int) (*rule, error) {
	if lhs.isNil() {
		return nil, fmt.Errorf("rule %v: LHS must be a non-nil symbol", id)
	}
	for _, sym := range rhs {
		if sym.isNil() {
			return nil, fmt.Errorf("rule %v: a RHS symbol must be a non-nil symbol", id)
		}
	}
	return &rule{
		id:       id,
		lhs:      lhs,
		rhs:      rhs,
		rhsLen:   len(rhs),
		actionID: actionID,
	}, nil
}

func (r *rule) isEmpty() bool {
	return r.rhsLen == 0
}

type ruleSet struct {
	byID    map[RuleID]*rule
	byLHS   map[symbol][]*rule
	ruleLst []*rule // indexed by ruleNum
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		byID:  map[RuleID]*rule{},
		byLHS: map[symbol][]*rule{},
		// Slot 0 is reserved for the accept rule.
		ruleLst: make([]*rule, 1),
	}
}

func (rs *ruleSet) append(r *rule) bool {
	if _, declared := rs.byID[r.id]; declared {
		return false
	}
	if r.lhs.isStart() {
		r.num = ruleNumAccept
		rs.ruleLst[ruleNumAccept] = r
	} else {
		r.num = ruleNum(len(rs.ruleLst))
		rs.ruleLst = append(rs.ruleLst, r)
	}
	rs.byID[r.id] = r
	rs.byLHS[r.lhs] = append(rs.byLHS[r.lhs], r)
	return true
}

func (rs *ruleSet) findByID(id RuleID) (*rule, bool) {
	r, ok := rs.byID[id]
	return r, ok
}

func (rs *ruleSet) findByNum(num ruleNum) (*rule, bool) {
	if num < 0 || int(num) >= len(rs.ruleLst) || rs.ruleLst[num] == nil {
		return nil, false
	}
	return rs.ruleLst[num], true
}

func (rs *ruleSet) findByLHS(lhs symbol) ([]*rule, bool) {
	if lhs.isNil() {
		return nil, false
	}
	rules, ok := rs.byLHS[lhs]
	return rules, ok
}

// rules returns all rules ordered by rule number, the accept rule first.
func (rs *ruleSet) rules() []*rule {
	return rs.ruleLst
}

func (rs *ruleSet) count() int {
	return len(rs.ruleLst)
}
