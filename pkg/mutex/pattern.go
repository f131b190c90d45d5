// Package mutex derives lifted mutex patterns from a planning domain
// without grounding, and checks whether an abstract state violates any of
// them. A mutex pattern is a syntactic template asserting that two
// predicate instances can never simultaneously hold, for any argument
// instantiation satisfying the pattern's shared/differing-position
// constraints.
package mutex

import "fmt"

// PredicateTemplate names a predicate and the arity a pattern expects it
// to have.
type PredicateTemplate struct {
	Name  string
	Arity int
}

// PositionPair relates an argument position of Pred1 to one of Pred2.
type PositionPair struct {
	Left, Right int
}

// Pattern asserts that no reachable state contains both a positive literal
// matching Pred1 and a positive literal matching Pred2 whose arguments
// agree (unify) at every pair in Shared and differ at every pair in
// Different.
type Pattern struct {
	Pred1, Pred2 PredicateTemplate
	Shared       []PositionPair
	Different    []PositionPair
	// Origin documents which generator produced the pattern, for
	// diagnostics only.
	Origin string
}

func (p *Pattern) String() string {
	return fmt.Sprintf("%s/%d ⊕ %s/%d (shared=%v, diff=%v, via=%s)",
		p.Pred1.Name, p.Pred1.Arity, p.Pred2.Name, p.Pred2.Arity, p.Shared, p.Different, p.Origin)
}

// matches reports whether literal l's predicate/arity fits template t.
func (t PredicateTemplate) matches(predicate string, arity int) bool {
	return t.Name == predicate && t.Arity == arity
}
