package mutex

import (
	"sort"

	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/unify"
)

type addInstance struct {
	schema  *domain.ActionSchema
	literal *unify.Literal
}

// collectAdds returns every (schema, literal) pair, in schema declaration
// order, where the schema's effect adds a literal matching predicate.
func collectAdds(d *domain.Domain, predicate string) []addInstance {
	var out []addInstance
	for _, a := range d.Actions {
		for _, l := range a.Effect.Add {
			if l.Predicate == predicate {
				out = append(out, addInstance{schema: a, literal: l})
			}
		}
	}
	return out
}

// containsMatching reports whether lits holds a positive literal named
// predicate whose full argument list denotes the same terms as args (in
// order). An empty args matches any 0-ary occurrence of predicate, which
// is exactly the "global token" case (e.g. handempty).
func containsMatching(lits []*unify.Literal, predicate string, args []unify.Term) bool {
	for _, l := range lits {
		if l.Predicate != predicate || l.Sign != unify.Positive || len(l.Args) != len(args) {
			continue
		}
		match := true
		for i := range args {
			if !unify.SameTerm(l.Args[i], args[i]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func argsAt(args []unify.Term, positions []int) []unify.Term {
	out := make([]unify.Term, len(positions))
	for i, p := range positions {
		out[i] = args[p]
	}
	return out
}

func identityPairs(positions []int) []PositionPair {
	out := make([]PositionPair, len(positions))
	for i, p := range positions {
		out[i] = PositionPair{Left: p, Right: p}
	}
	return out
}

func otherPositions(arity, exclude int) []int {
	out := make([]int, 0, arity-1)
	for i := 0; i < arity; i++ {
		if i != exclude {
			out = append(out, i)
		}
	}
	return out
}

// synthFunctionalKey implements the spec's generators 1 ("single-argument
// exclusion") and 2 ("functional key"), unified into one algorithm: for a
// predicate p and a "differing" argument position d, p(..,x,..) and
// p(..,y,..) (x != y at d, agreeing elsewhere) are mutex if every schema
// that adds a p-literal requires, as precondition, some token literal
// correlated with the shared arguments, deletes that token in the same
// effect, and does not re-add it. The token is exactly the resource that
// makes adding a second p-instance at the same shared arguments impossible
// without first releasing the first one (e.g. holding(x) is the token for
// on(x,y)/on(x,z); handempty is the (0-ary, global) token for
// holding(x)/holding(y)).
func synthFunctionalKey(d *domain.Domain) []*Pattern {
	var patterns []*Pattern

	predNames := make([]string, 0, len(d.Predicates))
	for name := range d.Predicates {
		predNames = append(predNames, name)
	}
	sort.Strings(predNames)

	for _, pName := range predNames {
		p := d.Predicates[pName]
		adds := collectAdds(d, pName)
		if len(adds) == 0 {
			continue
		}
		for dPos := 0; dPos < p.Arity(); dPos++ {
			shared := otherPositions(p.Arity(), dPos)

			for _, tName := range predNames {
				tPred := d.Predicates[tName]
				if tPred.Arity() != len(shared) {
					continue
				}
				if !functionalKeyHolds(adds, tName, shared) {
					continue
				}
				patterns = append(patterns, &Pattern{
					Pred1:     PredicateTemplate{Name: pName, Arity: p.Arity()},
					Pred2:     PredicateTemplate{Name: pName, Arity: p.Arity()},
					Shared:    identityPairs(shared),
					Different: []PositionPair{{Left: dPos, Right: dPos}},
					Origin:    "functional-key:" + tName,
				})
				break // one witnessing token is enough for this (p, dPos)
			}
		}
	}
	return patterns
}

func functionalKeyHolds(adds []addInstance, tokenPredicate string, shared []int) bool {
	for _, inst := range adds {
		sharedArgs := argsAt(inst.literal.Args, shared)
		if !containsMatching(inst.schema.Precondition, tokenPredicate, sharedArgs) {
			return false
		}
		if !containsMatching(inst.schema.Effect.Del, tokenPredicate, sharedArgs) {
			return false
		}
		if containsMatching(inst.schema.Effect.Add, tokenPredicate, sharedArgs) {
			return false
		}
	}
	return true
}

// synthCrossPredicate implements generator 3: p and q (same arity, full
// identity position mapping) are mutex if every schema that adds a
// p-literal deletes the correlated q-literal, and vice versa.
func synthCrossPredicate(d *domain.Domain) []*Pattern {
	var patterns []*Pattern

	predNames := make([]string, 0, len(d.Predicates))
	for name := range d.Predicates {
		predNames = append(predNames, name)
	}
	sort.Strings(predNames)

	for i, pName := range predNames {
		p := d.Predicates[pName]
		for _, qName := range predNames[i+1:] {
			q := d.Predicates[qName]
			if p.Arity() != q.Arity() || p.Arity() == 0 {
				continue
			}
			addsP := collectAdds(d, pName)
			addsQ := collectAdds(d, qName)
			if len(addsP) == 0 || len(addsQ) == 0 {
				continue
			}
			if !everyAddDeletesCorrelate(addsP, qName) || !everyAddDeletesCorrelate(addsQ, pName) {
				continue
			}
			positions := make([]int, p.Arity())
			for k := range positions {
				positions[k] = k
			}
			patterns = append(patterns, &Pattern{
				Pred1:     PredicateTemplate{Name: pName, Arity: p.Arity()},
				Pred2:     PredicateTemplate{Name: qName, Arity: q.Arity()},
				Shared:    identityPairs(positions),
				Different: nil,
				Origin:    "cross-predicate",
			})
		}
	}
	return patterns
}

func everyAddDeletesCorrelate(adds []addInstance, other string) bool {
	for _, inst := range adds {
		if !containsMatching(inst.schema.Effect.Del, other, inst.literal.Args) {
			return false
		}
	}
	return true
}

// Synthesize derives the full set of lifted mutex patterns for a domain.
// Every candidate is re-verified against the closure of all schemas'
// add-effects before being emitted: if any single schema's effect could
// simultaneously add two literals that the candidate pattern claims are
// mutually exclusive, the candidate is unsound and is discarded. The
// result is sound (every emitted pattern is a true invariant of the
// domain) but may be incomplete.
func Synthesize(d *domain.Domain) []*Pattern {
	candidates := append(synthFunctionalKey(d), synthCrossPredicate(d)...)

	var verified []*Pattern
	for _, pat := range candidates {
		if selfConsistent(d, pat) {
			verified = append(verified, pat)
		}
	}
	return verified
}

// selfConsistent reports false if some schema's effect.Add set contains two
// literals, one matching Pred1 and one matching Pred2 (distinct literal
// occurrences when Pred1 == Pred2), whose arguments satisfy every Shared
// equality and are different terms at every Different pair (two distinct
// variables count as different, as in Violates): that
// would mean the schema itself produces a state violating the pattern,
// proving it unsound.
func selfConsistent(d *domain.Domain, pat *Pattern) bool {
	for _, a := range d.Actions {
		adds := a.Effect.Add
		for i, litA := range adds {
			if litA.Predicate != pat.Pred1.Name || len(litA.Args) != pat.Pred1.Arity {
				continue
			}
			for j, litB := range adds {
				if pat.Pred1.Name == pat.Pred2.Name && i == j {
					continue
				}
				if litB.Predicate != pat.Pred2.Name || len(litB.Args) != pat.Pred2.Arity {
					continue
				}
				if pat.Pred1.Name == pat.Pred2.Name && litA.Equal(litB) {
					continue
				}
				if Violates(litA, litB, pat) {
					return false
				}
			}
		}
	}
	return true
}
