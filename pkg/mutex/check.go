package mutex

import "github.com/arclane/ltlfplan/pkg/unify"

// Violates reports whether litA and litB, interpreted against pat's Pred1
// and Pred2 templates respectively, instantiate a mutex violation: every
// Shared position pair currently denotes the same term (structural
// equality under the literals' current argument bindings), and every
// Different position pair currently denotes terms that are not provably
// the same term.
//
// The Different check is deliberately the "sound" direction described by
// the spec: two distinct variables are treated as possibly standing for
// distinct objects and therefore satisfy the disequality (so the pair is
// flagged), even though a later unification could still make them equal.
// This is what lets Check prune lifted states (e.g. holding(?v0) and
// holding(?v1)) that are inconsistent in at least one, and in fact every,
// grounding permitted by the state.
func Violates(litA, litB *unify.Literal, pat *Pattern) bool {
	if litA.Predicate != pat.Pred1.Name || litA.Sign != unify.Positive || len(litA.Args) != pat.Pred1.Arity {
		return false
	}
	if litB.Predicate != pat.Pred2.Name || litB.Sign != unify.Positive || len(litB.Args) != pat.Pred2.Arity {
		return false
	}
	for _, sp := range pat.Shared {
		if !unify.SameTerm(litA.Args[sp.Left], litB.Args[sp.Right]) {
			return false
		}
	}
	for _, dp := range pat.Different {
		if unify.SameTerm(litA.Args[dp.Left], litB.Args[dp.Right]) {
			return false
		}
	}
	return true
}

// Check reports whether the given set of literals is mutex-consistent
// (true = OK, no violation). It tests every ordered pair of distinct
// positive literals against every pattern whose templates could possibly
// match, in both orientations (pattern Pred1/Pred2 is not assumed
// symmetric).
func Check(lits []*unify.Literal, patterns []*Pattern) bool {
	positives := make([]*unify.Literal, 0, len(lits))
	for _, l := range lits {
		if l.Sign == unify.Positive {
			positives = append(positives, l)
		}
	}
	for i, a := range positives {
		for j, b := range positives {
			if i == j {
				continue
			}
			for _, pat := range patterns {
				if Violates(a, b, pat) {
					return false
				}
			}
		}
	}
	return true
}
