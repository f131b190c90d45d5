// Package plangraph is the goal-graph constructor with variable-level
// cache: it repeatedly invokes the regression engine to build a finite
// graph of abstract states reachable backwards from a lifted goal, and
// caches the result by canonical goal skeleton so that syntactically
// distinct but variable-renamed goals (on(a,b) vs on(b,a), both
// canonicalising to on(?v_0,?v_1)) share the work.
package plangraph

import (
	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/unify"
)

// AbstractState is a conjunction of lifted literals in canonical form: its
// Key is its identity. States are created once by regression and are
// never mutated afterward.
type AbstractState struct {
	Literals []*unify.Literal
	Depth    int
	Key      string
	// Parent records the first regression that discovered this state. A
	// state may be reachable by more than one regression record (see
	// StateGraph.Edges for the full set); Parent is the first found, kept
	// for convenient traversal/debugging, not as the sole provenance.
	Parent *Provenance
}

// Provenance is the (state, action schema, unifier, target literal) tuple
// that produced an AbstractState or an Edge.
type Provenance struct {
	From    *AbstractState
	Schema  *domain.ActionSchema
	Unifier *unify.Substitution
	Target  *unify.Literal
}

// Edge is a labelled backward-regression step from From to To.
type Edge struct {
	From, To *AbstractState
	Schema   *domain.ActionSchema
	Unifier  *unify.Substitution
	Target   *unify.Literal
}
