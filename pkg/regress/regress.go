// Package regress is the backward regression engine: given a goal literal
// and an action schema, it computes the lifted predecessor states reachable
// by one backward application of that schema, and given a full abstract
// state, it applies this to every literal against every schema to produce
// all one-step predecessors.
package regress

import (
	"fmt"

	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/mutex"
	"github.com/arclane/ltlfplan/pkg/unify"
)

// Record is a single regression result: achieving Target via one
// application of Schema, under Unifier, requires Predecessor to hold
// beforehand. Predecessor here is just the schema's precondition under the
// unifier — not yet combined with the rest of the state being regressed;
// State performs that combination.
type Record struct {
	Predecessor []*unify.Literal
	Schema      *domain.ActionSchema
	Unifier     *unify.Substitution
	Target      *unify.Literal
}

// Successor is one full predecessor abstract state produced by regressing
// a single literal of a larger state.
type Successor struct {
	Literals []*unify.Literal
	Schema   *domain.ActionSchema
	Unifier  *unify.Substitution
	Target   *unify.Literal
}

// renameSchema alpha-renames every parameter of a to a name built from tag,
// so that unifying against it can never accidentally collide with a
// variable already present in the caller's context. It returns the renamed
// schema; the renaming substitution (original parameter -> fresh variable)
// is applied to it and not returned.
func renameSchema(a *domain.ActionSchema, tag string) *domain.ActionSchema {
	sub := unify.NewSubstitution()
	params := make([]*unify.Variable, len(a.Parameters))
	for i, p := range a.Parameters {
		fresh := unify.NewVariable(tag+"_"+p.Name, p.Typ)
		params[i] = fresh
		sub, _ = sub.Bind(p, fresh)
	}
	return &domain.ActionSchema{
		Name:         a.Name,
		Parameters:   params,
		Precondition: unify.ApplyAll(sub, a.Precondition),
		Inequalities: renameInequalities(a.Inequalities, sub),
		Effect: domain.Effect{
			Add: unify.ApplyAll(sub, a.Effect.Add),
			Del: unify.ApplyAll(sub, a.Effect.Del),
		},
	}
}

func renameInequalities(ineqs []*unify.InequalityConstraint, sub *unify.Substitution) []*unify.InequalityConstraint {
	out := make([]*unify.InequalityConstraint, len(ineqs))
	for i, c := range ineqs {
		l, _ := sub.Walk(c.Left).(*unify.Variable)
		r, _ := sub.Walk(c.Right).(*unify.Variable)
		if l == nil {
			l = c.Left
		}
		if r == nil {
			r = c.Right
		}
		out[i] = &unify.InequalityConstraint{Left: l, Right: r}
	}
	return out
}

// Literal regresses a single goal literal L through schema a. For every
// literal e in a's add-effect (if L is positive) or delete-effect (if L is
// negative), it unifies L with e, applies the result to a's precondition
// and inequality constraints, discards candidates whose inequality
// constraints reduce to an equality between identical terms, discards
// candidates that violate a known mutex pattern, and emits a Record for
// every surviving candidate. a's parameters are alpha-renamed with tag
// before anything else happens, so the caller can pass a fresh tag per
// call and get back variables that cannot clash with its own.
func Literal(L *unify.Literal, a *domain.ActionSchema, patterns []*mutex.Pattern, tag string) []Record {
	renamed := renameSchema(a, tag)

	effectSet := renamed.Effect.Add
	if L.Sign == unify.Negative {
		effectSet = renamed.Effect.Del
	}

	var out []Record
	for _, e := range effectSet {
		cmp := unify.NewLiteral(e.Predicate, L.Sign, e.Args...)
		sigma, ok := unify.MGU(L, cmp)
		if !ok {
			continue
		}

		reducedToIdentity := false
		for _, ineq := range renamed.Inequalities {
			if _, _, reduced := ineq.Apply(sigma); reduced {
				reducedToIdentity = true
				break
			}
		}
		if reducedToIdentity {
			continue
		}

		pre := unify.ApplyAll(sigma, renamed.Precondition)
		if !mutex.Check(pre, patterns) {
			continue
		}

		out = append(out, Record{Predecessor: pre, Schema: a, Unifier: sigma, Target: L})
	}
	return out
}

// State regresses every literal of state against every action schema in
// dom, in dom's declaration order and state's literal order, so successor
// enumeration is deterministic. callID seeds the alpha-renaming tag and
// should be unique per call to State (a monotonically increasing counter
// reset whenever the caller starts a fresh top-level exploration is
// sufficient; it need not be globally unique, only unique within one
// State call, since renaming only has to avoid collisions with state's own
// variables and with siblings explored in the same call).
func State(state []*unify.Literal, dom *domain.Domain, patterns []*mutex.Pattern, callID int) []Successor {
	var out []Successor
	counter := 0
	for _, a := range dom.Actions {
		for i, L := range state {
			counter++
			tag := fmt.Sprintf("_r%d_%d", callID, counter)
			for _, rec := range Literal(L, a, patterns, tag) {
				remainder := removeAt(state, i)
				remainder = unify.ApplyAll(rec.Unifier, remainder)
				full := mergeUnique(remainder, rec.Predecessor)
				if !mutex.Check(full, patterns) {
					continue
				}
				out = append(out, Successor{Literals: full, Schema: a, Unifier: rec.Unifier, Target: L})
			}
		}
	}
	return out
}

func removeAt(lits []*unify.Literal, i int) []*unify.Literal {
	out := make([]*unify.Literal, 0, len(lits)-1)
	for j, l := range lits {
		if j != i {
			out = append(out, l)
		}
	}
	return out
}

// mergeUnique unions a and b, preserving a's order first, then b's, and
// dropping any literal from b that is structurally Equal to one already
// present.
func mergeUnique(a, b []*unify.Literal) []*unify.Literal {
	out := make([]*unify.Literal, 0, len(a)+len(b))
	out = append(out, a...)
	for _, l := range b {
		dup := false
		for _, existing := range out {
			if existing.Equal(l) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, l)
		}
	}
	return out
}
