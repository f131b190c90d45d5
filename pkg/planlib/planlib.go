// Package planlib is the plan-library emitter: it walks a StateGraph and
// serialises it into a set of parameterised reactive plans, the "triggering
// event = achieve-literal; body = achieve-preconditions then invoke action
// schema" structure the core specifies at interface level only. This is
// the default, concrete downstream consumer of the goal-graph constructor.
package planlib

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/plangraph"
	"github.com/arclane/ltlfplan/pkg/unify"
)

// ReactivePlan is one parameterised rule: to achieve Trigger, achieve each
// of Subgoals in order, then invoke Action with the Unifier's bindings.
type ReactivePlan struct {
	Trigger  *unify.Literal
	Subgoals []*unify.Literal
	Action   *domain.ActionSchema
	Unifier  *unify.Substitution
	Depth    int
}

// String renders a plan for diagnostics, e.g.:
//
//	on(a, b) <- clear(b), holding(a) ; stack
func (p *ReactivePlan) String() string {
	sub := make([]string, len(p.Subgoals))
	for i, l := range p.Subgoals {
		sub[i] = l.String()
	}
	return fmt.Sprintf("%s <- %s ; %s", p.Trigger, strings.Join(sub, ", "), p.Action.Name)
}

// Emit walks g and returns one ReactivePlan per edge: the edge's Target is
// the trigger, the edge's To node's literals are the subgoals to achieve
// beforehand, and the edge's Schema/Unifier name the action to invoke.
// Plans are returned in a deterministic order: by source node depth, then
// by the node's canonical key, then by edge declaration order — so two
// emissions over the same graph (e.g. a cache hit versus the original
// build) produce byte-identical output, matching the determinism property
// the rest of the core guarantees (§8 property 6).
func Emit(g *plangraph.StateGraph) []ReactivePlan {
	edges := make([]*plangraph.Edge, len(g.Edges))
	copy(edges, g.Edges)
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].From.Depth != edges[j].From.Depth {
			return edges[i].From.Depth < edges[j].From.Depth
		}
		return edges[i].From.Key < edges[j].From.Key
	})

	plans := make([]ReactivePlan, 0, len(edges))
	for _, e := range edges {
		plans = append(plans, ReactivePlan{
			Trigger:  e.Target,
			Subgoals: e.To.Literals,
			Action:   e.Schema,
			Unifier:  e.Unifier,
			Depth:    e.To.Depth,
		})
	}
	return plans
}

// EmitAll runs Emit over every graph in graphs and flattens the output, in
// graph order, then Emit's order within each graph.
func EmitAll(graphs []*plangraph.StateGraph) []ReactivePlan {
	var out []ReactivePlan
	for _, g := range graphs {
		out = append(out, Emit(g)...)
	}
	return out
}
