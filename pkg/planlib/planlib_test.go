package planlib

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/mutex"
	"github.com/arclane/ltlfplan/pkg/plangraph"
	"github.com/arclane/ltlfplan/pkg/unify"
)

func v(name string) *unify.Variable { return unify.NewVariable(name, "block") }

func blocksworld(t *testing.T) *domain.Domain {
	t.Helper()
	d := domain.New()
	require.NoError(t, d.AddType("block"))
	for _, p := range []*domain.Predicate{
		{Name: "on", ArgTypes: []string{"block", "block"}},
		{Name: "clear", ArgTypes: []string{"block"}},
		{Name: "holding", ArgTypes: []string{"block"}},
		{Name: "ontable", ArgTypes: []string{"block"}},
		{Name: "handempty", ArgTypes: nil},
	} {
		require.NoError(t, d.AddPredicate(p))
	}

	x, y := v("?x"), v("?y")
	lit := func(pred string, args ...unify.Term) *unify.Literal {
		return unify.NewLiteral(pred, unify.Positive, args...)
	}

	require.NoError(t, d.AddAction(&domain.ActionSchema{
		Name:         "pick-up",
		Parameters:   []*unify.Variable{x},
		Precondition: []*unify.Literal{lit("clear", x), lit("ontable", x), lit("handempty")},
		Effect: domain.Effect{
			Add: []*unify.Literal{lit("holding", x)},
			Del: []*unify.Literal{lit("ontable", x), lit("clear", x), lit("handempty")},
		},
	}))
	require.NoError(t, d.AddAction(&domain.ActionSchema{
		Name:         "put-down",
		Parameters:   []*unify.Variable{x},
		Precondition: []*unify.Literal{lit("holding", x)},
		Effect: domain.Effect{
			Add: []*unify.Literal{lit("ontable", x), lit("clear", x), lit("handempty")},
			Del: []*unify.Literal{lit("holding", x)},
		},
	}))
	require.NoError(t, d.AddAction(&domain.ActionSchema{
		Name:         "stack",
		Parameters:   []*unify.Variable{x, y},
		Precondition: []*unify.Literal{lit("holding", x), lit("clear", y)},
		Inequalities: []*unify.InequalityConstraint{{Left: x, Right: y}},
		Effect: domain.Effect{
			Add: []*unify.Literal{lit("on", x, y), lit("clear", x), lit("handempty")},
			Del: []*unify.Literal{lit("holding", x), lit("clear", y)},
		},
	}))
	require.NoError(t, d.AddAction(&domain.ActionSchema{
		Name:         "unstack",
		Parameters:   []*unify.Variable{x, y},
		Precondition: []*unify.Literal{lit("on", x, y), lit("clear", x), lit("handempty")},
		Inequalities: []*unify.InequalityConstraint{{Left: x, Right: y}},
		Effect: domain.Effect{
			Add: []*unify.Literal{lit("holding", x), lit("clear", y)},
			Del: []*unify.Literal{lit("on", x, y), lit("clear", x), lit("handempty")},
		},
	}))
	return d
}

func buildOnGraph(t *testing.T) *plangraph.StateGraph {
	t.Helper()
	d := blocksworld(t)
	patterns := mutex.Synthesize(d)
	cache := plangraph.NewGoalCache()

	a, b := unify.NewConstant("a", "block"), unify.NewConstant("b", "block")
	goal := []*unify.Literal{unify.NewLiteral("on", unify.Positive, a, b)}
	return plangraph.Construct(goal, d, patterns, cache, plangraph.Options{}, 1)
}

func TestEmitIsDeterministicAcrossCalls(t *testing.T) {
	g := buildOnGraph(t)

	first := Emit(g)
	second := Emit(g)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].String(), second[i].String())
	}
}

func TestEmitOrdersEdgesBySourceDepthThenKey(t *testing.T) {
	g := buildOnGraph(t)
	plans := Emit(g)
	require.Len(t, plans, len(g.Edges))

	// A plan's Depth is its edge's To.Depth, which for an edge back to an
	// already-explored state is not one past the source depth, so each plan
	// is mapped back to its edge (every edge carries its own unifier) to
	// recover the source node.
	source := make(map[*unify.Substitution]*plangraph.AbstractState, len(g.Edges))
	for _, e := range g.Edges {
		source[e.Unifier] = e.From
	}
	require.Len(t, source, len(g.Edges))

	for i := 1; i < len(plans); i++ {
		prev, cur := source[plans[i-1].Unifier], source[plans[i].Unifier]
		require.LessOrEqual(t, prev.Depth, cur.Depth)
		if prev.Depth == cur.Depth {
			require.LessOrEqual(t, prev.Key, cur.Key)
		}
	}
}

func TestEmitProducesOneplanPerEdge(t *testing.T) {
	g := buildOnGraph(t)
	plans := Emit(g)
	require.Len(t, plans, len(g.Edges))
	// Emit reorders edges, so each plan is matched to its edge by unifier.
	byUnifier := make(map[*unify.Substitution]*plangraph.Edge, len(g.Edges))
	for _, e := range g.Edges {
		byUnifier[e.Unifier] = e
	}
	for _, p := range plans {
		e := byUnifier[p.Unifier]
		require.NotNil(t, e)
		require.Equal(t, e.Schema.Name, p.Action.Name)
		require.Equal(t, e.To.Literals, p.Subgoals)
	}
}

func TestEmitAllFlattensAcrossGraphs(t *testing.T) {
	g1 := buildOnGraph(t)
	g2 := buildOnGraph(t)

	all := EmitAll([]*plangraph.StateGraph{g1, g2})
	require.Equal(t, len(Emit(g1))+len(Emit(g2)), len(all))
}

func TestReactivePlanStringIncludesActionName(t *testing.T) {
	g := buildOnGraph(t)
	plans := Emit(g)
	require.NotEmpty(t, plans)
	require.Contains(t, plans[0].String(), plans[0].Action.Name)
}
