package regress

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/mutex"
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

// S1: regressing on(a,b) through stack must produce a record whose
// predecessor is {holding(a), clear(b)} under sigma = {?x -> a, ?y -> b}.
func TestLiteralRegressesOnThroughStack(t *testing.T) {
	d := blocksworld(t)
	patterns := mutex.Synthesize(d)

	a, b := unify.NewConstant("a", "block"), unify.NewConstant("b", "block")
	goal := unify.NewLiteral("on", unify.Positive, a, b)

	var stackSchema *domain.ActionSchema
	for _, sc := range d.Actions {
		if sc.Name == "stack" {
			stackSchema = sc
		}
	}
	require.NotNil(t, stackSchema)

	records := Literal(goal, stackSchema, patterns, "t1")
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, stackSchema, rec.Schema)
	require.True(t, goal.Equal(rec.Target))
	foundHolding, foundClear := false, false
	for _, l := range rec.Predecessor {
		switch l.Predicate {
		case "holding":
			require.True(t, unify.SameTerm(l.Args[0], a))
			foundHolding = true
		case "clear":
			require.True(t, unify.SameTerm(l.Args[0], b))
			foundClear = true
		}
	}
	require.True(t, foundHolding)
	require.True(t, foundClear)
}

// S4: regressing on(?v0,?v0) finds no candidate, because stack's
// inequality constraint (?x != ?y) reduces to an equality between
// identical terms once both parameters are unified with the same goal
// argument.
func TestLiteralRejectsSelfOnViaInequality(t *testing.T) {
	d := blocksworld(t)
	patterns := mutex.Synthesize(d)

	z := v("?z")
	goal := unify.NewLiteral("on", unify.Positive, z, z)

	var stackSchema *domain.ActionSchema
	for _, sc := range d.Actions {
		if sc.Name == "stack" {
			stackSchema = sc
		}
	}
	records := Literal(goal, stackSchema, patterns, "t4")
	require.Empty(t, records)
}

// Regressing {holding(a)} must never yield a successor that violates a
// mutex pattern (for example one holding two blocks at once): the mutex
// check on every combined successor is regress.State's responsibility at
// every step.
func TestStateRegressionNeverProducesMutexViolatingSuccessor(t *testing.T) {
	d := blocksworld(t)
	patterns := mutex.Synthesize(d)

	a := unify.NewConstant("a", "block")
	state := []*unify.Literal{unify.NewLiteral("holding", unify.Positive, a)}

	successors := State(state, d, patterns, 1)
	for _, s := range successors {
		require.True(t, mutex.Check(s.Literals, patterns))
	}
}
