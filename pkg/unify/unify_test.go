package unify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func v(name string) *Variable { return NewVariable(name, "") }
func c(name string) *Constant { return NewConstant(name, "") }

func TestMGUVariableWithConstant(t *testing.T) {
	l := NewLiteral("on", Positive, v("?x"), c("b"))
	m := NewLiteral("on", Positive, c("a"), c("b"))

	sigma, ok := MGU(l, m)
	require.True(t, ok)
	require.Equal(t, c("a"), sigma.Walk(v("?x")))
}

func TestMGUDistinctConstantsFail(t *testing.T) {
	l := NewLiteral("on", Positive, c("a"))
	m := NewLiteral("on", Positive, c("b"))

	_, ok := MGU(l, m)
	require.False(t, ok)
}

func TestMGUMismatchedPredicateOrArityOrSignFails(t *testing.T) {
	_, ok := MGU(NewLiteral("on", Positive, c("a")), NewLiteral("clear", Positive, c("a")))
	require.False(t, ok)

	_, ok = MGU(NewLiteral("on", Positive, c("a")), NewLiteral("on", Positive, c("a"), c("b")))
	require.False(t, ok)

	_, ok = MGU(NewLiteral("on", Positive, c("a")), NewLiteral("on", Negative, c("a")))
	require.False(t, ok)
}

// Unifier soundness (testable property 2): apply(sigma, L) == apply(sigma, M).
func TestMGUSoundness(t *testing.T) {
	l := NewLiteral("on", Positive, v("?x"), v("?y"))
	m := NewLiteral("on", Positive, c("a"), c("b"))

	sigma, ok := MGU(l, m)
	require.True(t, ok)
	require.True(t, Apply(sigma, l).Equal(Apply(sigma, m)))
}

func TestSubstitutionBindIsAcyclic(t *testing.T) {
	sub := NewSubstitution()
	sub, ok := sub.Bind(v("?x"), v("?y"))
	require.True(t, ok)
	// Binding ?y back to ?x walks to ?x's own binding chain, resolves to
	// ?y, and is treated as a no-op rather than introducing a cycle.
	sub, ok = sub.Bind(v("?y"), v("?x"))
	require.True(t, ok)
	require.Equal(t, v("?y"), sub.Walk(v("?x")))
}

func TestCanonicaliseIdempotent(t *testing.T) {
	lits := []*Literal{
		NewLiteral("on", Positive, v("?b"), v("?a")),
		NewLiteral("clear", Positive, v("?a")),
	}
	first := Canonicalise(lits)
	second := Canonicalise(first.Literals)
	require.Equal(t, first.Key, second.Key)
}

func TestCanonicaliseSharesKeyAcrossVariableRenaming(t *testing.T) {
	a := Canonicalise([]*Literal{NewLiteral("on", Positive, v("?x"), v("?y"))})
	b := Canonicalise([]*Literal{NewLiteral("on", Positive, v("?p"), v("?q"))})
	require.Equal(t, a.Key, b.Key)
}

func TestCanonicaliseDoesNotConflateDifferentArgumentOrder(t *testing.T) {
	a := Canonicalise([]*Literal{NewLiteral("on", Positive, c("a"), c("b"))})
	b := Canonicalise([]*Literal{NewLiteral("on", Positive, c("b"), c("a"))})
	require.NotEqual(t, a.Key, b.Key)
}

func TestInequalityConstraintReducesToIdentity(t *testing.T) {
	x, y := v("?x"), v("?y")
	ineq := &InequalityConstraint{Left: x, Right: y}

	sub := NewSubstitution()
	sub, ok := sub.Bind(y, x)
	require.True(t, ok)

	_, _, reduced := ineq.Apply(sub)
	require.True(t, reduced)
}
