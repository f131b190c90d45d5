package automaton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDFA = `
# a two-state DFA accepting once on_a_b holds
states: q0 q1
initial: q0
accepting: q1
q0 -> q1 : on_a_b
q1 -> q1 : true
`

func TestParseDFA(t *testing.T) {
	d, err := ParseDFA(sampleDFA)
	require.NoError(t, err)
	require.Equal(t, []string{"q0", "q1"}, d.States)
	require.Equal(t, "q0", d.Initial)
	require.True(t, d.IsAccepting("q1"))
	require.False(t, d.IsAccepting("q0"))
	require.Len(t, d.Transitions, 2)
	require.Equal(t, "on_a_b", d.Transitions[0].GuardText)
}

func TestParseDFARejectsUndeclaredState(t *testing.T) {
	_, err := ParseDFA(`
states: q0
initial: q0
q0 -> q9 : true
`)
	require.Error(t, err)
}

func TestParseDFAAggregatesMultipleErrors(t *testing.T) {
	_, err := ParseDFA(`
states: q0
initial: q0
q0 -> q0 : on_a_b &
not-an-edge-or-header
`)
	require.Error(t, err)
}

func TestDFATransitionsFromFiltersByState(t *testing.T) {
	d, err := ParseDFA(sampleDFA)
	require.NoError(t, err)
	ts := d.TransitionsFrom("q1")
	require.Len(t, ts, 1)
	require.Equal(t, "q1", ts[0].To)
}
