package domainio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const blocksworldText = `
# a small blocksworld domain
type block

predicate on(block, block)
predicate clear(block)
predicate holding(block)
predicate ontable(block)
predicate handempty()

action pick-up
  :parameters (?x - block)
  :precondition (clear(?x), ontable(?x), handempty())
  :effect-add (holding(?x))
  :effect-del (ontable(?x), clear(?x), handempty())
end

action stack
  :parameters (?x - block, ?y - block)
  :precondition (holding(?x), clear(?y))
  :effect-add (on(?x, ?y), clear(?x), handempty())
  :effect-del (holding(?x), clear(?y))
  :inequality (?x, ?y)
end
`

func TestParseProducesExpectedPredicatesAndActions(t *testing.T) {
	dom, err := Parse(blocksworldText)
	require.NoError(t, err)

	require.Contains(t, dom.Predicates, "on")
	require.Equal(t, 2, dom.Predicates["on"].Arity())
	require.Contains(t, dom.Predicates, "handempty")
	require.Equal(t, 0, dom.Predicates["handempty"].Arity())

	require.Len(t, dom.Actions, 2)

	found := false
	for _, a := range dom.Actions {
		if a.Name != "stack" {
			continue
		}
		found = true
		require.Len(t, a.Parameters, 2)
		require.Len(t, a.Precondition, 2)
		require.Len(t, a.Effect.Add, 3)
		require.Len(t, a.Effect.Del, 2)
		require.Len(t, a.Inequalities, 1)
	}
	require.True(t, found, "expected a stack action")
}

func TestParseIgnoresBlankLinesAndComments(t *testing.T) {
	dom, err := Parse(`
# a comment

type block

predicate clear(block)
`)
	require.NoError(t, err)
	require.Contains(t, dom.Predicates, "clear")
}

func TestParseAggregatesMultipleErrors(t *testing.T) {
	_, err := Parse(`
type block

predicate clear(block)

action broken
  :precondition (clear(?x))
  :effect-add (holding(?x))
end

this-is-not-a-directive
`)
	require.Error(t, err)
	// Both the undeclared-predicate defect inside the action block and the
	// unrecognised top-level line should be reported together.
	require.Contains(t, err.Error(), "holding")
}

func TestParseRejectsActionReferencingUndeclaredPredicate(t *testing.T) {
	_, err := Parse(`
type block

predicate clear(block)

action pick-up
  :parameters (?x - block)
  :precondition (clear(?x))
  :effect-add (holding(?x))
end
`)
	require.Error(t, err)
}
