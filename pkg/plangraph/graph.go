package plangraph

import "github.com/arclane/ltlfplan/pkg/unify"

// StateGraph is the set of abstract states reachable backwards from a
// lifted goal (the root), the labelled edges between them, and whether
// construction stopped early because of a state or depth budget.
type StateGraph struct {
	Root      *AbstractState
	Nodes     []*AbstractState
	Edges     []*Edge
	Truncated bool
}

// MaxDepth returns the deepest node depth currently in the graph.
func (g *StateGraph) MaxDepth() int {
	max := 0
	for _, n := range g.Nodes {
		if n.Depth > max {
			max = n.Depth
		}
	}
	return max
}

// renameVars returns a deep copy of g with every literal argument that
// names a variable present in renaming replaced per renaming; arguments
// not present in renaming (constants, or variables introduced below the
// root that have no caller-meaningful name) are left unchanged. Nodes not
// reachable from g (there are none, by construction) are never visited.
// The input graph is never mutated: it may be a shared, cached value.
func renameVars(g *StateGraph, renaming map[string]string) *StateGraph {
	nodeCopy := make(map[*AbstractState]*AbstractState, len(g.Nodes))
	newNode := func(n *AbstractState) *AbstractState {
		if existing, ok := nodeCopy[n]; ok {
			return existing
		}
		cp := &AbstractState{
			Literals: renameLiterals(n.Literals, renaming),
			Depth:    n.Depth,
			Key:      n.Key,
		}
		nodeCopy[n] = cp
		return cp
	}

	out := &StateGraph{Truncated: g.Truncated}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, newNode(n))
	}
	out.Root = newNode(g.Root)
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, &Edge{
			From:    newNode(e.From),
			To:      newNode(e.To),
			Schema:  e.Schema,
			Unifier: e.Unifier,
			Target:  e.Target,
		})
	}
	for _, n := range g.Nodes {
		cp := nodeCopy[n]
		if n.Parent != nil {
			cp.Parent = &Provenance{
				From:    newNode(n.Parent.From),
				Schema:  n.Parent.Schema,
				Unifier: n.Parent.Unifier,
				Target:  n.Parent.Target,
			}
		}
	}
	return out
}

func renameLiterals(lits []*unify.Literal, renaming map[string]string) []*unify.Literal {
	out := make([]*unify.Literal, len(lits))
	for i, l := range lits {
		args := make([]unify.Term, len(l.Args))
		for j, a := range l.Args {
			v, ok := a.(*unify.Variable)
			if !ok {
				args[j] = a
				continue
			}
			if newName, ok := renaming[v.Name]; ok {
				args[j] = unify.NewVariable(newName, v.Typ)
			} else {
				args[j] = a
			}
		}
		out[i] = unify.NewLiteral(l.Predicate, l.Sign, args...)
	}
	return out
}
