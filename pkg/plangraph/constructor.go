package plangraph

import (
	"github.com/hashicorp/go-hclog"

	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/mutex"
	"github.com/arclane/ltlfplan/pkg/regress"
	"github.com/arclane/ltlfplan/pkg/unify"
)

// defaultMaxStates bounds construction when Options.MaxStates is left at
// its zero value, so a caller that forgets to set it gets a finite graph
// instead of an unbounded backward search.
const defaultMaxStates = 4096

// Options configures one Construct call.
type Options struct {
	// MaxStates bounds the total number of distinct abstract states the
	// worklist may discover before construction is truncated. Zero means
	// defaultMaxStates.
	MaxStates int
	// MaxDepth bounds how many regression steps may be chained from the
	// root. Zero means unbounded depth (still subject to MaxStates).
	MaxDepth int
	Logger   hclog.Logger
}

func (o Options) maxStates() int {
	if o.MaxStates <= 0 {
		return defaultMaxStates
	}
	return o.MaxStates
}

func (o Options) logger() hclog.Logger {
	if o.Logger == nil {
		return hclog.NewNullLogger()
	}
	return o.Logger
}

// Construct returns the StateGraph of abstract states from which goal is
// backward-reachable in dom, honoring patterns as pruning invariants. The
// goal is canonicalised to find (or populate) its entry in cache, so that
// two calls whose goals are identical up to variable renaming share the
// built graph; the result is renamed back into goal's own variable names
// before being returned, so the sharing is invisible to the caller. callID
// seeds the regression engine's alpha-renaming tags and must be unique
// across concurrently running Construct calls that might share a cache
// (the caller, e.g. the DFA driver's worker pool, is responsible for
// handing out distinct callIDs).
func Construct(goal []*unify.Literal, dom *domain.Domain, patterns []*mutex.Pattern, cache *GoalCache, opts Options, callID int) *StateGraph {
	canon := unify.Canonicalise(goal)
	log := opts.logger().Named("plangraph")

	graph, hit := cache.GetOrBuild(canon.Key, func() *StateGraph {
		log.Debug("building goal graph", "key", canon.Key, "call_id", callID)
		return build(canon.Literals, dom, patterns, opts, callID)
	})
	if hit {
		log.Debug("goal graph cache hit", "key", canon.Key)
	}

	return renameVars(graph, canon.Inverse)
}

// build runs the worklist backward search described for the goal-graph
// constructor: it pops a state, checks it for mutex consistency (a state
// that is itself inconsistent has no reachable models and is dropped
// without being expanded — this is what keeps an unsatisfiable goal like
// holding(x) & holding(y) to a root-only, successor-less graph), regresses
// it one step through every schema and literal, canonicalises every
// candidate successor to test it for isomorphism against states already
// discovered, and otherwise enqueues it as a new node.
func build(goal []*unify.Literal, dom *domain.Domain, patterns []*mutex.Pattern, opts Options, callID int) *StateGraph {
	log := opts.logger().Named("plangraph")
	maxStates := opts.maxStates()

	rootCanon := unify.Canonicalise(goal)
	root := &AbstractState{Literals: rootCanon.Literals, Depth: 0, Key: rootCanon.Key}

	graph := &StateGraph{Root: root, Nodes: []*AbstractState{root}}
	explored := map[string]*AbstractState{root.Key: root}

	if !mutex.Check(root.Literals, patterns) {
		log.Debug("root violates mutex invariant, graph has no successors", "key", root.Key)
		return graph
	}

	worklist := []*AbstractState{root}
	truncated := false

	for len(worklist) > 0 {
		if len(graph.Nodes) >= maxStates {
			truncated = true
			break
		}

		cur := worklist[0]
		worklist = worklist[1:]

		if opts.MaxDepth > 0 && cur.Depth >= opts.MaxDepth {
			truncated = true
			continue
		}

		successors := regress.State(cur.Literals, dom, patterns, callID*100000+len(graph.Nodes))
		for _, succ := range successors {
			sCanon := unify.Canonicalise(succ.Literals)

			existing, already := explored[sCanon.Key]
			var target *AbstractState
			if already {
				target = existing
			} else {
				if len(graph.Nodes) >= maxStates {
					truncated = true
					continue
				}
				target = &AbstractState{
					Literals: sCanon.Literals,
					Depth:    cur.Depth + 1,
					Key:      sCanon.Key,
					Parent: &Provenance{
						From:    cur,
						Schema:  succ.Schema,
						Unifier: succ.Unifier,
						Target:  succ.Target,
					},
				}
				explored[sCanon.Key] = target
				graph.Nodes = append(graph.Nodes, target)
				worklist = append(worklist, target)
			}

			graph.Edges = append(graph.Edges, &Edge{
				From:    cur,
				To:      target,
				Schema:  succ.Schema,
				Unifier: succ.Unifier,
				Target:  succ.Target,
			})
		}
	}

	graph.Truncated = truncated
	if truncated {
		log.Warn("goal graph construction truncated", "states", len(graph.Nodes), "max_states", maxStates)
	}
	return graph
}
