package automaton

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/arclane/ltlfplan/internal/workerpool"
	"github.com/arclane/ltlfplan/pkg/domain"
	"github.com/arclane/ltlfplan/pkg/mutex"
	"github.com/arclane/ltlfplan/pkg/plangraph"
	"github.com/arclane/ltlfplan/pkg/unify"
)

// DisjunctResult is the goal-graph built for one DNF disjunct of a
// transition's guard.
type DisjunctResult struct {
	Disjunct Disjunct
	Graph    *plangraph.StateGraph
	// Binding maps each lifted variable name appearing in Graph back to
	// the world constant the grounding map bound it to for this disjunct
	// (e.g. "?g_0" -> "a"). A downstream binder uses this, composed with a
	// graph edge's own unifier, to recover which world objects a disjunct
	// was actually guarding on.
	Binding map[string]string
}

// TransitionResult is every disjunct's graph for one DFA transition, plus
// the advisory unreachable flag described by §4.5 step 4.
type TransitionResult struct {
	Transition Transition
	Disjuncts  []DisjunctResult
	// Unreachable is set when every disjunct's graph is just its root with
	// no incoming edges, meaning the driver found no abstract predecessor
	// from which this transition's guard can be reached. It never
	// suppresses emission itself; that choice is left to the downstream
	// emitter.
	Unreachable bool
}

// Driver is the public entry point named by §4.5/§6: it decomposes every
// DFA transition's guard into DNF, lifts each disjunct through the
// grounding map into a goal literal set, invokes the goal-graph
// constructor, and attaches the resulting graphs back onto the
// transition.
type Driver struct {
	DFA       *DFA
	Domain    *domain.Domain
	Grounding *GroundingMap
	Patterns  []*mutex.Pattern
	Cache     *plangraph.GoalCache
	Options   plangraph.Options
	Logger    hclog.Logger
}

// NewDriver builds a Driver with mutex patterns synthesised from dom and a
// fresh goal cache. Callers that want to share a cache across multiple
// drivers (e.g. one per DFA, all over the same domain) should construct
// Driver directly instead.
func NewDriver(d *DFA, dom *domain.Domain, grounding *GroundingMap, opts plangraph.Options) *Driver {
	return &Driver{
		DFA:       d,
		Domain:    dom,
		Grounding: grounding,
		Patterns:  mutex.Synthesize(dom),
		Cache:     plangraph.NewGoalCache(),
		Options:   opts,
		Logger:    opts.Logger,
	}
}

func (dr *Driver) logger() hclog.Logger {
	if dr.Logger == nil {
		return hclog.NewNullLogger()
	}
	return dr.Logger
}

// Run processes every transition of dr.DFA, in declaration order, and
// returns one TransitionResult per transition in the same order. callIDBase
// seeds the per-disjunct call IDs handed to the constructor so that
// concurrent or repeated Run invocations over the same cache never reuse a
// call ID (transition i uses the range starting at callIDBase+i*1000;
// RunParallel derives its per-transition IDs the same way).
func (dr *Driver) Run(callIDBase int) ([]TransitionResult, error) {
	log := dr.logger().Named("driver")
	results := make([]TransitionResult, len(dr.DFA.Transitions))

	for i, t := range dr.DFA.Transitions {
		res, err := dr.runTransition(t, callIDBase+i*1000)
		if err != nil {
			return nil, err
		}
		results[i] = *res
		log.Debug("transition processed", "from", t.From, "to", t.To, "disjuncts", len(res.Disjuncts), "unreachable", res.Unreachable)
	}
	return results, nil
}

// RunParallel is Run's concurrent counterpart: it fans the per-transition
// work (guard decomposition plus goal-graph construction) out across a
// bounded worker pool, relying on the goal cache's mutex-guarded
// GetOrBuild for the atomic insert-or-get that §5 requires once
// construction is parallelised. Results are
// reassembled in DFA declaration order regardless of completion order, so
// Run and RunParallel return identical output for the same domain, DFA
// and cache contents — only wall-clock behaviour differs.
func (dr *Driver) RunParallel(ctx context.Context, pool *workerpool.Pool, callIDBase int) ([]TransitionResult, error) {
	log := dr.logger().Named("driver")

	results, err := workerpool.Map(ctx, pool, dr.DFA.Transitions, func(_ context.Context, i int, t Transition) (TransitionResult, error) {
		res, err := dr.runTransition(t, callIDBase+i*1000)
		if err != nil {
			return TransitionResult{}, err
		}
		return *res, nil
	})
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		log.Debug("transition processed", "from", res.Transition.From, "to", res.Transition.To, "disjuncts", len(res.Disjuncts), "unreachable", res.Unreachable)
	}
	return results, nil
}

// RunTransition processes a single transition, independent of dr.DFA's
// transition list — the shape the worker pool invokes per fanned-out unit
// of work.
func (dr *Driver) RunTransition(t Transition, callID int) (*TransitionResult, error) {
	return dr.runTransition(t, callID)
}

func (dr *Driver) runTransition(t Transition, callIDBase int) (*TransitionResult, error) {
	disjuncts := ToDNF(t.Guard)
	res := &TransitionResult{Transition: t}

	allRootOnly := true
	for i, dj := range disjuncts {
		goal, binding, err := dr.liftDisjunct(dj)
		if err != nil {
			return nil, err
		}

		graph := plangraph.Construct(goal, dr.Domain, dr.Patterns, dr.Cache, dr.Options, callIDBase+i)
		res.Disjuncts = append(res.Disjuncts, DisjunctResult{Disjunct: dj, Graph: graph, Binding: binding})

		if len(graph.Edges) > 0 {
			allRootOnly = false
		}
	}

	res.Unreachable = len(disjuncts) > 0 && allRootOnly
	return res, nil
}

// liftDisjunct converts a DNF disjunct (possibly-negated atom names) into
// a lifted goal literal set via the grounding map: every distinct world
// constant named by the disjunct's atoms is replaced by a fresh variable,
// consistently, in first-appearance order within the disjunct, and the
// variable-to-constant binding is returned alongside the goal. This is
// what makes the guard atoms on_a_b and on_b_a, which ground to on(a,b)
// and on(b,a), both lift to the identical goal on(?g_0,?g_1) (the second
// disjunct's binding swaps which constant ?g_0 and ?g_1 denote) — so the
// two invocations of the goal-graph constructor hit the same cache entry,
// exactly the cache congruence behaviour scenario S3 tests. Grounding
// directly to constants instead (skipping this lift) would make every
// distinct pair of objects build and cache its own graph, defeating the
// variable-level cache's entire purpose.
func (dr *Driver) liftDisjunct(dj Disjunct) ([]*unify.Literal, map[string]string, error) {
	varOf := map[string]*unify.Variable{}
	binding := map[string]string{}
	next := 0
	freshVar := func(constant string) *unify.Variable {
		if v, ok := varOf[constant]; ok {
			return v
		}
		v := unify.NewVariable("?g_"+itoa(next), "")
		next++
		varOf[constant] = v
		binding[v.Name] = constant
		return v
	}

	out := make([]*unify.Literal, 0, len(dj))
	for _, lit := range dj {
		atom, err := dr.Grounding.Lookup(lit.Name)
		if err != nil {
			return nil, nil, err
		}
		sign := unify.Positive
		if lit.Negated {
			sign = unify.Negative
		}
		args := make([]unify.Term, len(atom.Constants))
		for i, c := range atom.Constants {
			args[i] = freshVar(c)
		}
		out = append(out, unify.NewLiteral(atom.Predicate, sign, args...))
	}
	return out, binding, nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	for i > 0 {
		pos--
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits[pos:])
}

// CacheStats returns the goal cache's per-key diagnostics, named in §6 as
// "canonical-key -> statistics (nodes, edges, depth, construction time)".
// Only the cache-effectiveness counters (hits and builds) are reported per
// key; node counts, edge counts, depth and construction time are not part
// of GraphStats.
func (dr *Driver) CacheStats() map[string]GraphStats {
	dump := dr.Cache.Dump()
	out := make(map[string]GraphStats, len(dump))
	for key, stats := range dump {
		out[key] = GraphStats{Hits: stats.Hits, Builds: stats.Builds}
	}
	return out
}

// GraphStats is the cache-effectiveness counters for one canonical goal
// key.
type GraphStats struct {
	Hits   int
	Builds int
}
