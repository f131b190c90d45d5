// Package main is a thin demo host that exercises the full pipeline end to
// end: load a domain, a DFA and a grounding map, run the guard driver, and
// print the resulting per-transition graphs, plans and cache statistics.
// It is a sample host, the way the teacher's cmd/example exercises its
// library without being part of that library's public API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/arclane/ltlfplan/internal/workerpool"
	"github.com/arclane/ltlfplan/pkg/automaton"
	"github.com/arclane/ltlfplan/pkg/domainio"
	"github.com/arclane/ltlfplan/pkg/planlib"
	"github.com/arclane/ltlfplan/pkg/plangraph"
)

func main() {
	maxStates := flag.Int("max-states", 512, "abstract-state budget per goal graph")
	maxDepth := flag.Int("max-depth", 0, "regression depth budget per goal graph (0 = unbounded)")
	parallel := flag.Bool("parallel", false, "fan the DFA driver out across transitions via a bounded worker pool")
	logLevel := flag.String("log-level", "warn", "hclog level for the core (trace, debug, info, warn, error)")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "planbuild",
		Level: hclog.LevelFromString(*logLevel),
	})

	dom, err := domainio.Parse(blocksworldDomain)
	if err != nil {
		log.Fatalf("parsing domain: %v", err)
	}

	dfa, err := automaton.ParseDFA(blocksworldDFA)
	if err != nil {
		log.Fatalf("parsing DFA: %v", err)
	}

	grounding, err := automaton.ParseGroundingMap(blocksworldGrounding)
	if err != nil {
		log.Fatalf("parsing grounding map: %v", err)
	}

	driver := automaton.NewDriver(dfa, dom, grounding, plangraph.Options{
		MaxStates: *maxStates,
		MaxDepth:  *maxDepth,
		Logger:    logger,
	})

	var results []automaton.TransitionResult
	if *parallel {
		results, err = driver.RunParallel(context.Background(), workerpool.New(0), 1)
	} else {
		results, err = driver.Run(1)
	}
	if err != nil {
		log.Fatalf("running driver: %v", err)
	}

	for _, res := range results {
		fmt.Printf("transition %s -> %s [%s]\n", res.Transition.From, res.Transition.To, res.Transition.GuardText)
		if res.Unreachable {
			fmt.Println("  (advisory: unreachable-from-arbitrary-state)")
		}
		for i, dj := range res.Disjuncts {
			fmt.Printf("  disjunct %d: %d nodes, %d edges, truncated=%v\n", i, len(dj.Graph.Nodes), len(dj.Graph.Edges), dj.Graph.Truncated)
			for _, plan := range planlib.Emit(dj.Graph) {
				fmt.Printf("    %s\n", plan.String())
			}
		}
	}

	fmt.Println()
	fmt.Println("cache statistics:")
	for key, stats := range driver.CacheStats() {
		fmt.Printf("  %-40s hits=%d builds=%d\n", key, stats.Hits, stats.Builds)
	}

	if len(results) == 0 {
		os.Exit(1)
	}
}

const blocksworldDomain = `
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

action put-down
  :parameters (?x - block)
  :precondition (holding(?x))
  :effect-add (ontable(?x), clear(?x), handempty())
  :effect-del (holding(?x))
end

action stack
  :parameters (?x - block, ?y - block)
  :precondition (holding(?x), clear(?y))
  :effect-add (on(?x, ?y), clear(?x), handempty())
  :effect-del (holding(?x), clear(?y))
  :inequality (?x, ?y)
end

action unstack
  :parameters (?x - block, ?y - block)
  :precondition (on(?x, ?y), clear(?x), handempty())
  :effect-add (holding(?x), clear(?y))
  :effect-del (on(?x, ?y), clear(?x), handempty())
  :inequality (?x, ?y)
end
`

const blocksworldDFA = `
states: q0 q1
initial: q0
accepting: q1
q0 -> q1 : on_a_b
q1 -> q1 : true
`

const blocksworldGrounding = `
on_a_b = on(a, b)
`
