package plangraph

import "sync"

// Stats records how many times a cache entry was reused versus built.
type Stats struct {
	Hits   int
	Builds int
}

// GoalCache maps a canonical goal key to the StateGraph built for it. Entries
// are stored at most once: concurrent requests for the same key that arrive
// while a build is in flight each perform their own build (regression is
// pure and side-effect free, so duplicate work is wasted but never wrong),
// and only the first one to finish is kept. This trades a small amount of
// possible duplicate work for a cache that never blocks a caller behind an
// unrelated goal's construction.
type GoalCache struct {
	mu     sync.Mutex
	graphs map[string]*StateGraph
	stats  map[string]*Stats
}

// NewGoalCache returns an empty cache.
func NewGoalCache() *GoalCache {
	return &GoalCache{
		graphs: make(map[string]*StateGraph),
		stats:  make(map[string]*Stats),
	}
}

// GetOrBuild returns the cached graph for key if present, else calls build,
// stores its result under key, and returns it. If two goroutines race to
// build the same key, both builds run; whichever stores first wins, and the
// loser's result is discarded: the loser receives the stored graph, its
// call is counted in Stats.Hits rather than Stats.Builds, and it reports a
// hit. The returned bool reports whether this call was a hit.
func (c *GoalCache) GetOrBuild(key string, build func() *StateGraph) (*StateGraph, bool) {
	c.mu.Lock()
	if g, ok := c.graphs[key]; ok {
		c.statsLocked(key).Hits++
		c.mu.Unlock()
		return g, true
	}
	c.mu.Unlock()

	g := build()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.graphs[key]; ok {
		c.statsLocked(key).Hits++
		return existing, true
	}
	c.graphs[key] = g
	c.statsLocked(key).Builds++
	return g, false
}

func (c *GoalCache) statsLocked(key string) *Stats {
	s, ok := c.stats[key]
	if !ok {
		s = &Stats{}
		c.stats[key] = s
	}
	return s
}

// Dump returns a snapshot of per-key hit/build counters, for the diagnostics
// surface that reports cache effectiveness after a driver run.
func (c *GoalCache) Dump() map[string]Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Stats, len(c.stats))
	for k, s := range c.stats {
		out[k] = *s
	}
	return out
}

// Size returns the number of distinct canonical goals currently cached.
func (c *GoalCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.graphs)
}
