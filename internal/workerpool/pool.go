// Package workerpool is a bounded worker pool adapted for fanning the DFA
// guard driver out across transitions: instead of distributing miniKanren
// search branches across goroutines, it distributes per-transition guard
// decomposition and goal-graph construction, guarded by the goal cache's
// own atomic insert-or-get.
package workerpool

import (
	"context"
	"runtime"
	"sync"
)

// Pool bounds how many tasks run concurrently. A Pool has no internal
// queue of its own and owns no long-lived goroutines between calls to Map:
// each Map call starts one goroutine per item, lets at most size of them
// run at once, and waits for all of them before returning, which is
// sufficient for the driver's one-shot
// per-run fan-out and avoids the lifecycle management (shutdown channels,
// dynamic scaling) a long-lived pool would need.
type Pool struct {
	size int
}

// New returns a Pool bounded to size concurrent tasks. size <= 0 defaults
// to runtime.NumCPU().
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{size: size}
}

// Map runs fn over every element of items, at most p.size at a time, and
// returns results in the same order as items regardless of completion
// order — callers that need deterministic output (the driver's per-
// transition results, which must stay in DFA declaration order) get it for
// free. Once every in-flight call has finished, the error of the
// lowest-indexed item that failed (an fn error, or ctx's error for an item
// that was never dispatched) is returned; ctx is checked between
// dispatching tasks so
// a cancelled context stops scheduling new work without waiting for the
// whole batch.
func Map[T any, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, int, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	sem := make(chan struct{}, p.size)
	var wg sync.WaitGroup

	for i, item := range items {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		}

		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-sem }()
			r, err := fn(ctx, i, item)
			results[i] = r
			errs[i] = err
		}(i, item)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
