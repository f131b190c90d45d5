package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrderRegardlessOfCompletionOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	pool := New(4)

	results, err := Map(context.Background(), pool, items, func(_ context.Context, _ int, n int) (int, error) {
		// Items with larger values sleep longer, so completion order
		// differs from input order; Map must still return in input order.
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{50, 10, 40, 20, 30}, results)
}

func TestMapBoundsConcurrency(t *testing.T) {
	items := make([]int, 20)
	pool := New(3)

	var current, peak int64
	_, err := Map(context.Background(), pool, items, func(_ context.Context, _ int, _ int) (struct{}, error) {
		n := atomic.AddInt64(&current, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	require.LessOrEqual(t, atomic.LoadInt64(&peak), int64(3))
}

func TestMapReturnsFirstError(t *testing.T) {
	items := []int{1, 2, 3}
	pool := New(2)
	boom := errors.New("boom")

	_, err := Map(context.Background(), pool, items, func(_ context.Context, i int, _ int) (int, error) {
		if i == 1 {
			return 0, boom
		}
		return i, nil
	})
	require.ErrorIs(t, err, boom)
}

func TestMapStopsSchedulingAfterCancel(t *testing.T) {
	items := make([]int, 10)
	pool := New(1)

	ctx, cancel := context.WithCancel(context.Background())
	var calls int64
	_, err := Map(ctx, pool, items, func(_ context.Context, i int, _ int) (int, error) {
		if i == 0 {
			cancel()
		}
		atomic.AddInt64(&calls, 1)
		return 0, nil
	})
	require.Error(t, err)
	require.Less(t, atomic.LoadInt64(&calls), int64(10))
}

func TestNewDefaultsToNumCPUForNonPositiveSize(t *testing.T) {
	pool := New(0)
	require.Greater(t, pool.size, 0)
}
