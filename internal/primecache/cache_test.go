package primecache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/primedial/internal/prime"
)

type countingGenerator struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
}

func (g *countingGenerator) generate(ctx context.Context, min, max int) ([]int, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	return prime.GenerateContext(ctx, min, max)
}

func (g *countingGenerator) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestGetOrComputeCachesResult(t *testing.T) {
	for _, capacity := range []int{0, 8} {
		gen := &countingGenerator{}
		c, err := New(capacity, WithGenerator(gen.generate))
		require.NoError(t, err)

		ctx := context.Background()
		first, err := c.GetOrCompute(ctx, 10, 50)
		require.NoError(t, err)
		second, err := c.GetOrCompute(ctx, 10, 50)
		require.NoError(t, err)

		assert.Equal(t, prime.Generate(10, 50), first)
		assert.Equal(t, first, second)
		assert.Same(t, &first[0], &second[0], "cache hit should return the stored slice")
		assert.Equal(t, 1, gen.count())

		stats := c.Stats()
		assert.Equal(t, uint64(1), stats.Hits)
		assert.Equal(t, uint64(1), stats.Misses)
		assert.Equal(t, uint64(1), stats.Computations)
		assert.Equal(t, 1, stats.Len)
	}
}

func TestGetOrComputeDistinctRanges(t *testing.T) {
	gen := &countingGenerator{}
	c, err := New(0, WithGenerator(gen.generate))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.GetOrCompute(ctx, 1, 10)
	require.NoError(t, err)
	_, err = c.GetOrCompute(ctx, 1, 11)
	require.NoError(t, err)
	_, err = c.GetOrCompute(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, gen.count())
}

func TestGetOrComputeEmptyRangeIsCached(t *testing.T) {
	gen := &countingGenerator{}
	c, err := New(4, WithGenerator(gen.generate))
	require.NoError(t, err)

	got, err := c.GetOrCompute(context.Background(), 14, 16)
	require.NoError(t, err)
	assert.Empty(t, got)
	_, err = c.GetOrCompute(context.Background(), 14, 16)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.count())
}

func TestGetOrComputeEvictsLeastRecentlyUsed(t *testing.T) {
	gen := &countingGenerator{}
	c, err := New(2, WithGenerator(gen.generate))
	require.NoError(t, err)

	ctx := context.Background()
	for _, r := range [][2]int{{1, 10}, {1, 20}, {1, 10}, {1, 30}} {
		_, err := c.GetOrCompute(ctx, r[0], r[1])
		require.NoError(t, err)
	}
	// {1,20} was least recently used when {1,30} arrived.
	assert.Equal(t, 3, gen.count())
	assert.Equal(t, uint64(1), c.Stats().Evictions)
	assert.Equal(t, 2, c.Len())

	_, err = c.GetOrCompute(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, gen.count(), "{1,10} should still be cached")

	_, err = c.GetOrCompute(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 4, gen.count())
	assert.Equal(t, uint64(2), c.Stats().Evictions)
}

func TestGetOrComputeConcurrentCallersShareComputation(t *testing.T) {
	gen := &countingGenerator{delay: 20 * time.Millisecond}
	c, err := New(16, WithGenerator(gen.generate))
	require.NoError(t, err)

	const workers = 16
	results := make([][]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			primes, err := c.GetOrCompute(context.Background(), 2, 5000)
			if err != nil {
				t.Errorf("GetOrCompute: %v", err)
				return
			}
			results[i] = primes
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, gen.count())
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	c, err := New(4, WithGenerator(func(context.Context, int, int) ([]int, error) {
		calls++
		return nil, boom
	}))
	require.NoError(t, err)

	_, err = c.GetOrCompute(context.Background(), 1, 10)
	require.ErrorIs(t, err, boom)
	_, err = c.GetOrCompute(context.Background(), 1, 10)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, c.Len())
}

func TestPurge(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	_, err = c.GetOrCompute(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestPurgeDoesNotCountEvictions(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)
	ctx := context.Background()
	_, err = c.GetOrCompute(ctx, 1, 10)
	require.NoError(t, err)
	_, err = c.GetOrCompute(ctx, 1, 20)
	require.NoError(t, err)

	c.Purge()
	stats := c.Stats()
	assert.Equal(t, 0, stats.Len)
	assert.Equal(t, uint64(0), stats.Evictions)
}

func TestGetOrComputeCallerCancelDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	var mu sync.Mutex
	c, err := New(4, WithGenerator(func(ctx context.Context, min, max int) ([]int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return prime.GenerateContext(ctx, min, max)
	}))
	require.NoError(t, err)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GetOrCompute(firstCtx, 1, 30)
		firstErr <- err
	}()
	<-started

	type result struct {
		primes []int
		err    error
	}
	waiter := make(chan result, 1)
	go func() {
		primes, err := c.GetOrCompute(context.Background(), 1, 30)
		waiter <- result{primes, err}
	}()

	cancel()
	select {
	case err := <-firstErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case res := <-waiter:
		require.NoError(t, res.err)
		assert.Equal(t, prime.Generate(1, 30), res.primes)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not return")
	}

	mu.Lock()
	assert.Equal(t, int32(1), calls)
	mu.Unlock()
	assert.Equal(t, 1, c.Len())
}
