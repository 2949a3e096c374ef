// Package primecache memoizes prime sequences keyed by range.
package primecache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	"github.com/verte-zerg/primedial/internal/model"
	"github.com/verte-zerg/primedial/internal/prime"
)

// GenerateFunc computes the primes of [min, max].
type GenerateFunc func(ctx context.Context, min, max int) ([]int, error)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits         uint64
	Misses       uint64
	Computations uint64
	Evictions    uint64
	Len          int
}

// Cache maps ranges to their prime sequences. Stored sequences are shared
// with every caller and must be treated as read-only.
type Cache struct {
	generate GenerateFunc

	bounded *lru.Cache[model.Range, []int]

	mu      sync.RWMutex
	entries map[model.Range][]int

	group singleflight.Group

	hits         *atomic.Uint64
	misses       *atomic.Uint64
	computations *atomic.Uint64
	evictions    *atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithGenerator replaces the prime generator, mostly for tests.
func WithGenerator(fn GenerateFunc) Option {
	return func(c *Cache) {
		c.generate = fn
	}
}

// New returns a cache holding at most capacity ranges with least-recently-used
// eviction. A capacity of zero or less keeps every range for the process lifetime.
func New(capacity int, opts ...Option) (*Cache, error) {
	c := &Cache{
		generate:     prime.GenerateContext,
		hits:         atomic.NewUint64(0),
		misses:       atomic.NewUint64(0),
		computations: atomic.NewUint64(0),
		evictions:    atomic.NewUint64(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if capacity > 0 {
		bounded, err := lru.New[model.Range, []int](capacity)
		if err != nil {
			return nil, fmt.Errorf("failed to create lru cache: %w", err)
		}
		c.bounded = bounded
	} else {
		c.entries = map[model.Range][]int{}
	}
	return c, nil
}

// GetOrCompute returns the primes of [min, max], computing them at most once
// per range while the entry stays cached. Concurrent callers for the same
// uncached range share a single computation. The shared computation is
// detached from any single caller's cancellation; a caller whose ctx ends
// stops waiting and gets ctx.Err() while the others keep waiting.
func (c *Cache) GetOrCompute(ctx context.Context, min, max int) ([]int, error) {
	key := model.Range{Min: min, Max: max}
	if primes, ok := c.get(key); ok {
		c.hits.Inc()
		return primes, nil
	}
	c.misses.Inc()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		if primes, ok := c.get(key); ok {
			return primes, nil
		}
		primes, err := c.generate(shared, min, max)
		if err != nil {
			return nil, err
		}
		c.computations.Inc()
		c.put(key, primes)
		return primes, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]int), nil
	}
}

// Purge drops every cached range. Counters are kept and purged ranges are
// not counted as evictions.
func (c *Cache) Purge() {
	if c.bounded != nil {
		c.bounded.Purge()
		return
	}
	c.mu.Lock()
	c.entries = map[model.Range][]int{}
	c.mu.Unlock()
}

// Len returns the number of cached ranges.
func (c *Cache) Len() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Computations: c.computations.Load(),
		Evictions:    c.evictions.Load(),
		Len:          c.Len(),
	}
}

func (c *Cache) get(key model.Range) ([]int, bool) {
	if c.bounded != nil {
		return c.bounded.Get(key)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	primes, ok := c.entries[key]
	return primes, ok
}

func (c *Cache) put(key model.Range, primes []int) {
	if c.bounded != nil {
		if c.bounded.Add(key, primes) {
			c.evictions.Inc()
		}
		return
	}
	c.mu.Lock()
	c.entries[key] = primes
	c.mu.Unlock()
}
