// Package engine exposes range queries, random draws, and dial series to hosts.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/verte-zerg/primedial/internal/dial"
	"github.com/verte-zerg/primedial/internal/log"
	"github.com/verte-zerg/primedial/internal/model"
	"github.com/verte-zerg/primedial/internal/prime"
	"github.com/verte-zerg/primedial/internal/primecache"
	"github.com/verte-zerg/primedial/internal/selector"
)

// ErrInvalidRange reports min > max.
var ErrInvalidRange = errors.New("invalid range")

// Engine serves cached prime ranges to a presentation host. It is safe for
// concurrent use.
type Engine struct {
	cfg    model.Config
	cache  *primecache.Cache
	logger *log.Logger

	srcMu sync.Mutex
	src   selector.Source
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache uses an existing range cache.
func WithCache(c *primecache.Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithSource replaces the random source used for draws.
func WithSource(src selector.Source) Option {
	return func(e *Engine) {
		e.src = src
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New builds an Engine from resolved settings.
func New(cfg model.Config, opts ...Option) (*Engine, error) {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Discard()
	}
	if e.src == nil {
		e.src = selector.NewSource(cfg.Seed)
	}
	if e.cache == nil {
		c, err := primecache.New(cfg.CacheCapacity)
		if err != nil {
			return nil, err
		}
		e.cache = c
	}
	return e, nil
}

// QueryRange returns the ascending primes of [min, max]. The slice is shared
// with the cache and must not be modified.
func (e *Engine) QueryRange(ctx context.Context, min, max int) ([]int, error) {
	if min > max {
		e.logger.WarnContext(ctx, "rejected inverted range", "min", min, "max", max)
		return nil, fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, min, max)
	}
	if err := prime.CheckSpan(min, max, e.cfg.MaxSpan); err != nil {
		e.logger.WarnContext(ctx, "rejected oversized range", "min", min, "max", max, "max_span", e.cfg.MaxSpan)
		return nil, fmt.Errorf("%w: [%d, %d] spans more than %d integers", err, min, max, e.cfg.MaxSpan)
	}
	before := e.cache.Stats().Computations
	primes, err := e.cache.GetOrCompute(ctx, min, max)
	if err != nil {
		return nil, fmt.Errorf("failed to compute primes for [%d, %d]: %w", min, max, err)
	}
	if e.cache.Stats().Computations != before {
		e.logger.DebugContext(ctx, "computed prime range", "min", min, "max", max, "count", len(primes))
	}
	return primes, nil
}

// RandomPrime draws a uniformly random prime from [min, max]. It returns
// selector.ErrEmptyRange when the range holds no primes.
func (e *Engine) RandomPrime(ctx context.Context, min, max int) (int, error) {
	primes, err := e.QueryRange(ctx, min, max)
	if err != nil {
		return 0, err
	}
	e.srcMu.Lock()
	defer e.srcMu.Unlock()
	return selector.Pick(e.src, primes)
}

// BuildSeries samples [min, max] down to at most limit points. It returns
// selector.ErrEmptyRange when the range has no primes and
// dial.ErrDegenerateSeries when limit is not positive.
func (e *Engine) BuildSeries(ctx context.Context, min, max, limit int) (dial.Series, error) {
	if limit <= 0 {
		return dial.Series{Highlighted: -1}, fmt.Errorf("%w: cap must be > 0", dial.ErrDegenerateSeries)
	}
	primes, err := e.QueryRange(ctx, min, max)
	if err != nil {
		return dial.Series{Highlighted: -1}, err
	}
	if len(primes) == 0 {
		return dial.Series{Highlighted: -1}, selector.ErrEmptyRange
	}
	return dial.Sample(primes, limit)
}

// Highlight returns a copy of series with the point for chosenOriginalIndex
// painted, using the configured highlight mode. An unrepresented index
// yields the base colours.
func (e *Engine) Highlight(series dial.Series, step, chosenOriginalIndex int) dial.Series {
	return dial.HighlightWith(series, step, chosenOriginalIndex, e.mapper())
}

// HighlightValue highlights value in a series built from [min, max]. A value
// that is not a prime of the range yields the base colours.
func (e *Engine) HighlightValue(ctx context.Context, series dial.Series, min, max, value int) (dial.Series, error) {
	primes, err := e.QueryRange(ctx, min, max)
	if err != nil {
		return series, err
	}
	idx, ok := dial.IndexOf(primes, value)
	if !ok {
		return dial.HighlightWith(series, series.Step, -1, e.mapper()), nil
	}
	return e.Highlight(series, series.Step, idx), nil
}

// Draw picks a random prime of [min, max] and returns it with series
// highlighted accordingly.
func (e *Engine) Draw(ctx context.Context, series dial.Series, min, max int) (int, dial.Series, error) {
	value, err := e.RandomPrime(ctx, min, max)
	if err != nil {
		return 0, series, err
	}
	highlighted, err := e.HighlightValue(ctx, series, min, max, value)
	if err != nil {
		return value, series, err
	}
	return value, highlighted, nil
}

// CacheStats returns a snapshot of the range cache counters.
func (e *Engine) CacheStats() primecache.Stats {
	return e.cache.Stats()
}

// ResetCache drops every cached range.
func (e *Engine) ResetCache() {
	e.cache.Purge()
}

func (e *Engine) mapper() dial.IndexMapper {
	if e.cfg.Highlight == model.HighlightNearest {
		return dial.MapIndexNearest
	}
	return dial.MapIndex
}
