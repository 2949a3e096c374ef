// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Highlight modes decide how a drawn prime maps onto a strided series.
const (
	HighlightExact   = "exact"
	HighlightNearest = "nearest"
)

// Config defines dial settings resolved from flags, env, and the config file.
type Config struct {
	Min           int
	Max           int
	Cap           int
	DebounceMs    int
	Highlight     string
	CacheCapacity int
	MaxSpan       int
	Seed          int64
}

// Range is the closed interval [Min, Max]. It is used as the cache key.
type Range struct {
	Min int
	Max int
}

// String renders the range as "min-max".
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// HistoryFilter defines filters for listing past draws.
type HistoryFilter struct {
	Range *Range
	Since *time.Time
	Last  int
}

// Draw is a single recorded random pick.
type Draw struct {
	ID      int64
	Min     int
	Max     int
	Value   int
	DrawnAt time.Time
}

// DrawCount aggregates how often a value was drawn.
type DrawCount struct {
	Value int
	Count int
}
