// Package selector draws random primes from generated sequences.
package selector

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyRange signals that a sequence holds no primes to draw from.
var ErrEmptyRange = errors.New("no primes in range")

// Source yields uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a math/rand source. A zero seed uses the current time.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Pick returns a uniformly chosen element of primes, or ErrEmptyRange.
func Pick(src Source, primes []int) (int, error) {
	idx, err := PickIndex(src, primes)
	if err != nil {
		return 0, err
	}
	return primes[idx], nil
}

// PickIndex returns the index of a uniformly chosen element of primes.
func PickIndex(src Source, primes []int) (int, error) {
	if len(primes) == 0 {
		return 0, ErrEmptyRange
	}
	idx := int(src.Float64() * float64(len(primes)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(primes) {
		idx = len(primes) - 1
	}
	return idx, nil
}
