// Package prime decides primality and enumerates primes in integer ranges.
package prime

import (
	"context"
	"errors"
)

// ErrRangeTooLarge reports a range wider than the caller's configured span limit.
var ErrRangeTooLarge = errors.New("range exceeds maximum span")

const cancelCheckEvery = 4096

// IsPrime reports whether n is prime using 6k±1 trial division.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	// i*i <= n written as i <= n/i so large n cannot overflow.
	for i := 5; i <= n/i; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// Generate returns every prime in [min, max] in ascending order.
// An inverted range yields an empty, non-nil slice.
func Generate(min, max int) []int {
	primes, _ := GenerateContext(context.Background(), min, max)
	return primes
}

// GenerateContext is Generate with cancellation checked periodically.
func GenerateContext(ctx context.Context, min, max int) ([]int, error) {
	primes := []int{}
	if min > max {
		return primes, nil
	}
	if min < 2 {
		min = 2
	}
	for i, n := min, 0; i <= max; i, n = i+1, n+1 {
		if n%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if IsPrime(i) {
			primes = append(primes, i)
		}
		if i == max {
			// avoids wrapping when max is the largest int
			break
		}
	}
	return primes, nil
}

// Span returns the number of integers in [min, max], or 0 for an inverted range.
func Span(min, max int) uint64 {
	if min > max {
		return 0
	}
	return uint64(max) - uint64(min) + 1
}

// CheckSpan returns ErrRangeTooLarge when [min, max] holds more than limit
// integers. A limit of zero or less disables the check.
func CheckSpan(min, max int, limit int) error {
	if limit <= 0 {
		return nil
	}
	span := Span(min, max)
	// span wraps to zero only for the full int range
	if span > uint64(limit) || (span == 0 && min <= max) {
		return ErrRangeTooLarge
	}
	return nil
}
