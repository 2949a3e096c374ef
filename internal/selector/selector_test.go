package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	draws []float64
	pos   int
}

func (s *fixedSource) Float64() float64 {
	v := s.draws[s.pos%len(s.draws)]
	s.pos++
	return v
}

func TestPickEmptyRange(t *testing.T) {
	_, err := Pick(&fixedSource{draws: []float64{0.5}}, nil)
	require.ErrorIs(t, err, ErrEmptyRange)
	_, err = Pick(&fixedSource{draws: []float64{0.5}}, []int{})
	require.ErrorIs(t, err, ErrEmptyRange)
}

func TestPickSingleElement(t *testing.T) {
	src := &fixedSource{draws: []float64{0, 0.3, 0.999999}}
	for i := 0; i < 3; i++ {
		got, err := Pick(src, []int{2})
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	}
}

func TestPickUsesFloorOfScaledDraw(t *testing.T) {
	primes := []int{11, 13, 17, 19}
	src := &fixedSource{draws: []float64{0, 0.24, 0.25, 0.5, 0.99}}
	want := []int{11, 11, 13, 17, 19}
	for _, w := range want {
		got, err := Pick(src, primes)
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
}

func TestPickIndexClampsOutOfRangeSource(t *testing.T) {
	idx, err := PickIndex(&fixedSource{draws: []float64{1.0}}, []int{2, 3, 5})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestPickCoversWholeSequence(t *testing.T) {
	primes := []int{2, 3, 5, 7, 11}
	src := NewSource(42)
	seen := map[int]int{}
	for i := 0; i < 5000; i++ {
		got, err := Pick(src, primes)
		require.NoError(t, err)
		seen[got]++
	}
	for _, p := range primes {
		assert.Greater(t, seen[p], 800, "prime %d drawn too rarely", p)
	}
}

func TestNewSourceSeedIsDeterministic(t *testing.T) {
	a, b := NewSource(7), NewSource(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
