// Package dial turns prime sequences into bounded, coloured series for
// polar-area rendering and maps drawn primes back onto them.
package dial

import (
	"errors"
	"math"
	"strconv"
)

// DefaultCap is the display cap used when the host supplies none.
const DefaultCap = 50

// axisHeadroom is applied to the largest sampled value.
const axisHeadroom = 1.1

// ErrDegenerateSeries reports a zero cap or an attempt to scale or colour
// zero points.
var ErrDegenerateSeries = errors.New("degenerate series")

// Point is one sampled prime.
type Point struct {
	// Label is the 1-based rank in the source sequence, as text.
	Label string
	// Index is the 0-based position in the source sequence.
	Index int
	Value int
	Color Color
}

// Series is a strided view of a prime sequence ready for rendering. It is
// derived per request and never shares backing storage with the cache.
type Series struct {
	Points      []Point
	Step        int
	SourceLen   int
	AxisMax     float64
	TickStep    int
	Highlighted int
}

// Sample strides over primes so that at most limit points remain. Sequences
// no longer than limit are kept whole with step 1. Otherwise the stride is
// floor(len/limit) starting at index 0.
func Sample(primes []int, limit int) (Series, error) {
	if limit <= 0 || len(primes) == 0 {
		return Series{Highlighted: -1}, ErrDegenerateSeries
	}
	step := 1
	if len(primes) > limit {
		step = len(primes) / limit
	}
	count := (len(primes) + step - 1) / step
	if count > limit {
		count = limit
	}
	points := make([]Point, 0, count)
	for i := 0; i < len(primes) && len(points) < limit; i += step {
		points = append(points, Point{
			Label: strconv.Itoa(i + 1),
			Index: i,
			Value: primes[i],
		})
	}
	s := Series{
		Points:      points,
		Step:        step,
		SourceLen:   len(primes),
		Highlighted: -1,
	}
	if err := s.scale(); err != nil {
		return Series{Highlighted: -1}, err
	}
	if err := s.paint(); err != nil {
		return Series{Highlighted: -1}, err
	}
	return s, nil
}

// AxisMax returns the radial axis bound: the largest value plus 10% headroom.
func AxisMax(values []int) (float64, error) {
	if len(values) == 0 {
		return 0, ErrDegenerateSeries
	}
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return float64(maxVal) * axisHeadroom, nil
}

// MapIndex maps a source index onto the sampled series built with step.
// It reports false when the stride skipped the element or it lies past the
// last sampled point.
func MapIndex(originalIndex, step, length int) (int, bool) {
	if step <= 0 || originalIndex < 0 || originalIndex%step != 0 {
		return 0, false
	}
	return MapIndexNearest(originalIndex, step, length)
}

// MapIndexNearest maps a source index to floor(originalIndex/step), the
// nearest sampled point at or before it. It reports false past the last point.
func MapIndexNearest(originalIndex, step, length int) (int, bool) {
	if step <= 0 || originalIndex < 0 {
		return 0, false
	}
	idx := originalIndex / step
	if idx >= length {
		return 0, false
	}
	return idx, true
}

// Len returns the number of sampled points.
func (s Series) Len() int {
	return len(s.Points)
}

// Labels returns the point labels in order.
func (s Series) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label
	}
	return out
}

// Values returns the sampled primes in order.
func (s Series) Values() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Colors returns the point colours in order.
func (s Series) Colors() []Color {
	out := make([]Color, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Color
	}
	return out
}

func (s *Series) scale() error {
	values := s.Values()
	axisMax, err := AxisMax(values)
	if err != nil {
		return err
	}
	s.AxisMax = axisMax
	// values are ascending, so the last one is the largest
	s.TickStep = int(math.Ceil(float64(values[len(values)-1]) / 5))
	return nil
}

func (s *Series) paint() error {
	colors, err := Palette(len(s.Points))
	if err != nil {
		return err
	}
	for i := range s.Points {
		s.Points[i].Color = colors[i]
	}
	return nil
}
