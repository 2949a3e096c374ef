package dial

import "sort"

// IndexMapper maps a source index onto a sampled series of the given length.
type IndexMapper func(originalIndex, step, length int) (int, bool)

// Highlight returns a copy of s with the base palette restored and the point
// that originalIndex maps to (exactly, via MapIndex) painted Selected. When
// the index is not represented the copy differs from s only in having no
// highlight. s itself is never modified.
func Highlight(s Series, step, originalIndex int) Series {
	return HighlightWith(s, step, originalIndex, MapIndex)
}

// HighlightWith is Highlight with a custom index mapping.
func HighlightWith(s Series, step, originalIndex int, mapIndex IndexMapper) Series {
	out := s.clone()
	out.Highlighted = -1
	if len(out.Points) == 0 {
		return out
	}
	if err := out.paint(); err != nil {
		return out
	}
	idx, ok := mapIndex(originalIndex, step, len(out.Points))
	if !ok {
		return out
	}
	out.Points[idx].Color = Selected
	out.Highlighted = idx
	return out
}

// IndexOf returns the position of value in the ascending primes, or false.
func IndexOf(primes []int, value int) (int, bool) {
	i := sort.SearchInts(primes, value)
	if i < len(primes) && primes[i] == value {
		return i, true
	}
	return 0, false
}

func (s Series) clone() Series {
	out := s
	out.Points = append([]Point(nil), s.Points...)
	return out
}
