package corpus

import (
	"errors"
	"fmt"

	"slicevec/internal/slice"
)

// DefaultBound is the magnitude of the default grid: components range over
// [-DefaultBound, DefaultBound], one past the reference length on each side.
const DefaultBound = ReferenceLen + 1

var ErrInvalidGrid = errors.New("invalid grid")

// Grid is the parameter space the corpus is generated over.
//
// Every component of a Spec takes each integer in [Min, Max] and, when
// IncludeAbsent is set, the absent sentinel as its last value.
type Grid struct {
	Min           int
	Max           int
	IncludeAbsent bool
}

// DefaultGrid returns [-26, 26] plus absent.
func DefaultGrid() Grid {
	return Grid{Min: -DefaultBound, Max: DefaultBound, IncludeAbsent: true}
}

// Validate reports whether the grid describes a non-empty range.
func (g Grid) Validate() error {
	if g.Min > g.Max {
		return fmt.Errorf("%w: min %d is greater than max %d", ErrInvalidGrid, g.Min, g.Max)
	}
	return nil
}

// Values lists the values a single component takes, in iteration order.
func (g Grid) Values() []slice.Index {
	n := 0
	if g.Max >= g.Min {
		n = g.Max - g.Min + 1
	}
	out := make([]slice.Index, 0, n+1)
	for v := g.Min; v <= g.Max; v++ {
		out = append(out, slice.At(v))
	}
	if g.IncludeAbsent {
		out = append(out, slice.Absent())
	}
	return out
}

// stepValues is Values without an explicit zero.
func (g Grid) stepValues() []slice.Index {
	values := g.Values()
	out := values[:0:0]
	for _, v := range values {
		if n, ok := v.Get(); ok && n == 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Size returns the number of specs Specs would produce.
func (g Grid) Size() int {
	n := len(g.Values())
	return n * n * len(g.stepValues())
}

// Specs enumerates every spec of the grid, start outer, stop middle, step
// inner. Specs with an explicit zero step are skipped.
func (g Grid) Specs() []slice.Spec {
	values := g.Values()
	steps := g.stepValues()
	out := make([]slice.Spec, 0, len(values)*len(values)*len(steps))
	for _, start := range values {
		for _, stop := range values {
			for _, step := range steps {
				out = append(out, slice.NewSpec(start, stop, step))
			}
		}
	}
	return out
}
