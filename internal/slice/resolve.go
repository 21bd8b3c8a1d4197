package slice

import "errors"

var (
	// ErrInvalidStep is returned for a Spec whose step is explicitly 0.
	ErrInvalidStep = errors.New("slice step cannot be zero")

	// ErrNegativeLength is returned when the sequence length is below zero.
	ErrNegativeLength = errors.New("sequence length cannot be negative")
)

// Bounds resolves spec against a sequence of the given length and returns the
// concrete start, stop and step.
//
// For a forward step the results satisfy 0 <= start, stop <= length. For a
// backward step they satisfy -1 <= start, stop <= length-1, where -1 means
// "before the first element".
func Bounds(length int, spec Spec) (start, stop, step int, err error) {
	if length < 0 {
		return 0, 0, 0, ErrNegativeLength
	}

	step = 1
	if v, ok := spec.Step.Get(); ok {
		if v == 0 {
			return 0, 0, 0, ErrInvalidStep
		}
		step = v
	}

	lower, upper := 0, length
	if step < 0 {
		lower, upper = -1, length-1
	}

	if step > 0 {
		start = clamp(spec.Start, length, lower, upper, lower)
		stop = clamp(spec.Stop, length, lower, upper, upper)
	} else {
		start = clamp(spec.Start, length, lower, upper, upper)
		stop = clamp(spec.Stop, length, lower, upper, lower)
	}
	return start, stop, step, nil
}

// clamp resolves a single bound. Negative values are offset by length once.
func clamp(i Index, length, lower, upper, def int) int {
	v, ok := i.Get()
	if !ok {
		return def
	}
	if v < 0 {
		v += length
		if v < lower {
			v = lower
		}
		return v
	}
	if v > upper {
		v = upper
	}
	return v
}

// Len returns how many indices spec selects from a sequence of the given
// length.
func Len(length int, spec Spec) (int, error) {
	start, stop, step, err := Bounds(length, spec)
	if err != nil {
		return 0, err
	}
	return count(start, stop, step), nil
}

func count(start, stop, step int) int {
	switch {
	case step > 0 && start < stop:
		return (stop-start-1)/step + 1
	case step < 0 && stop < start:
		return (start-stop-1)/(-step) + 1
	default:
		return 0
	}
}

// Indices returns the selected indices in traversal order. The result is
// never nil; an empty selection is an empty slice.
func Indices(length int, spec Spec) ([]int, error) {
	start, stop, step, err := Bounds(length, spec)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, count(start, stop, step))
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out, nil
}

// Apply selects the elements of values described by spec, in traversal order.
// The returned slice never aliases values and is never nil.
func Apply[T any](values []T, spec Spec) ([]T, error) {
	idx, err := Indices(len(values), spec)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(idx))
	for n, i := range idx {
		out[n] = values[i]
	}
	return out, nil
}
