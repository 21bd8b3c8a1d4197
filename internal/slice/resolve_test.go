package slice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var five = []int{-11, 31, -93, 28, -24}

func TestApply_ConcreteScenarios(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		want []int
	}{
		{"contiguous", NewSpec(At(1), At(4), Absent()), []int{31, -93, 28}},
		{"reverse by two", NewSpec(Absent(), Absent(), At(-2)), []int{-24, -93, -11}},
		{"full reversal via negative bounds", NewSpec(At(-1), At(-6), At(-1)), []int{-24, 28, -93, 31, -11}},
		{"backward start clamps to last", NewSpec(At(10), At(0), At(-1)), []int{-24, 28, -93, 31}},
		{"forward start clamps to zero", NewSpec(At(-100), At(2), Absent()), []int{-11, 31}},
		{"step wider than array", NewSpec(Absent(), Absent(), At(10)), []int{-11}},
		{"backward step wider than array", NewSpec(Absent(), Absent(), At(-10)), []int{-24}},
		{"crossing bounds", NewSpec(At(3), At(1), Absent()), []int{}},
		{"backward from zero", NewSpec(At(0), At(-1), At(-1)), []int{}},
		{"backward stop clamps before first", NewSpec(Absent(), At(-100), At(-1)), []int{-24, 28, -93, 31, -11}},
		{"negative start only", NewSpec(At(-3), Absent(), Absent()), []int{-93, 28, -24}},
		{"backward to index one", NewSpec(Absent(), At(0), At(-1)), []int{-24, 28, -93, 31}},
		{"explicit zero is not absent", NewSpec(At(0), Absent(), At(-1)), []int{-11}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(five, tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "spec %s", tc.spec)
		})
	}
}

func TestApply_EmptyArray(t *testing.T) {
	for _, step := range []Index{Absent(), At(1), At(-1), At(3), At(-3)} {
		got, err := Apply([]int{}, NewSpec(Absent(), Absent(), step))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestApply_DoesNotAliasInput(t *testing.T) {
	in := []int{1, 2, 3}
	out, err := Apply(in, NewSpec(Absent(), Absent(), Absent()))
	require.NoError(t, err)
	out[0] = 99
	assert.Equal(t, 1, in[0])
}

func TestBounds_ZeroStepRejected(t *testing.T) {
	_, _, _, err := Bounds(5, NewSpec(At(1), At(2), At(0)))
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = Indices(5, NewSpec(Absent(), Absent(), At(0)))
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = Apply(five, NewSpec(Absent(), Absent(), At(0)))
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = Len(5, NewSpec(Absent(), Absent(), At(0)))
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestBounds_NegativeLengthRejected(t *testing.T) {
	_, _, _, err := Bounds(-1, Spec{})
	assert.ErrorIs(t, err, ErrNegativeLength)
}

func TestBounds_Defaults(t *testing.T) {
	start, stop, step, err := Bounds(7, Spec{})
	require.NoError(t, err)
	assert.Equal(t, [3]int{0, 7, 1}, [3]int{start, stop, step})

	start, stop, step, err = Bounds(7, NewSpec(Absent(), Absent(), At(-1)))
	require.NoError(t, err)
	assert.Equal(t, [3]int{6, -1, -1}, [3]int{start, stop, step})
}

const refLen = 25

func grid() []Index {
	out := make([]Index, 0, 54)
	for v := -26; v <= 26; v++ {
		out = append(out, At(v))
	}
	return append(out, Absent())
}

func TestIndices_GridProperties(t *testing.T) {
	values := grid()
	for _, start := range values {
		for _, stop := range values {
			for _, step := range values {
				if v, ok := step.Get(); ok && v == 0 {
					continue
				}
				spec := NewSpec(start, stop, step)
				idx, err := Indices(refLen, spec)
				require.NoError(t, err, spec.String())
				require.LessOrEqual(t, len(idx), refLen, spec.String())

				n, err := Len(refLen, spec)
				require.NoError(t, err)
				require.Equal(t, n, len(idx), spec.String())

				s := 1
				if v, ok := step.Get(); ok {
					s = v
				}
				for k, i := range idx {
					require.True(t, i >= 0 && i < refLen, "index %d out of range for %s", i, spec)
					if k > 0 {
						require.Equal(t, s, i-idx[k-1], spec.String())
					}
				}
			}
		}
	}
}

func sequence(from, to, step int) []int {
	out := []int{}
	if step > 0 {
		for i := from; i < to; i += step {
			out = append(out, i)
		}
		return out
	}
	for i := from; i > to; i += step {
		out = append(out, i)
	}
	return out
}

func TestIndices_IdentityAndReversal(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, refLen} {
		got, err := Indices(n, NewSpec(Absent(), Absent(), At(1)))
		require.NoError(t, err)
		assert.Equal(t, sequence(0, n, 1), got)

		got, err = Indices(n, NewSpec(Absent(), Absent(), At(-1)))
		require.NoError(t, err)
		assert.Equal(t, sequence(n-1, -1, -1), got)
	}
}

func TestIndices_Clamping(t *testing.T) {
	got, err := Indices(refLen, NewSpec(At(1000), Absent(), At(1)))
	require.NoError(t, err)
	assert.Empty(t, got)

	low, err := Indices(refLen, NewSpec(At(-1000), Absent(), At(1)))
	require.NoError(t, err)
	all, err := Indices(refLen, NewSpec(Absent(), Absent(), At(1)))
	require.NoError(t, err)
	assert.Equal(t, all, low)
}

func TestIndices_BackwardMirrorsForward(t *testing.T) {
	for start := 0; start < refLen; start++ {
		for stop := 0; stop < refLen; stop++ {
			back, err := Indices(refLen, NewSpec(At(start), At(stop), At(-1)))
			require.NoError(t, err)
			fwd, err := Indices(refLen, NewSpec(At(stop+1), At(start+1), At(1)))
			require.NoError(t, err)

			reversed := make([]int, len(back))
			for i, v := range back {
				reversed[len(back)-1-i] = v
			}
			require.Equal(t, fwd, reversed, "start=%d stop=%d", start, stop)
		}
	}
}
