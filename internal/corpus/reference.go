package corpus

// reference is the fixed array every vector is sliced from. It is never
// handed out directly; Reference returns a copy.
var reference = [...]int{
	-11, 31, -93, 28, -24,
	67, -72, -50, 69, 60,
	-20, -38, 53, 100, -98,
	90, -27, 75, -26, 98,
	-28, -63, 68, -22, -49,
}

// ReferenceLen is the number of elements in the reference array.
const ReferenceLen = len(reference)

// Reference returns a fresh copy of the reference array.
func Reference() []int {
	out := make([]int, len(reference))
	copy(out, reference[:])
	return out
}
