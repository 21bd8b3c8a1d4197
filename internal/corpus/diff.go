package corpus

import (
	"fmt"
	"slices"
)

// Mismatch describes one position where two corpora disagree.
type Mismatch struct {
	Position int
	Want     *Entry
	Got      *Entry
}

func (m Mismatch) String() string {
	switch {
	case m.Want == nil:
		return fmt.Sprintf("entry %d: unexpected %s -> %v", m.Position, m.Got.Spec, m.Got.Result)
	case m.Got == nil:
		return fmt.Sprintf("entry %d: missing %s -> %v", m.Position, m.Want.Spec, m.Want.Result)
	case m.Want.Spec != m.Got.Spec:
		return fmt.Sprintf("entry %d: spec %s, want %s", m.Position, m.Got.Spec, m.Want.Spec)
	default:
		return fmt.Sprintf("entry %d: %s -> %v, want %v", m.Position, m.Got.Spec, m.Got.Result, m.Want.Result)
	}
}

// Diff compares want and got entry for entry and returns at most limit
// mismatches. A limit of 0 or less returns all of them.
func Diff(want, got Corpus, limit int) []Mismatch {
	var out []Mismatch
	full := func() bool { return limit > 0 && len(out) >= limit }

	n := max(len(want.Entries), len(got.Entries))
	for i := 0; i < n && !full(); i++ {
		var w, g *Entry
		if i < len(want.Entries) {
			w = &want.Entries[i]
		}
		if i < len(got.Entries) {
			g = &got.Entries[i]
		}
		if w != nil && g != nil && w.Spec == g.Spec && slices.Equal(w.Result, g.Result) {
			continue
		}
		out = append(out, Mismatch{Position: i, Want: w, Got: g})
	}
	return out
}

// Equal reports whether two corpora hold the same entries in the same order.
func Equal(a, b Corpus) bool {
	return len(Diff(a, b, 1)) == 0
}
