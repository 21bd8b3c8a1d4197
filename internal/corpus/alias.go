package corpus

import (
	"slicevec/internal/slice"
)

// AliasZeroStart returns a copy of c in which every entry with an explicit
// start of 0 and a negative step carries the result of the matching entry
// whose start is absent (same stop and step).
//
// Some slice implementations cannot tell a zero start from an omitted one when
// walking backwards; the aliased corpus lets them be validated against the
// rest of the vectors. The second return value is the number of entries that
// were rewritten. Entries without a start-absent partner are left unchanged.
func AliasZeroStart(c Corpus) (Corpus, int) {
	type key struct{ stop, step slice.Index }

	absent := make(map[key][]int)
	for _, e := range c.Entries {
		if !e.Spec.Start.IsAbsent() || !backward(e.Spec) {
			continue
		}
		absent[key{e.Spec.Stop, e.Spec.Step}] = e.Result
	}

	out := Corpus{Entries: make([]Entry, len(c.Entries))}
	copy(out.Entries, c.Entries)

	rewritten := 0
	for i, e := range out.Entries {
		if v, ok := e.Spec.Start.Get(); !ok || v != 0 || !backward(e.Spec) {
			continue
		}
		res, ok := absent[key{e.Spec.Stop, e.Spec.Step}]
		if !ok {
			continue
		}
		out.Entries[i].Result = append([]int(nil), res...)
		if out.Entries[i].Result == nil {
			out.Entries[i].Result = []int{}
		}
		rewritten++
	}
	return out, rewritten
}

func backward(s slice.Spec) bool {
	v, ok := s.Step.Get()
	return ok && v < 0
}
