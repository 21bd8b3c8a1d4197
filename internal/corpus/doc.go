// Package corpus builds the slice test-vector corpus.
//
// A corpus pairs every Spec of a bounded Grid with the result of applying it
// to the fixed reference array. Entries are produced in a fixed nested order
// (start outer, stop middle, step inner) so that serialized output is
// reproducible byte for byte.
//
// # Core Types
//
// Grid: the bounded range of slice components, plus the absent sentinel.
// Entry: one Spec and its expected result.
// Corpus: the ordered list of all entries for a Grid.
//
// Build may compute entries on several workers; the merged Corpus order is
// independent of scheduling.
package corpus
