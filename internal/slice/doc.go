// Package slice resolves extended slice specifications against a sequence
// length.
//
// A Spec is a (start, stop, step) triple where every component may be absent.
// Resolution follows the conventional extended slice rules of dynamic array
// languages:
//
//  1. An absent step is +1. An explicit step of 0 is rejected with
//     ErrInvalidStep before any index arithmetic happens.
//  2. A negative start or stop has the length added once; anything still
//     out of range is clamped, never reported as an error.
//  3. Absent start/stop default to the ends of the sequence in the traversal
//     direction, so "::-1" is a full reversal.
//  4. Indices are visited from start, advancing by step, strictly before stop.
//
// Every function in this package is pure and safe for concurrent use.
package slice
