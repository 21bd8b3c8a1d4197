package corpus

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// Fingerprint identifies the inputs a corpus is generated from.
//
// Identical grid bounds, reference values and aliasing mode always produce the
// same Fingerprint; any change to them produces a different one. The corpus
// content itself is not hashed: it is a pure function of these inputs.
type Fingerprint string

// String returns the hex digest.
func (f Fingerprint) String() string { return string(f) }

// ComputeFingerprint hashes, in order and length-prefixed:
//  1. grid Min, Max and IncludeAbsent
//  2. the reference values
//  3. whether zero-start aliasing is applied
func ComputeFingerprint(grid Grid, values []int, aliasZeroStart bool) Fingerprint {
	h := sha256.New()

	writeInt(h, int64(grid.Min))
	writeInt(h, int64(grid.Max))
	writeBool(h, grid.IncludeAbsent)

	writeInt(h, int64(len(values)))
	for _, v := range values {
		writeInt(h, int64(v))
	}

	writeBool(h, aliasZeroStart)

	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

func writeInt(h hash.Hash, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	h.Write(b[:])
}

func writeBool(h hash.Hash, v bool) {
	if v {
		h.Write([]byte{1})
		return
	}
	h.Write([]byte{0})
}
