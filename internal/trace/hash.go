package trace

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeTraceHash returns the sha256 hex digest of a canonical trace
// encoding, or "" for empty input.
func ComputeTraceHash(canonicalEncoding []byte) string {
	if len(canonicalEncoding) == 0 {
		return ""
	}
	return Digest(canonicalEncoding)
}

// Digest returns the sha256 hex digest of b. Artifact events carry it so a
// trace pins the exact bytes that were written.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
