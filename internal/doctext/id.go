package doctext

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// idLen is the hex truncation length for chunk ids. 16 hex chars (64
// bits) keeps collisions negligible at corpus scale while staying
// readable in logs.
const idLen = 16

// StableID derives a deterministic id from the given parts. Identical
// parts always produce the identical id, so re-chunking the same input
// is idempotent.
func StableID(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "||")))
	return hex.EncodeToString(h[:])[:idLen]
}

// Prefix returns at most n leading bytes of s. Used to bound the text
// component fed into StableID.
func Prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
