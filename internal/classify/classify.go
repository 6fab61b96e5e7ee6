// Package classify assigns semantic chunk types to parsed blocks using
// deterministic pattern matching. The pattern tables are process-wide
// read-only configuration, compiled once before first use.
package classify

import (
	"strings"

	"github.com/dgallion1/tripgest/internal/doctext"
)

// Classify maps a block's text and structural kind to a chunk type.
// Rule order, first match wins: table and code kinds keep their kind;
// constraint signals beat fact signals; everything else is narrative.
func Classify(text string, kind doctext.BlockKind) doctext.ChunkType {
	switch kind {
	case doctext.BlockTable:
		return doctext.TypeTable
	case doctext.BlockCode:
		return doctext.TypeCode
	}

	t := strings.TrimSpace(text)
	if t == "" {
		return doctext.TypeNarrative
	}
	if constraintRE.MatchString(t) {
		return doctext.TypeConstraint
	}
	if factRE.MatchString(t) {
		return doctext.TypeFact
	}
	return doctext.TypeNarrative
}
