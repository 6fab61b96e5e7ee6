package chunker

import (
	"strconv"

	"github.com/dgallion1/tripgest/internal/doctext"
)

// linkParent resolves the parent id for a child range. Preference
// order: the first parent in section order whose range fully covers
// [start, end); otherwise the parent with minimum gap distance to the
// range; otherwise a synthesized per-section id when the section has no
// parents at all. Every child always resolves to exactly one id.
func linkParent(parents []doctext.ParentChunk, start, end int, docID string, sectionIndex int) string {
	if len(parents) == 0 {
		return doctext.StableID(docID, "P", strconv.Itoa(sectionIndex))
	}

	for _, p := range parents {
		if start >= p.Meta.Start && end <= p.Meta.End {
			return p.ParentID
		}
	}

	// Nearest by interval distance; first encountered wins ties.
	best := parents[0].ParentID
	bestDist := -1
	for _, p := range parents {
		dist := 0
		switch {
		case end < p.Meta.Start:
			dist = p.Meta.Start - end
		case start > p.Meta.End:
			dist = start - p.Meta.End
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = p.ParentID
		}
	}
	return best
}
