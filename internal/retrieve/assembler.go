// Package retrieve reassembles raw nearest-neighbor hits into
// answer-ready context blocks and applies travel-constraint filtering
// to finished results.
package retrieve

import (
	"context"
	"math"
	"sort"
	"strings"
)

// Hit is one nearest-neighbor result from the child index. Distance is
// "lower is better"; a NaN or +Inf distance sorts as worst.
type Hit struct {
	ChunkID  string            `json:"chunk_id"`
	Text     string            `json:"text"`
	Meta     map[string]string `json:"meta"`
	Distance float64           `json:"distance"`
}

// ChildSnippet is a ranked child hit inside a context block.
type ChildSnippet struct {
	ChunkID   string            `json:"chunk_id"`
	ChunkType string            `json:"chunk_type"`
	Text      string            `json:"text"`
	Distance  float64           `json:"distance"`
	Meta      map[string]string `json:"meta"`
}

// ContextBlock pairs a parent's expanded text with its best child
// snippets. Blocks are produced fresh per query and never persisted.
type ContextBlock struct {
	ParentID    string         `json:"parent_id"`
	HeadingPath string         `json:"heading_path"`
	ParentText  string         `json:"parent_text"`
	Children    []ChildSnippet `json:"children"`
}

// ParentGetter is the read side of the parent store. A missing id is
// reported through found=false and is not an error.
type ParentGetter interface {
	Get(ctx context.Context, parentID string) (text string, found bool, err error)
}

const (
	// Text prefix length used for duplicate detection.
	dedupPrefixLen = 200
	// Fallback parent bucket for hits missing a parent_id.
	unknownParent = "UNKNOWN_PARENT"

	defaultPerParentChildren = 3
)

// typePriority orders child snippets within a block: rules first, then
// concrete figures, then structured content, prose last.
var typePriority = map[string]int{
	"constraint": 0,
	"fact":       1,
	"table":      2,
	"code":       3,
	"narrative":  4,
}

// Assemble deduplicates the hit list, groups it by parent, ranks each
// group by (type priority, distance), expands each group with the
// parent's full text, and orders the resulting blocks by their best
// child distance. Output is fully deterministic for identical input.
func Assemble(ctx context.Context, hits []Hit, parents ParentGetter, perParentChildren int) ([]ContextBlock, error) {
	if perParentChildren <= 0 {
		perParentChildren = defaultPerParentChildren
	}

	hits = dedup(hits)

	grouped := make(map[string][]Hit)
	var order []string
	for _, h := range hits {
		pid := parentID(h)
		if _, seen := grouped[pid]; !seen {
			order = append(order, pid)
		}
		grouped[pid] = append(grouped[pid], h)
	}

	var blocks []ContextBlock
	for _, pid := range order {
		group := grouped[pid]
		sort.SliceStable(group, func(i, j int) bool {
			pi, pj := priorityOf(group[i]), priorityOf(group[j])
			if pi != pj {
				return pi < pj
			}
			return effectiveDistance(group[i].Distance) < effectiveDistance(group[j].Distance)
		})

		parentText := ""
		if pid != unknownParent {
			text, found, err := parents.Get(ctx, pid)
			if err != nil {
				return nil, err
			}
			if found {
				parentText = text
			}
		}

		n := perParentChildren
		if n > len(group) {
			n = len(group)
		}
		children := make([]ChildSnippet, 0, n)
		for _, h := range group[:n] {
			children = append(children, ChildSnippet{
				ChunkID:   h.ChunkID,
				ChunkType: h.Meta["chunk_type"],
				Text:      h.Text,
				Distance:  h.Distance,
				Meta:      h.Meta,
			})
		}

		blocks = append(blocks, ContextBlock{
			ParentID:    pid,
			HeadingPath: group[0].Meta["heading_path"],
			ParentText:  parentText,
			Children:    children,
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return minChildDistance(blocks[i]) < minChildDistance(blocks[j])
	})
	return blocks, nil
}

// dedup drops hits matching an earlier hit on (parent id, offsets, text
// prefix), keeping first occurrences in order.
func dedup(hits []Hit) []Hit {
	type key struct {
		parentID string
		start    string
		end      string
		prefix   string
	}
	seen := make(map[key]bool, len(hits))
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		k := key{
			parentID: parentID(h),
			start:    h.Meta["start_char"],
			end:      h.Meta["end_char"],
			prefix:   prefixOf(strings.TrimSpace(h.Text)),
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, h)
	}
	return out
}

func parentID(h Hit) string {
	if pid := h.Meta["parent_id"]; pid != "" {
		return pid
	}
	return unknownParent
}

func priorityOf(h Hit) int {
	if p, ok := typePriority[h.Meta["chunk_type"]]; ok {
		return p
	}
	return 9
}

func effectiveDistance(d float64) float64 {
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}

func minChildDistance(b ContextBlock) float64 {
	best := math.Inf(1)
	for _, c := range b.Children {
		if d := effectiveDistance(c.Distance); d < best {
			best = d
		}
	}
	return best
}

func prefixOf(s string) string {
	if len(s) > dedupPrefixLen {
		return s[:dedupPrefixLen]
	}
	return s
}
