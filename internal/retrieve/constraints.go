package retrieve

import (
	"sort"
	"strings"
)

// ConstraintSpec is a structured travel-constraint specification
// applied to a finished retrieval result.
type ConstraintSpec struct {
	Destination         string      `json:"destination"`
	DestinationRequired bool        `json:"destination_required"`
	MinSimilarity       float64     `json:"min_similarity"`
	Preferences         Preferences `json:"preferences"`
	Mobility            Mobility    `json:"mobility"`
}

// Preferences holds user interest and avoid keywords.
type Preferences struct {
	Interests []string `json:"interests"`
	Avoid     []string `json:"avoid"`
}

// Mobility describes how the traveler gets around.
type Mobility struct {
	WalkingTolerance     string `json:"walking_tolerance"` // low | medium | high
	PrefersPublicTransit bool   `json:"prefers_public_transit"`
}

// ResultChunk is one retrieved child chunk flattened out of a context
// block. Score is similarity: higher is better.
type ResultChunk struct {
	ChunkID  string  `json:"chunk_id"`
	ParentID string  `json:"parent_id"`
	Title    string  `json:"title"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

// Result is a flat, filterable view of assembled context blocks.
type Result struct {
	Query  string        `json:"query"`
	Chunks []ResultChunk `json:"chunks"`
}

// FilterReport counts what the hard pass removed.
type FilterReport struct {
	RemovedByLowScore    int `json:"removed_by_low_score"`
	RemovedByDestination int `json:"removed_by_destination"`
	RemovedByAvoid       int `json:"removed_by_avoid"`
}

// Soft re-rank boost increments.
const (
	interestBoost = 0.04
	walkingBoost  = 0.03
	transitBoost  = 0.02
)

var (
	walkingWords = []string{"walkable", "walking", "on foot", "stroll"}
	transitWords = []string{"subway", "metro", "train", "transit", "station"}
)

// Flatten converts assembled context blocks into a Result, mapping
// each child's distance to a similarity score.
func Flatten(query string, blocks []ContextBlock) Result {
	res := Result{Query: query}
	for _, b := range blocks {
		for _, c := range b.Children {
			score := 1 - effectiveDistance(c.Distance)
			if score < 0 {
				score = 0
			}
			res.Chunks = append(res.Chunks, ResultChunk{
				ChunkID:  c.ChunkID,
				ParentID: b.ParentID,
				Title:    c.Meta["doc_title"],
				Text:     c.Text,
				Score:    score,
			})
		}
	}
	return res
}

// ApplyHardConstraints drops chunks below the similarity floor, chunks
// not mentioning a required destination, and chunks matching an avoid
// keyword. It returns a new Result; the input is not mutated.
func ApplyHardConstraints(res Result, spec ConstraintSpec) (Result, FilterReport) {
	var report FilterReport

	dest := strings.TrimSpace(spec.Destination)
	avoid := nonEmpty(spec.Preferences.Avoid)

	out := Result{Query: res.Query}
	for _, ch := range res.Chunks {
		if ch.Score < spec.MinSimilarity {
			report.RemovedByLowScore++
			continue
		}
		if spec.DestinationRequired && dest != "" {
			hay := ch.Title + "\n" + ch.Text
			if !strings.Contains(normText(hay), normText(dest)) {
				report.RemovedByDestination++
				continue
			}
		}
		if len(avoid) > 0 && (containsAny(ch.Text, avoid) || containsAny(ch.Title, avoid)) {
			report.RemovedByAvoid++
			continue
		}
		out.Chunks = append(out.Chunks, ch)
	}
	return out, report
}

// RankSoftPreferences re-ranks chunks by score plus small boosts for
// matched interests and mobility vocabulary. It returns a new Result.
func RankSoftPreferences(res Result, spec ConstraintSpec) Result {
	interests := nonEmpty(spec.Preferences.Interests)

	boost := func(ch ResultChunk) float64 {
		b := 0.0
		txt := normText(ch.Text)
		for _, interest := range interests {
			if strings.Contains(txt, normText(interest)) {
				b += interestBoost
			}
		}
		if spec.Mobility.WalkingTolerance == "high" && containsAnyNorm(txt, walkingWords) {
			b += walkingBoost
		}
		if spec.Mobility.PrefersPublicTransit && containsAnyNorm(txt, transitWords) {
			b += transitBoost
		}
		return b
	}

	out := Result{Query: res.Query, Chunks: append([]ResultChunk(nil), res.Chunks...)}
	sort.SliceStable(out.Chunks, func(i, j int) bool {
		return out.Chunks[i].Score+boost(out.Chunks[i]) > out.Chunks[j].Score+boost(out.Chunks[j])
	})
	return out
}

// normText lowercases and collapses whitespace for substring matching.
func normText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func containsAny(text string, needles []string) bool {
	t := normText(text)
	for _, n := range needles {
		if n2 := normText(n); n2 != "" && strings.Contains(t, n2) {
			return true
		}
	}
	return false
}

// containsAnyNorm assumes text is already normalized.
func containsAnyNorm(t string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(t, n) {
			return true
		}
	}
	return false
}

func nonEmpty(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
