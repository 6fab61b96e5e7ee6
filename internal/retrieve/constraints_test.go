package retrieve

import (
	"math"
	"testing"
)

func block(parentID string, children ...ChildSnippet) ContextBlock {
	return ContextBlock{ParentID: parentID, ParentText: "parent text", Children: children}
}

func snippet(id, text string, dist float64) ChildSnippet {
	return ChildSnippet{
		ChunkID:  id,
		Text:     text,
		Distance: dist,
		Meta:     map[string]string{"doc_title": "Kyoto Guide"},
	}
}

func TestFlatten_ScoresFromDistance(t *testing.T) {
	blocks := []ContextBlock{
		block("p1", snippet("c1", "near", 0.25), snippet("c2", "far", 1.5)),
	}
	res := Flatten("temples", blocks)

	if len(res.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(res.Chunks))
	}
	if got := res.Chunks[0].Score; math.Abs(got-0.75) > 1e-9 {
		t.Errorf("expected score 0.75, got %v", got)
	}
	// Distances past 1.0 clamp to zero rather than going negative.
	if res.Chunks[1].Score != 0 {
		t.Errorf("expected clamped score 0, got %v", res.Chunks[1].Score)
	}
	if res.Chunks[0].Title != "Kyoto Guide" {
		t.Errorf("title not carried from metadata: %q", res.Chunks[0].Title)
	}
	if res.Chunks[0].ParentID != "p1" {
		t.Errorf("parent id not carried: %q", res.Chunks[0].ParentID)
	}
}

func TestApplyHardConstraints_SimilarityFloor(t *testing.T) {
	res := Result{Query: "q", Chunks: []ResultChunk{
		{ChunkID: "keep", Score: 0.5},
		{ChunkID: "drop", Score: 0.1},
	}}
	out, report := ApplyHardConstraints(res, ConstraintSpec{MinSimilarity: 0.2})

	if len(out.Chunks) != 1 || out.Chunks[0].ChunkID != "keep" {
		t.Fatalf("floor filter wrong: %+v", out.Chunks)
	}
	if report.RemovedByLowScore != 1 {
		t.Errorf("expected 1 low-score removal, got %d", report.RemovedByLowScore)
	}
}

func TestApplyHardConstraints_DestinationRequired(t *testing.T) {
	res := Result{Chunks: []ResultChunk{
		{ChunkID: "match-text", Text: "The KYOTO station area is walkable.", Score: 0.8},
		{ChunkID: "match-title", Title: "Kyoto Guide", Text: "Temples open early.", Score: 0.8},
		{ChunkID: "miss", Title: "Osaka", Text: "Street food everywhere.", Score: 0.8},
	}}
	spec := ConstraintSpec{Destination: "kyoto", DestinationRequired: true}
	out, report := ApplyHardConstraints(res, spec)

	if len(out.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(out.Chunks), out.Chunks)
	}
	if report.RemovedByDestination != 1 {
		t.Errorf("expected 1 destination removal, got %d", report.RemovedByDestination)
	}
}

func TestApplyHardConstraints_DestinationNotRequired(t *testing.T) {
	res := Result{Chunks: []ResultChunk{
		{ChunkID: "c1", Title: "Osaka", Text: "Street food.", Score: 0.8},
	}}
	spec := ConstraintSpec{Destination: "kyoto", DestinationRequired: false}
	out, _ := ApplyHardConstraints(res, spec)
	if len(out.Chunks) != 1 {
		t.Error("destination must only filter when required")
	}
}

func TestApplyHardConstraints_AvoidKeywords(t *testing.T) {
	res := Result{Chunks: []ResultChunk{
		{ChunkID: "c1", Text: "A quiet garden walk.", Score: 0.8},
		{ChunkID: "c2", Text: "The nightclub district is loud.", Score: 0.8},
	}}
	spec := ConstraintSpec{Preferences: Preferences{Avoid: []string{"nightclub", "  "}}}
	out, report := ApplyHardConstraints(res, spec)

	if len(out.Chunks) != 1 || out.Chunks[0].ChunkID != "c1" {
		t.Fatalf("avoid filter wrong: %+v", out.Chunks)
	}
	if report.RemovedByAvoid != 1 {
		t.Errorf("expected 1 avoid removal, got %d", report.RemovedByAvoid)
	}
}

func TestApplyHardConstraints_InputNotMutated(t *testing.T) {
	res := Result{Chunks: []ResultChunk{
		{ChunkID: "c1", Score: 0.05},
		{ChunkID: "c2", Score: 0.9},
	}}
	ApplyHardConstraints(res, ConstraintSpec{MinSimilarity: 0.2})
	if len(res.Chunks) != 2 {
		t.Error("input result was mutated")
	}
}

func TestRankSoftPreferences_InterestBoost(t *testing.T) {
	res := Result{Chunks: []ResultChunk{
		{ChunkID: "plain", Text: "A pleasant plaza.", Score: 0.50},
		{ChunkID: "temple", Text: "The temple grounds at dawn.", Score: 0.48},
	}}
	spec := ConstraintSpec{Preferences: Preferences{Interests: []string{"temple"}}}
	out := RankSoftPreferences(res, spec)

	// 0.48 + 0.04 interest boost beats 0.50.
	if out.Chunks[0].ChunkID != "temple" {
		t.Errorf("interest boost not applied: first is %s", out.Chunks[0].ChunkID)
	}
}

func TestRankSoftPreferences_MobilityBoosts(t *testing.T) {
	res := Result{Chunks: []ResultChunk{
		{ChunkID: "plain", Text: "A pleasant plaza.", Score: 0.50},
		{ChunkID: "walk", Text: "The old town is very walkable.", Score: 0.48},
		{ChunkID: "metro", Text: "Take the metro two stops north.", Score: 0.49},
	}}
	spec := ConstraintSpec{Mobility: Mobility{WalkingTolerance: "high", PrefersPublicTransit: true}}
	out := RankSoftPreferences(res, spec)

	// walk: 0.48+0.03=0.51, metro: 0.49+0.02=0.51, plain: 0.50.
	// Equal boosted scores keep input order: walk before metro.
	if out.Chunks[0].ChunkID != "walk" || out.Chunks[1].ChunkID != "metro" {
		t.Errorf("mobility ranking wrong: %s, %s", out.Chunks[0].ChunkID, out.Chunks[1].ChunkID)
	}
	if out.Chunks[2].ChunkID != "plain" {
		t.Errorf("unboosted chunk should rank last, got %s", out.Chunks[2].ChunkID)
	}
}

func TestRankSoftPreferences_NoWalkingBoostAtLowTolerance(t *testing.T) {
	res := Result{Chunks: []ResultChunk{
		{ChunkID: "plain", Text: "A pleasant plaza.", Score: 0.50},
		{ChunkID: "walk", Text: "The old town is very walkable.", Score: 0.48},
	}}
	spec := ConstraintSpec{Mobility: Mobility{WalkingTolerance: "low"}}
	out := RankSoftPreferences(res, spec)
	if out.Chunks[0].ChunkID != "plain" {
		t.Error("walking boost applied despite low tolerance")
	}
}
