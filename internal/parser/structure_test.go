package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/tripgest/internal/doctext"
)

func TestParse_EmptyDocument(t *testing.T) {
	sections := Parse("", 3)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	s := sections[0]
	if len(s.Blocks) != 0 || s.Start != 0 || s.End != 0 {
		t.Errorf("expected empty section spanning [0,0), got %+v", s)
	}
}

func TestParse_NoHeadings(t *testing.T) {
	text := "Just a paragraph of plain prose.\n"
	sections := Parse(text, 3)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	s := sections[0]
	if len(s.HeadingPath) != 0 {
		t.Errorf("expected empty heading path, got %v", s.HeadingPath)
	}
	if len(s.Blocks) != 1 || s.Blocks[0].Kind != doctext.BlockParagraph {
		t.Fatalf("expected one paragraph block, got %+v", s.Blocks)
	}
}

func TestParse_HeadingStack(t *testing.T) {
	text := "# Guide\n\nIntro text here.\n\n## Day 1\n\nMorning plan.\n\n## Day 2\n\nAfternoon plan.\n"
	sections := Parse(text, 3)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}

	wantPaths := [][]string{
		{"Guide"},
		{"Guide", "Day 1"},
		{"Guide", "Day 2"},
	}
	for i, want := range wantPaths {
		got := sections[i].HeadingPath
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("section %d: expected path %v, got %v", i, want, got)
		}
	}
}

func TestParse_SiblingHeadingPopsStack(t *testing.T) {
	text := "## A\n\ntext a\n\n# B\n\ntext b\n"
	sections := Parse(text, 6)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if got := sections[1].HeadingPath; len(got) != 1 || got[0] != "B" {
		t.Errorf("h1 after h2 should reset the chain, got %v", got)
	}
}

func TestParse_MaxDepthTruncation(t *testing.T) {
	text := "# A\n## B\n### C\n#### D\n\ndeep text\n"
	sections := Parse(text, 3)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	got := sections[0].HeadingPath
	if len(got) != 3 || got[2] != "C" {
		t.Errorf("expected path truncated to [A B C], got %v", got)
	}
}

func TestParse_BlockOffsets(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n"
	sections := Parse(text, 3)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	blocks := sections[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Start != 0 || blocks[0].End != len("First paragraph.\n") {
		t.Errorf("block 0 range [%d,%d)", blocks[0].Start, blocks[0].End)
	}
	// Offsets point into the original text.
	raw := text[blocks[1].Start:blocks[1].End]
	if !strings.Contains(raw, "Second paragraph.") {
		t.Errorf("block 1 offsets do not cover its text: %q", raw)
	}
}

func TestParse_CodeFence(t *testing.T) {
	text := "```\nfoo()\nbar()\n```\n\nafter\n"
	sections := Parse(text, 3)
	blocks := sections[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != doctext.BlockCode {
		t.Errorf("expected code block, got %s", blocks[0].Kind)
	}
	if !strings.Contains(blocks[0].Text, "foo()") || !strings.Contains(blocks[0].Text, "```") {
		t.Errorf("code block should keep fences and content: %q", blocks[0].Text)
	}
	// Internal newlines survive.
	if !strings.Contains(blocks[0].Text, "\n") {
		t.Error("code block lost internal newlines")
	}
}

func TestParse_UnterminatedFenceRunsToEOF(t *testing.T) {
	text := "before\n\n```\nunclosed code\nmore code\n"
	sections := Parse(text, 3)
	blocks := sections[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	code := blocks[1]
	if code.Kind != doctext.BlockCode {
		t.Fatalf("expected code block, got %s", code.Kind)
	}
	if code.End != len(text) {
		t.Errorf("unterminated fence should run to EOF: end=%d want %d", code.End, len(text))
	}
	if !strings.Contains(code.Text, "more code") {
		t.Errorf("code text missing tail: %q", code.Text)
	}
}

func TestParse_PipeTable(t *testing.T) {
	text := "| Site | Hours |\n| --- | --- |\n| Museum | 9-17 |\n\nprose after\n"
	sections := Parse(text, 3)
	blocks := sections[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != doctext.BlockTable {
		t.Errorf("expected table block, got %s", blocks[0].Kind)
	}
	if !strings.Contains(blocks[0].Text, "| Museum | 9-17 |") {
		t.Errorf("table rows lost: %q", blocks[0].Text)
	}
	if !strings.Contains(blocks[0].Text, "\n") {
		t.Error("table should preserve row newlines")
	}
}

func TestParse_Lists(t *testing.T) {
	text := "- pack sunscreen\n- bring water\n\n1. first stop\n2. second stop\n"
	sections := Parse(text, 3)
	blocks := sections[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("expected 2 list blocks, got %d", len(blocks))
	}
	for i, b := range blocks {
		if b.Kind != doctext.BlockList {
			t.Errorf("block %d: expected list, got %s", i, b.Kind)
		}
	}
	if !strings.Contains(blocks[1].Text, "second stop") {
		t.Errorf("numbered list content lost: %q", blocks[1].Text)
	}
}

func TestParse_ParagraphNormalized(t *testing.T) {
	text := "line one\nline   two\n\n"
	sections := Parse(text, 3)
	blocks := sections[0].Blocks
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "line one line two" {
		t.Errorf("paragraph not normalized: %q", blocks[0].Text)
	}
}

func TestParse_HeadingOnlySectionAbsorbed(t *testing.T) {
	// A heading with no content contributes no section of its own; the
	// next section's path reflects the chain.
	text := "# Empty Top\n## Real\n\ncontent here\n"
	sections := Parse(text, 3)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	got := sections[0].HeadingPath
	if len(got) != 2 || got[0] != "Empty Top" || got[1] != "Real" {
		t.Errorf("expected path [Empty Top Real], got %v", got)
	}
}

func TestParse_SectionRangesContiguous(t *testing.T) {
	text := "# A\n\nfirst part\n\n# B\n\nsecond part\n"
	sections := Parse(text, 3)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].End != sections[1].Start {
		t.Errorf("sections not contiguous: [%d,%d) then [%d,%d)",
			sections[0].Start, sections[0].End, sections[1].Start, sections[1].End)
	}
}
