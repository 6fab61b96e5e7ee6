// Package parser segments markdown-ish document text into sections of
// typed blocks, preserving character offsets into the original text.
package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/tripgest/internal/doctext"
)

var (
	headingRE  = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	fenceRE    = regexp.MustCompile("^```")
	tableRowRE = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	numberedRE = regexp.MustCompile(`^\s*\d+\.\s+`)
)

type heading struct {
	level int
	title string
}

// Parse scans text line by line and returns the document's sections in
// order. Heading lines (#..######) close the current section and update
// a strict ancestor chain of headings; the section's heading path is
// that chain truncated to maxDepth. A document with no headings yields
// exactly one section with an empty heading path, and an empty document
// yields one section with no blocks.
//
// Text is expected to be newline-normalized (\n only).
func Parse(text string, maxDepth int) []doctext.Section {
	if maxDepth <= 0 {
		maxDepth = 6
	}
	lines := splitLines(text)
	n := len(lines)

	var (
		sections []doctext.Section
		stack    []heading
		blocks   []doctext.Block
		path     []string
	)
	secStart := 0
	pos := 0

	// A section with no blocks is not emitted; its range is absorbed by
	// the next emitted section so that section ranges stay contiguous.
	flush := func(end int) {
		if len(blocks) == 0 {
			return
		}
		sections = append(sections, doctext.Section{
			HeadingPath: path,
			Blocks:      blocks,
			Start:       secStart,
			End:         end,
		})
		blocks = nil
		secStart = end
	}

	i := 0
	for i < n {
		line := lines[i]

		if m := headingRE.FindStringSubmatch(strings.TrimSuffix(line, "\n")); m != nil {
			flush(pos)
			level := len(m[1])
			title := doctext.NormalizeWS(m[2])
			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, heading{level: level, title: title})
			path = headingPath(stack, maxDepth)
			pos += len(line)
			i++
			continue
		}

		if fenceRE.MatchString(line) {
			b, ni, np := collectCode(lines, i, pos)
			blocks = append(blocks, b)
			i, pos = ni, np
			continue
		}

		if tableRowRE.MatchString(line) {
			b, ni, np := collectTable(lines, i, pos)
			blocks = append(blocks, b)
			i, pos = ni, np
			continue
		}

		if isListLine(line) {
			b, ni, np := collectList(lines, i, pos)
			blocks = append(blocks, b)
			i, pos = ni, np
			continue
		}

		if strings.TrimSpace(line) == "" {
			pos += len(line)
			i++
			continue
		}

		b, ni, np := collectParagraph(lines, i, pos)
		if b.Text != "" {
			blocks = append(blocks, b)
		}
		i, pos = ni, np
	}
	flush(pos)

	if len(sections) == 0 {
		sections = append(sections, doctext.Section{
			HeadingPath: nil,
			Blocks:      blocks,
			Start:       0,
			End:         len(text),
		})
	}
	return sections
}

// collectParagraph accumulates lines until a blank line or a structural
// boundary. The text is whitespace-normalized.
func collectParagraph(lines []string, i, pos int) (doctext.Block, int, int) {
	start := pos
	var buf strings.Builder
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}
		trimmed := strings.TrimSuffix(line, "\n")
		if headingRE.MatchString(trimmed) || fenceRE.MatchString(line) ||
			tableRowRE.MatchString(line) || isListLine(line) {
			break
		}
		buf.WriteString(line)
		pos += len(line)
		i++
	}
	return doctext.Block{
		Kind:  doctext.BlockParagraph,
		Text:  doctext.NormalizeWS(buf.String()),
		Start: start,
		End:   pos,
	}, i, pos
}

// collectList accumulates contiguous list-marker lines. Text is
// whitespace-normalized like paragraphs.
func collectList(lines []string, i, pos int) (doctext.Block, int, int) {
	start := pos
	var buf strings.Builder
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" || !isListLine(line) {
			break
		}
		trimmed := strings.TrimSuffix(line, "\n")
		if headingRE.MatchString(trimmed) || fenceRE.MatchString(line) || tableRowRE.MatchString(line) {
			break
		}
		buf.WriteString(line)
		pos += len(line)
		i++
	}
	return doctext.Block{
		Kind:  doctext.BlockList,
		Text:  doctext.NormalizeWS(buf.String()),
		Start: start,
		End:   pos,
	}, i, pos
}

// collectTable accumulates contiguous pipe-delimited rows, preserving
// internal newlines.
func collectTable(lines []string, i, pos int) (doctext.Block, int, int) {
	start := pos
	var buf strings.Builder
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" || !tableRowRE.MatchString(line) {
			break
		}
		buf.WriteString(line)
		pos += len(line)
		i++
	}
	return doctext.Block{
		Kind:  doctext.BlockTable,
		Text:  strings.Trim(buf.String(), "\n"),
		Start: start,
		End:   pos,
	}, i, pos
}

// collectCode accumulates a fenced block including both fences. An
// unterminated fence runs to the end of the document.
func collectCode(lines []string, i, pos int) (doctext.Block, int, int) {
	start := pos
	var buf strings.Builder
	consumed := 0
	for i < len(lines) {
		line := lines[i]
		buf.WriteString(line)
		pos += len(line)
		i++
		consumed++
		if consumed > 1 && fenceRE.MatchString(line) {
			break
		}
	}
	return doctext.Block{
		Kind:  doctext.BlockCode,
		Text:  strings.Trim(buf.String(), "\n"),
		Start: start,
		End:   pos,
	}, i, pos
}

func isListLine(line string) bool {
	t := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "* ") {
		return true
	}
	return numberedRE.MatchString(line)
}

// headingPath projects the heading stack onto a path, keeping at most
// maxDepth entries from the top of the document downward.
func headingPath(stack []heading, maxDepth int) []string {
	n := len(stack)
	if n > maxDepth {
		n = maxDepth
	}
	out := make([]string, 0, n)
	for _, h := range stack[:n] {
		out = append(out, h.title)
	}
	return out
}

// splitLines splits text into lines, each keeping its trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
