package chunker

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/tripgest/internal/classify"
	"github.com/dgallion1/tripgest/internal/doctext"
)

const (
	// Soft cap when splitting long paragraphs into sentence groups.
	subUnitMaxTokens = 280
	// Paragraphs with more sentences than this get split into sub-units.
	paragraphSentences = 3
)

// unit is a classified semantic unit prior to packing.
type unit struct {
	ctype doctext.ChunkType
	text  string
	meta  doctext.Meta
}

// BuildChildren classifies each section's blocks, packs them into
// type-coherent token-bounded child chunks, applies sentence overlap to
// fact/narrative chunks, and links every child to a parent chunk.
func BuildChildren(docID, docTitle, source string, sections []doctext.Section, parents []doctext.ParentChunk, cfg Config) []doctext.ChildChunk {
	bySection := make(map[int][]doctext.ParentChunk)
	for _, p := range parents {
		bySection[p.Meta.SectionIndex] = append(bySection[p.Meta.SectionIndex], p)
	}
	for si := range bySection {
		ps := bySection[si]
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Meta.Start < ps[j].Meta.Start })
	}

	var children []doctext.ChildChunk
	for si, sec := range sections {
		units := sectionUnits(docID, docTitle, source, sec, si)
		packed := packUnits(units, cfg)
		packed = applyOverlap(packed, cfg.OverlapSentences)

		secParents := bySection[si]
		for ci, u := range packed {
			pid := linkParent(secParents, u.meta.Start, u.meta.End, docID, si)
			id := doctext.StableID(docID, "C", strconv.Itoa(si), strconv.Itoa(ci),
				string(u.ctype), doctext.Prefix(u.text, 64))

			meta := u.meta
			meta.ChunkType = u.ctype
			meta.ParentID = pid
			meta.EstTokens = doctext.EstimateTokens(u.text)

			children = append(children, doctext.ChildChunk{
				ChunkID:  id,
				ParentID: pid,
				Text:     u.text,
				Type:     u.ctype,
				Meta:     meta,
			})
		}
	}
	return children
}

// sectionUnits turns one section's blocks into classified units. Long
// fact/narrative paragraphs are split into sentence groups so no unit
// silently exceeds the soft size target.
func sectionUnits(docID, docTitle, source string, sec doctext.Section, si int) []unit {
	var units []unit
	for bi, b := range sec.Blocks {
		raw := strings.TrimSpace(b.Text)
		if raw == "" {
			continue
		}
		ctype := classify.Classify(raw, b.Kind)
		meta := doctext.Meta{
			DocID:        docID,
			DocTitle:     docTitle,
			Source:       source,
			HeadingPath:  sec.HeadingPath,
			SectionIndex: si,
			BlockIndex:   bi,
			BlockKind:    b.Kind,
			Start:        b.Start,
			End:          b.End,
		}

		if b.Kind == doctext.BlockParagraph &&
			(ctype == doctext.TypeFact || ctype == doctext.TypeNarrative) {
			sents := doctext.SplitSentences(raw)
			if len(sents) > paragraphSentences {
				units = append(units, groupSentences(ctype, sents, meta)...)
				continue
			}
		}
		units = append(units, unit{ctype: ctype, text: raw, meta: meta})
	}
	return units
}

// groupSentences packs whole sentences into sub-units of roughly
// subUnitMaxTokens each.
func groupSentences(ctype doctext.ChunkType, sents []string, meta doctext.Meta) []unit {
	var out []unit
	var buf []string
	tokens := 0
	for _, s := range sents {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		st := doctext.EstimateTokens(s)
		if len(buf) > 0 && tokens+st > subUnitMaxTokens {
			out = append(out, unit{ctype: ctype, text: strings.Join(buf, " "), meta: meta})
			buf = nil
			tokens = 0
		}
		buf = append(buf, s)
		tokens += st
	}
	if len(buf) > 0 {
		out = append(out, unit{ctype: ctype, text: strings.Join(buf, " "), meta: meta})
	}
	return out
}

// packUnits merges fact/narrative units of the same type into
// token-bounded chunks. Constraint, table and code units are atomic:
// they flush the buffer and are emitted alone, never merged.
func packUnits(units []unit, cfg Config) []unit {
	var out []unit
	var cur *unit
	curTokens := 0

	flush := func() {
		if cur == nil {
			return
		}
		cur.text = doctext.NormalizeWS(cur.text)
		out = append(out, *cur)
		cur = nil
		curTokens = 0
	}

	for _, u := range units {
		text := strings.TrimSpace(u.text)
		if text == "" {
			continue
		}
		tokens := doctext.EstimateTokens(text)

		switch u.ctype {
		case doctext.TypeConstraint:
			flush()
			out = append(out, unit{ctype: u.ctype, text: doctext.NormalizeWS(text), meta: u.meta})
			continue
		case doctext.TypeTable, doctext.TypeCode:
			flush()
			out = append(out, unit{ctype: u.ctype, text: text, meta: u.meta})
			continue
		}

		if cur == nil {
			c := unit{ctype: u.ctype, text: text, meta: u.meta}
			cur = &c
			curTokens = tokens
			continue
		}

		// A type change or a ceiling hit forces a flush before the new
		// unit starts its own buffer.
		if cur.ctype != u.ctype || curTokens+tokens > cfg.ChildMaxTokens {
			flush()
			c := unit{ctype: u.ctype, text: text, meta: u.meta}
			cur = &c
			curTokens = tokens
			continue
		}

		cur.text += "\n\n" + text
		cur.meta.End = u.meta.End
		curTokens += tokens

		if curTokens >= cfg.ChildTargetTokens && curTokens >= cfg.ChildMinTokens {
			flush()
		}
	}
	flush()
	return out
}

// applyOverlap prepends the trailing sentences of each fact/narrative
// chunk to the next fact/narrative chunk. Atomic chunk types are hard
// semantic boundaries and reset the chain. Overlap changes only the
// receiving chunk's text, never its type or metadata range.
func applyOverlap(chunks []unit, overlap int) []unit {
	if overlap <= 0 {
		return chunks
	}
	out := make([]unit, 0, len(chunks))
	var tail []string
	for _, c := range chunks {
		switch c.ctype {
		case doctext.TypeConstraint, doctext.TypeTable, doctext.TypeCode:
			tail = nil
			out = append(out, c)
			continue
		}

		sents := doctext.SplitSentences(c.text)
		if len(tail) > 0 {
			merged := make([]string, 0, len(tail)+len(sents))
			merged = append(merged, tail...)
			merged = append(merged, sents...)
			c.text = doctext.NormalizeWS(strings.Join(merged, " "))
		}
		out = append(out, c)

		n := overlap
		if n > len(sents) {
			n = len(sents)
		}
		if n > 0 {
			tail = append([]string(nil), sents[len(sents)-n:]...)
		} else {
			tail = nil
		}
	}
	return out
}
