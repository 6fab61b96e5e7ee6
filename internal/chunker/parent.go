package chunker

import (
	"strconv"
	"strings"

	"github.com/dgallion1/tripgest/internal/doctext"
)

// BuildParents groups each section's blocks into token-bounded parent
// chunks. Parents never cross a section boundary. An undersized final
// remainder is merged into the previous parent of the same section
// instead of being emitted on its own.
func BuildParents(docID, docTitle, source string, sections []doctext.Section, cfg Config) []doctext.ParentChunk {
	var parents []doctext.ParentChunk

	for si, sec := range sections {
		var buf []string
		curStart := sec.Start
		curEnd := sec.Start
		curTokens := 0

		flush := func(start, end int) {
			text := doctext.NormalizeWS(strings.Join(buf, "\n\n"))
			if text == "" {
				return
			}
			pid := doctext.StableID(docID, "P", strconv.Itoa(si),
				strconv.Itoa(start), strconv.Itoa(end), doctext.Prefix(text, 64))
			parents = append(parents, doctext.ParentChunk{
				ParentID: pid,
				Text:     text,
				Meta: doctext.Meta{
					DocID:        docID,
					DocTitle:     docTitle,
					Source:       source,
					HeadingPath:  sec.HeadingPath,
					SectionIndex: si,
					Start:        start,
					End:          end,
					EstTokens:    doctext.EstimateTokens(text),
				},
			})
		}

		for _, b := range sec.Blocks {
			piece := strings.TrimSpace(b.Text)
			if piece == "" {
				continue
			}
			pieceTokens := doctext.EstimateTokens(piece)

			// Flush before the block would push us past the hard ceiling.
			if len(buf) > 0 && curTokens+pieceTokens > cfg.ParentMaxTokens {
				flush(curStart, curEnd)
				buf = nil
				curTokens = 0
				curStart = b.Start
			}

			buf = append(buf, piece)
			curTokens += pieceTokens
			curEnd = b.End

			if curTokens >= cfg.ParentTargetTokens && curTokens >= cfg.ParentMinTokens {
				flush(curStart, curEnd)
				buf = nil
				curTokens = 0
				curStart = curEnd
			}
		}

		if len(buf) > 0 {
			text := doctext.NormalizeWS(strings.Join(buf, "\n\n"))
			last := len(parents) - 1
			if doctext.EstimateTokens(text) < cfg.ParentMinTokens &&
				last >= 0 && parents[last].Meta.SectionIndex == si {
				merged := doctext.NormalizeWS(parents[last].Text + "\n\n" + text)
				parents[last].Text = merged
				parents[last].Meta.End = curEnd
				parents[last].Meta.EstTokens = doctext.EstimateTokens(merged)
			} else {
				flush(curStart, curEnd)
			}
		}
	}

	return parents
}
