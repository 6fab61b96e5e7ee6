// Package chunker builds the two linked chunk granularities from
// parsed sections: large parent chunks for context expansion and small
// child chunks for similarity search.
package chunker

import (
	"strings"

	"github.com/dgallion1/tripgest/internal/doctext"
	"github.com/dgallion1/tripgest/internal/parser"
)

// ChunkDocument runs the full offline path for one document: parse the
// text into sections, build parent chunks, then build and link child
// chunks. Chunking the same input with the same config produces
// identical ids, text and metadata.
func ChunkDocument(docID, docTitle, source, text string, cfg Config) ([]doctext.ParentChunk, []doctext.ChildChunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")

	sections := parser.Parse(cleaned, cfg.MaxHeadingDepth)
	parents := BuildParents(docID, docTitle, source, sections, cfg)
	children := BuildChildren(docID, docTitle, source, sections, parents, cfg)
	return parents, children, nil
}
