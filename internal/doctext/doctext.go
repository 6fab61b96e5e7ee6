// Package doctext holds the document data model shared by the parser,
// chunker and retrieval layers: structural blocks, sections, and the two
// chunk granularities (parent and child).
package doctext

import "strings"

// BlockKind is the structural kind of a parsed block.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
	BlockTable     BlockKind = "table"
	BlockCode      BlockKind = "code"
)

// ChunkType is the semantic category assigned to a chunk.
type ChunkType string

const (
	TypeConstraint ChunkType = "constraint"
	TypeFact       ChunkType = "fact"
	TypeNarrative  ChunkType = "narrative"
	TypeTable      ChunkType = "table"
	TypeCode       ChunkType = "code"
)

// Block is a contiguous structural unit inside a section. Offsets are
// character positions into the original document text; End is exclusive.
// Blocks are immutable once produced.
type Block struct {
	Kind  BlockKind
	Text  string
	Start int
	End   int
}

// Section groups the blocks under one heading path. Sections partition
// the document: consecutive section ranges are contiguous and do not
// overlap. A document without headings yields one section with an empty
// heading path.
type Section struct {
	HeadingPath []string
	Blocks      []Block
	Start       int
	End         int
}

// Meta carries chunk provenance. It is stored alongside both parent and
// child chunks; child-only fields are zero on parents.
type Meta struct {
	DocID        string    `json:"doc_id"`
	DocTitle     string    `json:"doc_title"`
	Source       string    `json:"source"`
	HeadingPath  []string  `json:"heading_path"`
	SectionIndex int       `json:"section_index"`
	BlockIndex   int       `json:"block_index,omitempty"`
	BlockKind    BlockKind `json:"block_kind,omitempty"`
	Start        int       `json:"start_char"`
	End          int       `json:"end_char"`
	EstTokens    int       `json:"est_tokens"`
	ChunkType    ChunkType `json:"chunk_type,omitempty"`
	ParentID     string    `json:"parent_id,omitempty"`
}

// ParentChunk is a large chunk used for context expansion at answer
// time. Parent chunks within one section are ordered, contiguous and
// non-overlapping; a parent never spans two sections.
type ParentChunk struct {
	ParentID string `json:"parent_id"`
	Text     string `json:"text"`
	Meta     Meta   `json:"meta"`
}

// ChildChunk is a small chunk used as the unit of similarity search.
// Every child references exactly one parent by id.
type ChildChunk struct {
	ChunkID  string    `json:"chunk_id"`
	ParentID string    `json:"parent_id"`
	Text     string    `json:"text"`
	Type     ChunkType `json:"chunk_type"`
	Meta     Meta      `json:"meta"`
}

// HeadingLabel renders a heading path as a single display string.
func HeadingLabel(path []string) string {
	return strings.Join(path, " > ")
}

// NormalizeWS collapses runs of whitespace to single spaces and trims
// the result.
func NormalizeWS(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
