// Package vecstore is the child-chunk vector index, backed by
// chromem-go. Only child chunks live here; parent chunks are fetched by
// id from the parent store.
package vecstore

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/dgallion1/tripgest/internal/doctext"
	"github.com/dgallion1/tripgest/internal/retrieve"
)

// Index wraps one chromem collection of child chunks.
type Index struct {
	db  *chromem.DB
	col *chromem.Collection
}

// Open creates or opens the child index. With inMemory set the index
// is not persisted, which tests rely on.
func Open(path, collection string, inMemory bool) (*Index, error) {
	var (
		db  *chromem.DB
		err error
	)
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open vector db: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	return &Index{db: db, col: col}, nil
}

// Upsert writes child chunks and their vectors. vectors must be
// order-aligned with children.
func (ix *Index) Upsert(ctx context.Context, children []doctext.ChildChunk, vectors [][]float32) error {
	if len(children) != len(vectors) {
		return fmt.Errorf("vecstore: %d children but %d vectors", len(children), len(vectors))
	}
	if len(children) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(children))
	for i, c := range children {
		docs = append(docs, chromem.Document{
			ID:        c.ChunkID,
			Content:   c.Text,
			Metadata:  flattenMeta(c),
			Embedding: vectors[i],
		})
	}
	if err := ix.col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Query runs a nearest-neighbor search and returns hits with
// "lower is better" distances.
func (ix *Index) Query(ctx context.Context, vector []float32, k int, where map[string]string) ([]retrieve.Hit, error) {
	count := ix.col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := ix.col.QueryEmbedding(ctx, vector, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	hits := make([]retrieve.Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, retrieve.Hit{
			ChunkID:  r.ID,
			Text:     r.Content,
			Meta:     r.Metadata,
			Distance: 1 - float64(r.Similarity),
		})
	}
	return hits, nil
}

// DeleteDoc removes all child chunks belonging to a document. Used
// when a document is re-indexed or deleted.
func (ix *Index) DeleteDoc(ctx context.Context, docID string) error {
	if err := ix.col.Delete(ctx, map[string]string{"doc_id": docID}, nil); err != nil {
		return fmt.Errorf("delete children: %w", err)
	}
	return nil
}

// Count reports how many child chunks the index holds.
func (ix *Index) Count() int {
	return ix.col.Count()
}

// flattenMeta converts chunk metadata to the flat string map chromem
// stores, joining the heading path into a display label.
func flattenMeta(c doctext.ChildChunk) map[string]string {
	m := c.Meta
	return map[string]string{
		"doc_id":        m.DocID,
		"doc_title":     m.DocTitle,
		"source":        m.Source,
		"heading_path":  doctext.HeadingLabel(m.HeadingPath),
		"section_index": strconv.Itoa(m.SectionIndex),
		"block_index":   strconv.Itoa(m.BlockIndex),
		"block_kind":    string(m.BlockKind),
		"start_char":    strconv.Itoa(m.Start),
		"end_char":      strconv.Itoa(m.End),
		"est_tokens":    strconv.Itoa(m.EstTokens),
		"chunk_type":    string(c.Type),
		"parent_id":     c.ParentID,
	}
}
