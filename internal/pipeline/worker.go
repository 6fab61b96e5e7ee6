package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/tripgest/internal/chunker"
	"github.com/dgallion1/tripgest/internal/doctext"
	"github.com/dgallion1/tripgest/internal/embedding"
	"github.com/dgallion1/tripgest/internal/loader"
	"github.com/dgallion1/tripgest/internal/parentstore"
	"github.com/dgallion1/tripgest/internal/vecstore"
)

// Worker processes a single document indexing job.
type Worker struct {
	embedder embedding.Provider
	parents  *parentstore.Store
	index    *vecstore.Index
	log      *slog.Logger
	chunkCfg chunker.Config

	embedBatchSize     int
	maxConcurrentEmbed int
	pdfFallback        bool
}

func NewWorker(embedder embedding.Provider, ps *parentstore.Store, ix *vecstore.Index, log *slog.Logger, chunkCfg chunker.Config, batchSize, maxEmbed int, pdfFallback bool) *Worker {
	if batchSize <= 0 {
		batchSize = 32
	}
	if maxEmbed <= 0 {
		maxEmbed = 2
	}
	return &Worker{
		embedder:           embedder,
		parents:            ps,
		index:              ix,
		log:                log,
		chunkCfg:           chunkCfg,
		embedBatchSize:     batchSize,
		maxConcurrentEmbed: maxEmbed,
		pdfFallback:        pdfFallback,
	}
}

// Process runs the full indexing pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	ld, err := loader.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "loading")
		return
	}
	if p, ok := ld.(*loader.PDFLoader); ok {
		p.FallbackPdftotext = w.pdfFallback
	}

	doc, err := ld.Load(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	job.ContentHash = ContentHashHex([]byte(doc.Text))

	// Phase 1.5: Dedup check
	if !job.Force {
		existingDocID, exists, err := w.parents.LookupHash(ctx, job.ContentHash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if exists {
			log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	parents, children, err := chunker.ChunkDocument(job.DocID, doc.Title, job.Filename, doc.Text, w.chunkCfg)
	if err != nil {
		log.Error("chunking failed", "error", err)
		job.AddError(fmt.Sprintf("chunk: %s", err))
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	job.SetChunkCounts(len(parents), len(children))
	log.Info("chunked document", "parents", len(parents), "children", len(children))

	if len(children) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: Embed child chunks in batches with bounded concurrency.
	job.SetStatus(StatusEmbedding, "embedding")
	vectors, err := w.embedChildren(ctx, job, children)
	if err != nil {
		log.Error("embedding failed", "error", err)
		job.AddError(fmt.Sprintf("embed: %s", err))
		job.SetStatus(StatusFailed, "embedding")
		return
	}
	log.Info("embedding complete", "vectors", len(vectors))

	// Phase 4: Store. Re-indexing replaces the document's old chunks.
	job.SetStatus(StatusStoring, "storing")
	if job.Force {
		if err := w.index.DeleteDoc(ctx, job.DocID); err != nil {
			log.Warn("stale child cleanup failed", "error", err)
		}
		if err := w.parents.DeleteDoc(ctx, job.DocID); err != nil {
			log.Warn("stale parent cleanup failed", "error", err)
		}
	}

	if err := w.parents.UpsertMany(ctx, parents); err != nil {
		log.Error("parent store failed", "error", err)
		job.AddError(fmt.Sprintf("store parents: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	if err := w.index.Upsert(ctx, children, vectors); err != nil {
		log.Error("vector store failed", "error", err)
		job.AddError(fmt.Sprintf("store children: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	if err := w.parents.RecordDocument(ctx, job.DocID, job.ContentHash, doc.Title); err != nil {
		log.Error("document record failed", "error", err)
		job.AddError(fmt.Sprintf("record document: %s", err))
	}

	log.Info("indexing complete",
		"parents", len(parents),
		"children", len(children),
		"elapsed", time.Since(job.CreatedAt).String())
	job.SetStatus(StatusCompleted, "done")
}

// embedChildren embeds all child texts batch by batch. Batches run with
// bounded concurrency; each batch retries transient failures with
// backoff. The returned vectors are order-aligned with children.
func (w *Worker) embedChildren(ctx context.Context, job *Job, children []doctext.ChildChunk) ([][]float32, error) {
	type batchResult struct {
		start int
		vecs  [][]float32
		err   error
	}

	var batches [][]string
	var offsets []int
	for start := 0; start < len(children); start += w.embedBatchSize {
		end := min(start+w.embedBatchSize, len(children))
		texts := make([]string, 0, end-start)
		for _, c := range children[start:end] {
			texts = append(texts, c.Text)
		}
		batches = append(batches, texts)
		offsets = append(offsets, start)
	}

	results := make(chan batchResult, len(batches))
	sem := make(chan struct{}, w.maxConcurrentEmbed)

	for bi, texts := range batches {
		sem <- struct{}{}
		go func(start int, texts []string) {
			defer func() { <-sem }()
			var vecs [][]float32
			var lastErr error
			for attempt := 0; attempt < MaxRetries; attempt++ {
				vecs, lastErr = w.embedder.Embed(ctx, texts)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				w.log.Warn("retryable embedding error", "batch_start", start, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					results <- batchResult{start: start, err: ctx.Err()}
					return
				}
			}
			if lastErr == nil && len(vecs) != len(texts) {
				lastErr = fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
			}
			results <- batchResult{start: start, vecs: vecs, err: lastErr}
		}(offsets[bi], texts)
	}

	vectors := make([][]float32, len(children))
	var firstErr error
	for range batches {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		copy(vectors[r.start:], r.vecs)
		job.AddEmbedded(len(r.vecs))
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}
