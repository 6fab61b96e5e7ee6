package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/tripgest/internal/retrieve"
)

type queryRequest struct {
	Query             string                   `json:"query"`
	TopK              int                      `json:"top_k"`
	PerParentChildren int                      `json:"per_parent_children"`
	ChunkType         string                   `json:"chunk_type"`
	Constraints       *retrieve.ConstraintSpec `json:"constraints"`
}

// handleQuery embeds the query, searches the child index, assembles
// parent context blocks, and optionally applies travel constraints.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	perParent := req.PerParentChildren
	if perParent <= 0 {
		perParent = s.cfg.PerParentChildren
	}

	ctx := r.Context()
	vec, err := s.embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		s.log.Error("query embedding failed", "error", err)
		jsonError(w, "embedding failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	var where map[string]string
	if req.ChunkType != "" {
		where = map[string]string{"chunk_type": req.ChunkType}
	}

	hits, err := s.index.Query(ctx, vec, topK, where)
	if err != nil {
		s.log.Error("vector query failed", "error", err)
		jsonError(w, "query failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	blocks, err := retrieve.Assemble(ctx, hits, s.parents, perParent)
	if err != nil {
		s.log.Error("context assembly failed", "error", err)
		jsonError(w, "assembly failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if blocks == nil {
		blocks = []retrieve.ContextBlock{}
	}

	resp := map[string]any{
		"query":  req.Query,
		"blocks": blocks,
	}

	if req.Constraints != nil {
		spec := *req.Constraints
		if spec.MinSimilarity < s.cfg.MinSimilarity {
			spec.MinSimilarity = s.cfg.MinSimilarity
		}
		result := retrieve.Flatten(req.Query, blocks)
		result, report := retrieve.ApplyHardConstraints(result, spec)
		result = retrieve.RankSoftPreferences(result, spec)
		if result.Chunks == nil {
			result.Chunks = []retrieve.ResultChunk{}
		}
		resp["chunks"] = result.Chunks
		resp["filter_report"] = report
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
