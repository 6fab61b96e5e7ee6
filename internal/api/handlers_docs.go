package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/tripgest/internal/parentstore"
)

// handleListDocuments lists all indexed documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.parents.ListDocuments(r.Context())
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []parentstore.DocumentInfo{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument removes a document's child vectors, parent
// chunks, and index record.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	ctx := r.Context()

	childrenBefore := s.index.Count()
	if err := s.index.DeleteDoc(ctx, docID); err != nil {
		jsonError(w, "failed to delete children: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.parents.DeleteDoc(ctx, docID); err != nil {
		jsonError(w, "failed to delete parents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":           docID,
		"children_deleted": childrenBefore - s.index.Count(),
	})
}
