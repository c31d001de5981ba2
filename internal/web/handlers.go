package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Karthik-guddanti/product-client/internal/inventory"
	"github.com/Karthik-guddanti/product-client/internal/logging"
	"github.com/go-chi/chi/v5"
)

// maxUploadSize caps CSV uploads at 10MB; the whole collection is replaced
// on import, so files beyond that point at the wrong endpoint.
const maxUploadSize = 10 << 20

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleView returns the current render model.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.view.Render())
}

// handleReload re-fetches the authoritative collection. A transport failure
// still renders: the snapshot degrades to empty with the error surfaced.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.view.Reload(r.Context()); err != nil {
		logging.FromContext(r.Context()).Error("reload failed", "error", err)
	}
	writeJSON(w, r, s.view.Render())
}

// handleSetCriteria replaces the filter criteria and renders. The page
// resets to 1 in the same operation.
func (s *Server) handleSetCriteria(w http.ResponseWriter, r *http.Request) {
	var c inventory.Criteria
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		badRequest(w, r, "invalid criteria payload")
		return
	}
	s.view.SetCriteria(c)
	writeJSON(w, r, s.view.Render())
}

// handleSetSort replaces the sort key and renders.
func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SortKey inventory.SortKey `json:"sortKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid sort payload")
		return
	}
	s.view.SetSortKey(req.SortKey)
	writeJSON(w, r, s.view.Render())
}

// handleSetPage moves to the requested page, clamped to the valid range.
func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid page payload")
		return
	}
	s.view.SetPage(req.Page)
	writeJSON(w, r, s.view.Render())
}

// handleResetFilters clears criteria and sort and returns to page 1.
func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.view.ResetFilters()
	writeJSON(w, r, s.view.Render())
}

// handleCreateProduct validates and creates a product, then renders the
// reloaded collection.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in inventory.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, r, "invalid product payload")
		return
	}
	if err := s.view.CreateProduct(r.Context(), in); err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s.view.Render())
}

// handleDeleteProduct removes a product. If it was being edited the session
// ends with it.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		badRequest(w, r, "missing product id")
		return
	}
	if err := s.view.DeleteProduct(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, s.view.Render())
}

// handleBeginEdit enters edit mode for a product, discarding any other draft.
func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		badRequest(w, r, "missing product id")
		return
	}
	if err := s.view.BeginEdit(id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, s.view.Render())
}

// handleCancelEdit discards the draft without saving.
func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		badRequest(w, r, "missing product id")
		return
	}
	s.view.CancelEdit(id)
	writeJSON(w, r, s.view.Render())
}

// handleUpdateDraft applies one field change to the active draft.
func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		badRequest(w, r, "missing product id")
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid draft payload")
		return
	}
	if req.Field == "" {
		badRequest(w, r, "missing field name")
		return
	}
	s.view.UpdateDraftField(req.Field, req.Value)
	writeJSON(w, r, s.view.Render())
}

// handleSaveEdit validates and persists the active draft. Validation failures
// come back as 422 with the complete per-field list; the draft stays active so
// the client can correct and retry.
func (s *Server) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		badRequest(w, r, "missing product id")
		return
	}
	if err := s.view.SaveEdit(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, s.view.Render())
}

// handleUpload receives a CSV file and replaces the whole collection.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequest(w, r, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, r, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, r, "failed to read file")
		return
	}

	if err := s.view.BulkImport(r.Context(), header.Filename, data); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, s.view.Render())
}
