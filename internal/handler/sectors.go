package handler

import (
	"encoding/json"
	"net/http"

	"arquivo/internal/domain/models"
	"arquivo/internal/httputil"
	"arquivo/internal/store"
)

// sectorResponse decorates a sector with its recursive document count.
type sectorResponse struct {
	models.Sector
	DocumentCount int `json:"document_count"`
}

// ListSectors returns every sector, name order.
// GET /api/sectors
func (h *Handler) ListSectors(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, st.Sectors())
}

// CreateSector creates a sector.
// POST /api/sectors
func (h *Handler) CreateSector(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req store.CreateSectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sector, err := st.AddSector(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, sector)
}

// GetSector returns one sector with its document count.
// GET /api/sectors/{id}
func (h *Handler) GetSector(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	id := r.PathValue("id")
	sector, ok := st.Sector(id)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "sector not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sectorResponse{
		Sector:        sector,
		DocumentCount: st.SectorDocumentCount(id),
	})
}

// UpdateSector applies a partial update. Unknown ids are a no-op.
// PATCH /api/sectors/{id}
func (h *Handler) UpdateSector(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var upd models.SectorUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := st.UpdateSector(r.Context(), id, upd); err != nil {
		h.respondError(w, err)
		return
	}

	sector, ok := st.Sector(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sector)
}

// DeleteSector removes a sector with everything underneath it.
// DELETE /api/sectors/{id}
func (h *Handler) DeleteSector(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := st.DeleteSector(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
