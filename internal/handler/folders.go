package handler

import (
	"encoding/json"
	"net/http"

	"arquivo/internal/domain/models"
	"arquivo/internal/httputil"
	"arquivo/internal/store"
)

// folderResponse decorates a folder with its direct children and contents.
type folderResponse struct {
	models.Folder
	Folders       []models.Folder   `json:"folders"`
	Documents     []models.Document `json:"documents"`
	DocumentCount int               `json:"document_count"`
}

// ListFolders returns folders filtered by sector and parent. Omitting the
// parent_folder_id parameter lists the sector's root-level folders.
// GET /api/folders?sector_id=...&parent_folder_id=...
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	sectorID := r.URL.Query().Get("sector_id")
	if sectorID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "sector_id is required")
		return
	}
	var parentID *string
	if p := r.URL.Query().Get("parent_folder_id"); p != "" {
		parentID = &p
	}
	httputil.RespondJSON(w, http.StatusOK, st.FoldersByParent(sectorID, parentID))
}

// CreateFolder creates a folder under a sector, optionally nested.
// POST /api/folders
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var req store.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := st.AddFolder(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder returns one folder with its direct subfolders and documents.
// GET /api/folders/{id}
func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	id := r.PathValue("id")
	folder, ok := st.Folder(id)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "folder not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folderResponse{
		Folder:        folder,
		Folders:       st.FoldersByParent(folder.SectorID, &folder.ID),
		Documents:     st.DocumentsByFolder(id),
		DocumentCount: st.FolderDocumentCount(id),
	})
}

// UpdateFolder renames a folder. Unknown ids are a no-op.
// PATCH /api/folders/{id}
func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var upd models.FolderUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := st.UpdateFolder(r.Context(), id, upd); err != nil {
		h.respondError(w, err)
		return
	}

	folder, ok := st.Folder(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder removes a folder, its whole subtree and their documents.
// DELETE /api/folders/{id}
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := st.DeleteFolder(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
