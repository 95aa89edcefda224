package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"arquivo/internal/domain/models"
	"arquivo/internal/httputil"
	"arquivo/internal/store"
)

// maxUploadSize bounds multipart parsing memory; larger files spill to disk.
const maxUploadSize = 100 << 20 // 100 MiB

// CreateDocument uploads a file and creates its document record.
// Multipart form: "file" part plus sector_id, folder_id, name and the
// optional description and type fields. When type is omitted it is
// inferred from the file's content type.
// POST /api/documents
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	docType := models.DocumentType(r.FormValue("type"))
	if docType == "" {
		docType = models.DocumentTypeForMime(mimeType)
	}

	req := store.CreateDocumentRequest{
		SectorID: r.FormValue("sector_id"),
		FolderID: r.FormValue("folder_id"),
		Name:     r.FormValue("name"),
		Type:     docType,
		Content:  file,
		FileName: header.Filename,
		FileSize: header.Size,
		MimeType: mimeType,
	}
	if desc := r.FormValue("description"); desc != "" {
		req.Description = &desc
	}

	doc, err := st.AddDocument(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument returns one document record.
// GET /api/documents/{id}
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	doc, ok := st.Document(r.PathValue("id"))
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "document not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DownloadDocument streams the document's file content. Documents whose
// content can no longer be resolved answer 410 Gone.
// GET /api/documents/{id}/content
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	id := r.PathValue("id")
	doc, ok := st.Document(id)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "document not found")
		return
	}

	content, err := st.OpenDocument(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	defer content.Close()

	if doc.MimeType != "" {
		w.Header().Set("Content-Type", doc.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if doc.FileSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))

	if _, err := io.Copy(w, content); err != nil {
		// Headers are gone, all we can do is log the broken stream.
		h.logger.Error("document download interrupted", "document_id", id, "error", err)
	}
}

// UpdateDocument applies a partial metadata update. Unknown ids no-op.
// PATCH /api/documents/{id}
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	var upd models.DocumentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := st.UpdateDocument(r.Context(), id, upd); err != nil {
		h.respondError(w, err)
		return
	}

	doc, ok := st.Document(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument removes a document and releases its stored content.
// DELETE /api/documents/{id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := st.DeleteDocument(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
