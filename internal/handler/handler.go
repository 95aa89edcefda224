// Package handler exposes the entity store over HTTP. Handlers parse and
// respond; every rule about the collections lives in the store.
package handler

import (
	"log/slog"
	"net/http"

	"arquivo/internal/httputil"
	"arquivo/internal/session"
	"arquivo/internal/store"
)

// Handler serves the document-management API for the session's store.
type Handler struct {
	sessions *session.Registry
	logger   *slog.Logger
}

// New creates the API handler.
func New(sessions *session.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{sessions: sessions, logger: logger}
}

// Routes registers every endpoint on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("GET /api/sectors", h.ListSectors)
	mux.HandleFunc("POST /api/sectors", h.CreateSector)
	mux.HandleFunc("GET /api/sectors/{id}", h.GetSector)
	mux.HandleFunc("PATCH /api/sectors/{id}", h.UpdateSector)
	mux.HandleFunc("DELETE /api/sectors/{id}", h.DeleteSector)

	mux.HandleFunc("GET /api/folders", h.ListFolders)
	mux.HandleFunc("POST /api/folders", h.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", h.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", h.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.DeleteFolder)

	mux.HandleFunc("POST /api/documents", h.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", h.GetDocument)
	mux.HandleFunc("GET /api/documents/{id}/content", h.DownloadDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", h.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.DeleteDocument)

	mux.HandleFunc("GET /api/search", h.Search)

	mux.HandleFunc("DELETE /api/session", h.EndSession)
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EndSession closes the caller's session; the next request opens a fresh
// store over the same backend.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.sessions.End(userID)
	w.WriteHeader(http.StatusNoContent)
}

// store resolves the request's session store.
func (h *Handler) store(r *http.Request) (*store.Store, error) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		return nil, err
	}
	return h.sessions.Store(r.Context(), userID)
}
