package handler

import (
	"net/http"

	"arquivo/internal/httputil"
)

// Search matches sectors, folders and documents whose names (or, for
// documents, descriptions) contain the query, case-insensitively.
// GET /api/search?q=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	st, err := h.store(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, st.Search(r.URL.Query().Get("q")))
}
