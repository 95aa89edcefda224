package handler

import (
	"errors"
	"net/http"

	"arquivo/internal/domain"
	"arquivo/internal/httputil"
)

// respondError maps domain errors to HTTP problem responses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrContentUnavailable):
		httputil.RespondErrorReason(w, http.StatusGone, "document content is no longer available", "content_unavailable")
	case errors.Is(err, domain.ErrInvalidReference):
		httputil.RespondErrorReason(w, http.StatusUnprocessableEntity, err.Error(), "invalid_reference")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoSession), errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
