package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adboard/adverts-service/internal/adapter/http/middleware"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/usecase"
)

type ArchiveHandler struct {
	archive *usecase.ArchiveUseCase
	log     logger.Logger
	env     string
}

func NewArchiveHandler(archive *usecase.ArchiveUseCase, log logger.Logger, env string) *ArchiveHandler {
	return &ArchiveHandler{archive: archive, log: log, env: env}
}

// HandleList serves GET /api/archive for the authenticated user.
func (h *ArchiveHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	archived, err := h.archive.ListByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

// HandleMove serves POST /api/archive/{id}.
func (h *ArchiveHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "incorrect id")
		return
	}

	if err := h.archive.MoveToArchive(r.Context(), id); err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "advert archived"})
}

// HandleRestore serves POST /api/archive/{id}/restore.
func (h *ArchiveHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "incorrect id")
		return
	}

	advert, err := h.archive.Restore(r.Context(), id)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, advert)
}

// HandleDelete serves DELETE /api/archive/{id}.
func (h *ArchiveHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "incorrect id")
		return
	}

	if err := h.archive.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archive entry deleted"})
}
