package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/port/repository"
	"github.com/adboard/adverts-service/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto HTTP statuses. In non-local
// environments internal error detail is replaced with a generic message so
// storage internals never leak to clients.
func writeError(w http.ResponseWriter, log logger.Logger, env string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrPhotoRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: usecase.ErrPhotoRequired.Error()})
	case errors.Is(err, usecase.ErrInvalidCategory):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: usecase.ErrInvalidCategory.Error()})
	case errors.Is(err, usecase.ErrRestoreConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: usecase.ErrRestoreConflict.Error()})
	default:
		log.Errorf("Request failed: %v", err)
		msg := "internal server error"
		if env == "local" {
			msg = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
