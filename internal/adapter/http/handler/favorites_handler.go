package handler

import (
	"encoding/json"
	"net/http"

	"github.com/adboard/adverts-service/internal/adapter/http/middleware"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/usecase"
)

type FavoritesHandler struct {
	favorites *usecase.FavoritesUseCase
	log       logger.Logger
	env       string
}

func NewFavoritesHandler(favorites *usecase.FavoritesUseCase, log logger.Logger, env string) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, log: log, env: env}
}

// HandleAdd serves POST /api/favorites with {"id": N}.
func (h *FavoritesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := h.favorites.Add(r.Context(), userID, body.ID); err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// HandleRemove serves DELETE /api/favorites with {"id": N}.
func (h *FavoritesHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := h.favorites.Remove(r.Context(), userID, body.ID); err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// HandleListIDs serves GET /api/favorites/ids.
func (h *FavoritesHandler) HandleListIDs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ids, err := h.favorites.ListIDs(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// HandleList serves GET /api/favorites, the materialized bucketed view.
func (h *FavoritesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	favorites, err := h.favorites.ListMaterialized(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}
