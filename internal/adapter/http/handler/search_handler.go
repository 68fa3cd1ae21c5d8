package handler

import (
	"encoding/json"
	"net/http"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/usecase"
)

type SearchHandler struct {
	search *usecase.SearchUseCase
	log    logger.Logger
	env    string
}

func NewSearchHandler(search *usecase.SearchUseCase, log logger.Logger, env string) *SearchHandler {
	return &SearchHandler{search: search, log: log, env: env}
}

// HandlePopular serves GET /api/search/popular.
func (h *SearchHandler) HandlePopular(w http.ResponseWriter, r *http.Request) {
	texts, err := h.search.Popular(r.Context())
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	if texts == nil {
		texts = []string{}
	}
	writeJSON(w, http.StatusOK, texts)
}

// HandleSuggest serves GET /api/search/preseek?search=, the typeahead over
// past queries.
func (h *SearchHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	texts, err := h.search.Suggest(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	if texts == nil {
		texts = []string{}
	}
	writeJSON(w, http.StatusOK, texts)
}

// HandleSeek serves POST /api/search/seek. The query is recorded for the
// popularity ranking as a side effect.
func (h *SearchHandler) HandleSeek(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Search string `json:"search"`
		City   string `json:"city"`
		Limit  int64  `json:"limit"`
		Offset int64  `json:"offset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	result, err := h.search.Seek(r.Context(), usecase.SeekInput{
		Query:  body.Search,
		City:   body.City,
		Limit:  body.Limit,
		Offset: body.Offset,
	})
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	if result.Results == nil {
		result.Results = []*entity.Advert{}
	}
	writeJSON(w, http.StatusOK, result)
}
