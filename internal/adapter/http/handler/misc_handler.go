package handler

import (
	"context"
	"net/http"

	"github.com/adboard/adverts-service/internal/platform/logger"
)

// RateProvider serves the memoized exchange rates.
type RateProvider interface {
	GetRates(ctx context.Context) (map[string]float64, error)
}

type MiscHandler struct {
	rates RateProvider
	log   logger.Logger
	env   string
}

func NewMiscHandler(rates RateProvider, log logger.Logger, env string) *MiscHandler {
	return &MiscHandler{rates: rates, log: log, env: env}
}

// HandleCurrency serves GET /api/currency.
func (h *MiscHandler) HandleCurrency(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rates.GetRates(r.Context())
	if err != nil {
		writeError(w, h.log, h.env, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

// HandleHealth serves GET /health.
func (h *MiscHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
