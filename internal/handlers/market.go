package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dmaas/scalpdeck/internal/logger"
	"github.com/dmaas/scalpdeck/internal/models"
)

// Quote returns the current stock quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	quote, err := h.provider.GetQuote(r.Context(), ticker)
	if err != nil {
		logger.Log.Warnf("quote %s: %v", ticker, err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// OptionChain returns the option chain for a ticker. ?expiry=YYYY-MM-DD picks
// a specific expiration; empty picks the nearest.
func (h *Handler) OptionChain(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	expiry := r.URL.Query().Get("expiry")

	chain, err := h.provider.GetOptionChain(r.Context(), ticker, expiry)
	if err != nil {
		logger.Log.Warnf("chain %s %s: %v", ticker, expiry, err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, chain)
}

// TopVolume returns the most traded near-term contracts for one ticker.
// ?top_n= bounds the per-side count (default 10).
func (h *Handler) TopVolume(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	topN := 10
	if v := r.URL.Query().Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "top_n must be a positive integer")
			return
		}
		topN = n
	}

	result, err := h.scanner.TopVolume(r.Context(), ticker, topN)
	if err != nil {
		logger.Log.Warnf("top-volume %s: %v", ticker, err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ScanMarket returns the cached market-wide scan board.
func (h *Handler) ScanMarket(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanner.ScanMarket(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// OptionHistory returns historical bars for an OCC contract symbol.
// ?period= and ?interval= follow chart conventions (5d, 5m, ...).
func (h *Handler) OptionHistory(w http.ResponseWriter, r *http.Request) {
	contract := strings.ToUpper(mux.Vars(r)["contract"])
	if h.history == nil || !h.history.Configured() {
		respondError(w, http.StatusServiceUnavailable, "option history provider not configured")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1d"
	}
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "5m"
	}

	candles, err := h.history.GetOptionBars(r.Context(), contract, period, interval)
	if err != nil {
		logger.Log.Warnf("option history %s: %v", contract, err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"contractSymbol": contract,
		"period":         period,
		"interval":       interval,
		"candles":        candles,
	})
}

// Search runs the thesis-based option search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.searcher.FindBest(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}
