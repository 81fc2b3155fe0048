package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// ListTickers returns the scanner universe.
func (h *Handler) ListTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.store.Tickers()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tickers": tickers,
		"count":   len(tickers),
	})
}

// AddTicker adds a symbol to the scan universe.
func (h *Handler) AddTicker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol   string `json:"symbol"`
		Category string `json:"category"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.store.AddTicker(req.Symbol, req.Category)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// RemoveTicker drops a symbol from the scan universe.
func (h *Handler) RemoveTicker(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if err := h.store.RemoveTicker(symbol); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"symbol": strings.ToUpper(symbol)})
}

// GetLevels returns the stored support/resistance levels for a symbol.
func (h *Handler) GetLevels(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	support, resistance, err := h.store.Levels(symbol)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":          strings.ToUpper(symbol),
		"supportPrice":    support,
		"resistancePrice": resistance,
	})
}

// UpdateLevels sets support/resistance for a symbol; null clears a level.
func (h *Handler) UpdateLevels(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	var req struct {
		SupportPrice    *float64 `json:"supportPrice"`
		ResistancePrice *float64 `json:"resistancePrice"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.store.UpdateLevels(symbol, req.SupportPrice, req.ResistancePrice); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":          strings.ToUpper(symbol),
		"supportPrice":    req.SupportPrice,
		"resistancePrice": req.ResistancePrice,
	})
}

// ListOptions returns the tracked option contracts.
func (h *Handler) ListOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.store.Options()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"options": options,
		"count":   len(options),
	})
}

// AddOption tracks an option contract.
func (h *Handler) AddOption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContractSymbol string  `json:"contractSymbol"`
		Ticker         string  `json:"ticker"`
		Strike         float64 `json:"strike"`
		Expiry         string  `json:"expiry"`
		OptionType     string  `json:"optionType"`
		Notes          string  `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.store.AddOption(req.ContractSymbol, req.Ticker, req.Strike, req.Expiry, req.OptionType, req.Notes)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// RemoveOption stops tracking a contract.
func (h *Handler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	contract := mux.Vars(r)["contract"]
	if err := h.store.RemoveOption(contract); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"contractSymbol": contract})
}

// OptionStatus reports whether a contract is on the watchlist.
func (h *Handler) OptionStatus(w http.ResponseWriter, r *http.Request) {
	contract := mux.Vars(r)["contract"]
	tracked, err := h.store.HasOption(contract)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"contractSymbol": contract,
		"inWatchlist":    tracked,
	})
}
