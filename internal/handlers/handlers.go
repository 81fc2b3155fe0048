// Package handlers is the HTTP layer: thin request parsing and response
// encoding around the scanner, search, estimator, and watchlist services.
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/dmaas/scalpdeck/internal/estimator"
	"github.com/dmaas/scalpdeck/internal/logger"
	"github.com/dmaas/scalpdeck/internal/models"
	"github.com/dmaas/scalpdeck/internal/providers"
	"github.com/dmaas/scalpdeck/internal/providers/alpaca"
	"github.com/dmaas/scalpdeck/internal/scanner"
	"github.com/dmaas/scalpdeck/internal/search"
	"github.com/dmaas/scalpdeck/internal/watchlist"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler owns the HTTP endpoints. All services are injected; the handler
// itself is stateless.
type Handler struct {
	provider  providers.MarketProvider
	scanner   *scanner.CachedScanner
	searcher  *search.Searcher
	estimator *estimator.Estimator
	store     *watchlist.Store
	history   *alpaca.Client
}

// New wires a Handler.
func New(provider providers.MarketProvider, sc *scanner.CachedScanner, se *search.Searcher,
	est *estimator.Estimator, store *watchlist.Store, history *alpaca.Client) *Handler {
	return &Handler{
		provider:  provider,
		scanner:   sc,
		searcher:  se,
		estimator: est,
		store:     store,
		history:   history,
	}
}

// Router builds the full API route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/api/quote/{ticker}", h.Quote).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/options/{ticker}", h.OptionChain).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/top-volume/{ticker}", h.TopVolume).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/scan", h.ScanMarket).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/search", h.Search).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/estimate/evaluate", h.EstimateEvaluate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/estimate/price-sweep", h.EstimatePriceSweep).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/estimate/matrix", h.EstimateMatrix).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/estimate/roi-curves", h.EstimateROICurves).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/watchlist/tickers", h.ListTickers).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/watchlist/tickers", h.AddTicker).Methods("POST")
	r.HandleFunc("/api/watchlist/tickers/{symbol}", h.RemoveTicker).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/api/watchlist/tickers/{symbol}/levels", h.GetLevels).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/watchlist/tickers/{symbol}/levels", h.UpdateLevels).Methods("PUT")

	r.HandleFunc("/api/watchlist/options", h.ListOptions).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/watchlist/options", h.AddOption).Methods("POST")
	r.HandleFunc("/api/watchlist/options/{contract}", h.RemoveOption).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/api/watchlist/options/{contract}/status", h.OptionStatus).Methods("GET", "OPTIONS")

	r.HandleFunc("/api/option-history/{contract}", h.OptionHistory).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/health", h.Health).Methods("GET", "OPTIONS")

	return r
}

// Health reports liveness and which optional providers are configured.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"provider":          h.provider.Name(),
		"historyConfigured": h.history != nil && h.history.Configured(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.Errorf("encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, models.ErrorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// corsMiddleware opens the API to the dashboard frontend served elsewhere.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
