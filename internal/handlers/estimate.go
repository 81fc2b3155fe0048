package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmaas/scalpdeck/internal/estimator"
	"github.com/dmaas/scalpdeck/internal/models"
	"github.com/dmaas/scalpdeck/internal/utils"
)

// parseEstimate validates an EstimateRequest and converts it to the
// estimator's contract/market inputs plus the hour horizons.
func parseEstimate(req models.EstimateRequest) (c estimator.Contract, m estimator.Market, hoursLeft, totalHours float64, err error) {
	isCall := strings.EqualFold(req.OptionType, "CALL")
	if !isCall && !strings.EqualFold(req.OptionType, "PUT") {
		err = fmt.Errorf("optionType must be CALL or PUT")
		return
	}
	if req.Strike <= 0 {
		err = fmt.Errorf("strike must be positive")
		return
	}
	if req.StockPrice <= 0 {
		err = fmt.Errorf("stockPrice must be positive")
		return
	}
	if req.ObservedPrice <= 0 {
		err = fmt.Errorf("observedPrice must be positive")
		return
	}

	totalHours = req.TotalHours
	if totalHours <= 0 {
		totalHours = utils.TradingHoursToExpiry(req.DaysToExpiry)
	}
	// Absent means the full horizon; an explicit 0 asks for the at-expiry
	// value.
	hoursLeft = totalHours
	if req.HoursRemaining != nil {
		hoursLeft = *req.HoursRemaining
		if hoursLeft < 0 {
			err = fmt.Errorf("hoursRemaining must not be negative")
			return
		}
		if hoursLeft > totalHours {
			hoursLeft = totalHours
		}
	}

	c = estimator.Contract{
		IsCall:        isCall,
		Strike:        req.Strike,
		ImpliedVol:    req.ImpliedVolatility,
		ObservedPrice: req.ObservedPrice,
	}
	m = estimator.Market{
		Spot:    req.StockPrice,
		DayHigh: req.DayHigh,
		DayLow:  req.DayLow,
	}
	return
}

// EstimateEvaluate returns the calibrated option value for one scenario.
func (h *Handler) EstimateEvaluate(w http.ResponseWriter, r *http.Request) {
	var req models.EstimateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, m, hoursLeft, totalHours, err := parseEstimate(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	value := h.estimator.Evaluate(c, m, hoursLeft, totalHours)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"optionValue":    models.Round2(value),
		"profit":         models.Round2((value - c.ObservedPrice) * 100),
		"profitPct":      models.Round1((value - c.ObservedPrice) / c.ObservedPrice * 100),
		"hoursRemaining": hoursLeft,
		"totalHours":     totalHours,
	})
}

// EstimatePriceSweep returns the P&L curve across a stock price grid.
func (h *Handler) EstimatePriceSweep(w http.ResponseWriter, r *http.Request) {
	var req models.EstimateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, m, hoursLeft, totalHours, err := parseEstimate(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	points := h.estimator.ProjectPriceSweep(c, m, hoursLeft, totalHours, req.PriceMin, req.PriceMax)
	if points == nil {
		respondError(w, http.StatusBadRequest, "projection requires a positive stock and option price")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"points":         points,
		"hoursRemaining": hoursLeft,
		"totalHours":     totalHours,
	})
}

// EstimateMatrix returns the price-by-time P&L surface.
func (h *Handler) EstimateMatrix(w http.ResponseWriter, r *http.Request) {
	var req models.EstimateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, m, _, totalHours, err := parseEstimate(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	matrix := h.estimator.ProjectMatrix(c, m, totalHours, req.Rows, req.Cols)
	if matrix == nil {
		respondError(w, http.StatusBadRequest, "projection requires a positive stock and option price")
		return
	}
	respondJSON(w, http.StatusOK, matrix)
}

// EstimateROICurves returns the breakeven price curves for each return target.
func (h *Handler) EstimateROICurves(w http.ResponseWriter, r *http.Request) {
	var req models.EstimateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, m, _, totalHours, err := parseEstimate(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	curves := h.estimator.ProjectROICurves(c, m, totalHours, req.Targets)
	if curves == nil {
		respondError(w, http.StatusBadRequest, "projection requires a positive stock and option price")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"curves":     curves,
		"totalHours": totalHours,
	})
}
