// Package models holds the REST DTOs shared by the handlers, scanner, and
// search.
package models

import (
	"github.com/shopspring/decimal"

	"github.com/dmaas/scalpdeck/internal/greeks"
)

// ScannedOption is one ranked contract row from a top-volume scan. Ticker,
// Expiry, and the stock fields are populated when rows from multiple tickers
// are merged into a market-wide scan.
type ScannedOption struct {
	Ticker            string  `json:"ticker,omitempty"`
	Type              string  `json:"type"` // CALL or PUT
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	Spread            float64 `json:"spread"`
	SpreadPct         float64 `json:"spreadPct"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	InTheMoney        bool    `json:"inTheMoney"`
	ContractSymbol    string  `json:"contractSymbol"`

	greeks.Greeks

	VolOIRatio     float64 `json:"volOiRatio"`
	ScalpScore     float64 `json:"scalpScore"`
	ReversalProfit float64 `json:"reversalProfit"`
	ReversalPct    float64 `json:"reversalPct"`

	Expiry       string  `json:"expiry,omitempty"`
	DaysToExpiry int     `json:"daysToExpiry,omitempty"`
	StockPrice   float64 `json:"stockPrice,omitempty"`
	DayHigh      float64 `json:"dayHigh,omitempty"`
	DayLow       float64 `json:"dayLow,omitempty"`
}

// TopVolumeResult is the per-ticker scan response.
type TopVolumeResult struct {
	Symbol       string          `json:"symbol"`
	Expiry       string          `json:"expiry"`
	DaysToExpiry int             `json:"daysToExpiry"`
	StockPrice   float64         `json:"stockPrice"`
	DayHigh      float64         `json:"dayHigh"`
	DayLow       float64         `json:"dayLow"`
	TopCalls     []ScannedOption `json:"topCalls"`
	TopPuts      []ScannedOption `json:"topPuts"`
	Message      string          `json:"message,omitempty"`
}

// ScanResult is the market-wide scan response.
type ScanResult struct {
	ScannedStocks []string        `json:"scannedStocks"`
	TotalStocks   int             `json:"totalStocks"`
	Timestamp     string          `json:"timestamp"`
	TopCalls      []ScannedOption `json:"topCalls"`
	TopPuts       []ScannedOption `json:"topPuts"`
	Errors        []string        `json:"errors,omitempty"`
}

// SearchRequest is the thesis the option search ranks against: "I think the
// stock reaches Target by Date, and I'm wrong if it hits Stop".
type SearchRequest struct {
	Ticker      string  `json:"ticker"`
	TargetPrice float64 `json:"targetPrice"`
	StopLoss    float64 `json:"stopLoss"`
	TargetDate  string  `json:"targetDate"` // YYYY-MM-DD
	OptionType  string  `json:"optionType"` // CALL or PUT
}

// SearchCandidate is one ranked contract from the option search.
type SearchCandidate struct {
	Expiry          string  `json:"expiry"`
	DaysToExpiry    int     `json:"daysToExpiry"`
	Strike          float64 `json:"strike"`
	ContractSymbol  string  `json:"contractSymbol"`
	EntryCost       float64 `json:"entryCost"`
	ProjectedReward float64 `json:"projectedReward"`
	ProjectedRisk   float64 `json:"projectedRisk"` // negative: amount lost
	RiskRewardRatio float64 `json:"riskRewardRatio"`
	Type            string  `json:"type"`
	ImpliedVol      float64 `json:"iv"`
}

// SearchResult is the option search response.
type SearchResult struct {
	Options []SearchCandidate `json:"options"`
	Message string            `json:"message,omitempty"`
}

// EstimateRequest feeds the profit-estimator endpoints. HoursRemaining and
// TotalHours are trading hours; handlers derive TotalHours from DaysToExpiry
// when it is not supplied directly. HoursRemaining is a pointer so an
// explicit 0 (at expiry) is distinct from absent (full horizon).
type EstimateRequest struct {
	OptionType        string   `json:"optionType"`
	Strike            float64  `json:"strike"`
	ImpliedVolatility float64  `json:"impliedVolatility"` // percent
	ObservedPrice     float64  `json:"observedPrice"`
	StockPrice        float64  `json:"stockPrice"`
	DayHigh           float64  `json:"dayHigh,omitempty"`
	DayLow            float64  `json:"dayLow,omitempty"`
	DaysToExpiry      int      `json:"daysToExpiry,omitempty"`
	TotalHours        float64  `json:"totalHours,omitempty"`
	HoursRemaining    *float64 `json:"hoursRemaining,omitempty"`

	// Price-sweep bounds (optional).
	PriceMin float64 `json:"priceMin,omitempty"`
	PriceMax float64 `json:"priceMax,omitempty"`

	// Matrix shape (optional).
	Rows int `json:"rows,omitempty"`
	Cols int `json:"cols,omitempty"`

	// ROI targets as percent of entry (optional).
	Targets []float64 `json:"targets,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Round2 rounds a float to 2 decimal places for display fields (prices,
// percents). Decimal round-half-up keeps .005 cases stable across platforms.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round1 rounds to one decimal place (scores, percents-of-entry).
func Round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
