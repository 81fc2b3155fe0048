// Package greeks computes Black-Scholes sensitivities and the scanner's
// scalp-oriented ranking metrics.
package greeks

import (
	"math"

	"github.com/dmaas/scalpdeck/internal/estimator"
)

// RiskFreeRate used for the d1/d2 terms. Kept in line with the estimator's
// default tuning.
const RiskFreeRate = 0.05

// Greeks holds the per-contract sensitivities. Theta is per calendar day,
// vega per 1% IV change.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// Compute returns the Black-Scholes Greeks for a contract.
//
//	spot    current stock price
//	strike  option strike
//	years   time to expiry in years (1 day = 1/365)
//	iv      implied volatility as a decimal (0.50 for 50%)
//
// Degenerate inputs (zero time, vol, or price) return zeroed Greeks rather
// than an error; the scanner treats those rows as unrankable.
func Compute(isCall bool, spot, strike, years, iv float64) Greeks {
	if years <= 0 || iv <= 0 || spot <= 0 || strike <= 0 {
		return Greeks{}
	}

	sqrtT := math.Sqrt(years)
	d1 := (math.Log(spot/strike) + (RiskFreeRate+0.5*iv*iv)*years) / (iv * sqrtT)
	d2 := d1 - iv*sqrtT

	nd1 := estimator.NormCDF(d1)
	pd1 := estimator.NormPDF(d1)
	discount := math.Exp(-RiskFreeRate * years)

	var delta, theta float64
	if isCall {
		delta = nd1
		theta = (-(spot*pd1*iv)/(2*sqrtT) - RiskFreeRate*strike*discount*estimator.NormCDF(d2)) / 365
	} else {
		delta = nd1 - 1
		theta = (-(spot*pd1*iv)/(2*sqrtT) + RiskFreeRate*strike*discount*estimator.NormCDF(-d2)) / 365
	}

	return Greeks{
		Delta: round(delta, 3),
		Gamma: round(pd1/(spot*iv*sqrtT), 4),
		Theta: round(theta, 3),
		Vega:  round(spot*pd1*sqrtT/100, 3),
	}
}

// Scalp-score caps. The score favors contracts suited to quick reversals:
// explosive gamma, unusual volume against open interest, tight spreads, and
// deltas near 0.5 (ATM, most responsive).
const (
	gammaScoreCap    = 50.0
	volOIScoreCap    = 25.0
	spreadPenaltyCap = 25.0
	atmBonusCap      = 15.0
)

// ScalpScore ranks a contract for quick in-and-out trades; higher is better.
// spreadPct is the bid/ask spread as a percent of the mid price.
func ScalpScore(gamma, volOIRatio, spreadPct, delta float64) float64 {
	gammaScore := math.Min(gamma*1000, gammaScoreCap)
	volOIScore := math.Min(volOIRatio*5, volOIScoreCap)
	spreadPenalty := math.Min(spreadPct*10, spreadPenaltyCap)
	atmBonus := (1 - math.Abs(math.Abs(delta)-0.5)*2) * atmBonusCap

	score := gammaScore + volOIScore - spreadPenalty + atmBonus
	return round(math.Max(score, 0), 1)
}

// Reversal estimates the per-contract profit if the stock retraces to the
// session extreme: day high for calls, day low for puts. Returns the dollar
// profit (100 shares) and the percent of the entry price.
func Reversal(isCall bool, spot, dayHigh, dayLow, delta, midPrice float64) (profit, pct float64) {
	if spot <= 0 || delta == 0 {
		return 0, 0
	}

	var move float64
	if isCall && dayHigh > spot {
		move = dayHigh - spot
	} else if !isCall && dayLow > 0 && spot > dayLow {
		move = spot - dayLow
	} else {
		return 0, 0
	}

	profit = round(move*math.Abs(delta)*100, 2)
	if midPrice > 0 {
		pct = round(move*math.Abs(delta)/midPrice*100, 1)
	}
	return profit, pct
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
