package estimator

import "math"

// Model is the adjusted Black-Scholes pricer. On top of the textbook value it
// applies three empirical corrections that reconcile theory with what retail
// order flow actually pays:
//
//   - an OTM discount, because extrinsic value on low-probability contracts
//     collapses faster than raw Black-Scholes predicts;
//   - theta acceleration inside the final two trading days;
//   - a spread discount emulating the wider bid/ask quoted on OTM contracts.
//
// All degenerate inputs (zero volatility, zero time, nonpositive prices) are
// handled by branching to intrinsic value. Value never returns less than the
// intrinsic value or the penny floor, and it never returns an error.
type Model struct {
	tuning Tuning
}

// NewModel builds a pricer with the given tuning constants.
func NewModel(tuning Tuning) *Model {
	return &Model{tuning: tuning}
}

// Tuning returns the constants the model was built with.
func (m *Model) Tuning() Tuning {
	return m.tuning
}

// Intrinsic returns the exercise value of an option: max(0, S-K) for calls,
// max(0, K-S) for puts.
func Intrinsic(isCall bool, strike, spot float64) float64 {
	if isCall {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}

// Value prices an option contract at a given stock price and remaining
// trading-hour horizon.
//
//	isCall     option right
//	strike     strike price
//	spot       stock price at the evaluation point
//	hoursLeft  trading hours remaining until expiry (>= 0)
//	iv         implied volatility in percent (30 means 30%)
//
// The result is always finite and >= max(intrinsic, 0.01).
func (m *Model) Value(isCall bool, strike, spot, hoursLeft, iv float64) float64 {
	intrinsic := Intrinsic(isCall, strike, spot)

	if hoursLeft < minHours || iv <= 0 || spot <= 0 || strike <= 0 {
		return math.Max(intrinsic, PennyFloor)
	}

	t := hoursLeft / TradingHoursPerYear
	sigma := iv / 100.0
	r := m.tuning.RiskFreeRate
	sqrtT := math.Sqrt(t)

	d1 := (math.Log(spot/strike) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	var theoretical float64
	if isCall {
		theoretical = spot*NormCDF(d1) - strike*math.Exp(-r*t)*NormCDF(d2)
	} else {
		theoretical = strike*math.Exp(-r*t)*NormCDF(-d2) - spot*NormCDF(-d1)
	}

	// Signed distance from the money, positive when ITM.
	moneyness := (spot - strike) / strike
	if !isCall {
		moneyness = -moneyness
	}

	timeValue := math.Max(0, theoretical-intrinsic)

	if moneyness < 0 {
		otm := -moneyness
		timeValue *= math.Exp(-m.tuning.OTMDecayExponent * otm)
		if otm > m.tuning.OTMHaircutThreshold {
			timeValue *= 1.0 - m.tuning.OTMHaircut
		}
		if otm > m.tuning.OTMClampThreshold {
			timeValue = math.Min(timeValue, PennyFloor)
		}
	}

	timeValue /= m.thetaMultiplier(hoursLeft)

	value := intrinsic + timeValue

	if moneyness < m.tuning.SpreadDiscountTrigger {
		discount := m.tuning.SpreadDiscountBase - m.tuning.SpreadDiscountSlope*(-moneyness)
		value *= math.Max(m.tuning.SpreadDiscountFloor, discount)
	}

	if value < intrinsic {
		value = intrinsic
	}
	if value < PennyFloor {
		value = PennyFloor
	}
	return value
}

// thetaMultiplier returns the decay accelerator (>= 1) applied to time value
// as expiry approaches. Piecewise linear: 1.0 down to the moderate breakpoint,
// the mid multiplier at the aggressive breakpoint, the max multiplier at zero.
func (m *Model) thetaMultiplier(hoursLeft float64) float64 {
	moderate := m.tuning.ThetaModerateHours
	aggressive := m.tuning.ThetaAggressiveHours

	switch {
	case hoursLeft >= moderate:
		return 1.0
	case hoursLeft >= aggressive:
		span := moderate - aggressive
		return 1.0 + (m.tuning.ThetaMidMultiplier-1.0)*(moderate-hoursLeft)/span
	default:
		return m.tuning.ThetaMidMultiplier +
			(m.tuning.ThetaMaxMultiplier-m.tuning.ThetaMidMultiplier)*(aggressive-hoursLeft)/aggressive
	}
}
