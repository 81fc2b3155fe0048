package estimator

// Calibrator rescales the theoretical model so it agrees with the observed
// market price at the moment the position is opened. Raw Black-Scholes
// routinely disagrees with the quote (spread, skew, microstructure); the
// estimator has to start from the user's actual entry price while keeping the
// model's relative sensitivity to price and time.
//
// The correction factor blends linearly from the full observed/theoretical
// ratio at entry down to 1.0 at expiry, where the model is exact by
// construction (value converges to intrinsic).
type Calibrator struct {
	model      *Model
	isCall     bool
	strike     float64
	iv         float64
	totalHours float64
	ratio      float64
}

// NewCalibrator anchors the model to observedPrice at hoursRemaining ==
// totalHours given the current stock price. A theoretical value at or below
// the penny floor degenerates the ratio to 1 (no correction) to guard the
// division.
func NewCalibrator(model *Model, isCall bool, strike, iv, observedPrice, spotNow, totalHours float64) *Calibrator {
	c := &Calibrator{
		model:      model,
		isCall:     isCall,
		strike:     strike,
		iv:         iv,
		totalHours: totalHours,
		ratio:      1.0,
	}

	theoretical := model.Value(isCall, strike, spotNow, totalHours, iv)
	if theoretical > PennyFloor && observedPrice > 0 {
		c.ratio = observedPrice / theoretical
	}
	return c
}

// Factor returns the correction multiplier at a given remaining horizon.
// Factor(totalHours) == ratio, Factor(0) == 1.
func (c *Calibrator) Factor(hoursLeft float64) float64 {
	if c.totalHours <= 0 {
		return 1.0
	}
	progress := 1.0 - hoursLeft/c.totalHours
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return c.ratio*(1.0-progress) + progress
}

// Value returns the calibrated option value at (spot, hoursLeft). The floors
// of the underlying model are re-applied after scaling so the no-arbitrage
// and penny invariants survive the correction.
func (c *Calibrator) Value(spot, hoursLeft float64) float64 {
	v := c.model.Value(c.isCall, c.strike, spot, hoursLeft, c.iv) * c.Factor(hoursLeft)

	if intrinsic := Intrinsic(c.isCall, c.strike, spot); v < intrinsic {
		v = intrinsic
	}
	if v < PennyFloor {
		v = PennyFloor
	}
	return v
}
