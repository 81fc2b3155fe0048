package estimator

// Solver inverts the calibrated pricer: given a target option value and a
// remaining horizon, find the stock price that produces it. Call value is
// monotonic increasing in the stock price and put value monotonic decreasing,
// so a plain bisection is sufficient once the target is bracketed.
//
// The solver is deterministic, side-effect free, and never fails: if the
// iteration budget runs out it returns the midpoint of the final bracket.
type Solver struct {
	cal    *Calibrator
	tuning Tuning
}

// NewSolver builds a solver over a calibrated pricer.
func NewSolver(cal *Calibrator) *Solver {
	return &Solver{cal: cal, tuning: cal.model.tuning}
}

// PriceForTargetValue returns the stock price at which the calibrated option
// value equals target with hoursLeft trading hours remaining.
//
// Inside the final trading hour the pricer is nearly discontinuous (time value
// is gone, theta acceleration is at max), so the closed-form intrinsic inverse
// is used instead of a numeric search.
func (s *Solver) PriceForTargetValue(target, hoursLeft float64) float64 {
	strike := s.cal.strike

	if hoursLeft < s.tuning.SolverIntrinsicHours {
		if s.cal.isCall {
			return strike + target
		}
		p := strike - target
		if p < 0 {
			p = 0
		}
		return p
	}

	low := 0.3 * strike
	high := 2.0 * strike

	// Expand the bracket geometrically until the target value is inside it.
	for i := 0; i < s.tuning.SolverMaxExpansions; i++ {
		if s.bracketContains(target, low, hoursLeft, false) {
			break
		}
		low *= 0.7
	}
	for i := 0; i < s.tuning.SolverMaxExpansions; i++ {
		if s.bracketContains(target, high, hoursLeft, true) {
			break
		}
		high *= 1.5
	}

	for i := 0; i < s.tuning.SolverMaxBisections; i++ {
		mid := (low + high) / 2
		v := s.cal.Value(mid, hoursLeft)

		diff := v - target
		if diff < 0 {
			diff = -diff
		}
		if diff <= s.tuning.SolverTolerance {
			return mid
		}

		if s.cal.isCall {
			if v < target {
				low = mid
			} else {
				high = mid
			}
		} else {
			if v < target {
				high = mid
			} else {
				low = mid
			}
		}
	}

	// Iteration budget exhausted: best-effort midpoint, never an error.
	return (low + high) / 2
}

// bracketContains reports whether the value at the given bound already puts
// the target inside the bracket. upper means the bound is the high end for a
// call (or the low end's mirror for a put).
func (s *Solver) bracketContains(target, bound, hoursLeft float64, upper bool) bool {
	v := s.cal.Value(bound, hoursLeft)
	if s.cal.isCall == upper {
		return v >= target
	}
	return v <= target
}
