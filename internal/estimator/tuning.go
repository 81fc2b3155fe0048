package estimator

// Tuning holds the empirical correction constants applied on top of raw
// Black-Scholes. The defaults were tuned against observed retail fills; they
// are configuration rather than law so they can be recalibrated without a
// code change (config.yaml `tuning:` block overrides them).
type Tuning struct {
	// RiskFreeRate is the annualized rate used in d1/d2 discounting.
	RiskFreeRate float64 `yaml:"risk_free_rate"`

	// OTMDecayExponent scales how fast extrinsic value collapses for
	// out-of-the-money contracts: timeValue *= exp(-exponent * |moneyness|).
	OTMDecayExponent float64 `yaml:"otm_decay_exponent"`

	// OTMHaircutThreshold / OTMHaircut: beyond this moneyness, an extra flat
	// haircut comes off the surviving time value.
	OTMHaircutThreshold float64 `yaml:"otm_haircut_threshold"`
	OTMHaircut          float64 `yaml:"otm_haircut"`

	// OTMClampThreshold: beyond this moneyness the time value is pinned to
	// the penny floor outright.
	OTMClampThreshold float64 `yaml:"otm_clamp_threshold"`

	// Theta acceleration breakpoints, in trading hours remaining. Decay is
	// normal above ModerateHours, ramps to MidMultiplier at AggressiveHours,
	// and on to MaxMultiplier at expiry.
	ThetaModerateHours   float64 `yaml:"theta_moderate_hours"`
	ThetaAggressiveHours float64 `yaml:"theta_aggressive_hours"`
	ThetaMidMultiplier   float64 `yaml:"theta_mid_multiplier"`
	ThetaMaxMultiplier   float64 `yaml:"theta_max_multiplier"`

	// Spread discount emulates the wider observed bid/ask on OTM contracts:
	// value *= max(Floor, Base - Slope*|moneyness|) when moneyness < Trigger.
	SpreadDiscountTrigger float64 `yaml:"spread_discount_trigger"`
	SpreadDiscountBase    float64 `yaml:"spread_discount_base"`
	SpreadDiscountSlope   float64 `yaml:"spread_discount_slope"`
	SpreadDiscountFloor   float64 `yaml:"spread_discount_floor"`

	// Solver limits.
	SolverMaxBisections  int     `yaml:"solver_max_bisections"`
	SolverMaxExpansions  int     `yaml:"solver_max_expansions"`
	SolverTolerance      float64 `yaml:"solver_tolerance"`
	SolverIntrinsicHours float64 `yaml:"solver_intrinsic_hours"`
}

// Trading-calendar conventions shared across the core. A trading year is 252
// days of 6.5 regular-session hours.
const (
	TradingDaysPerYear  = 252.0
	TradingHoursPerDay  = 6.5
	TradingHoursPerYear = TradingDaysPerYear * TradingHoursPerDay

	// PennyFloor is the minimum quotable option value.
	PennyFloor = 0.01

	// minHours below which the model short-circuits to intrinsic value.
	minHours = 1e-6
)

// DefaultTuning returns the production constants.
func DefaultTuning() Tuning {
	return Tuning{
		RiskFreeRate:          0.05,
		OTMDecayExponent:      15.0,
		OTMHaircutThreshold:   0.03,
		OTMHaircut:            0.80,
		OTMClampThreshold:     0.05,
		ThetaModerateHours:    13.0,
		ThetaAggressiveHours:  6.5,
		ThetaMidMultiplier:    1.5,
		ThetaMaxMultiplier:    3.0,
		SpreadDiscountTrigger: -0.01,
		SpreadDiscountBase:    0.92,
		SpreadDiscountSlope:   2.0,
		SpreadDiscountFloor:   0.70,
		SolverMaxBisections:   30,
		SolverMaxExpansions:   15,
		SolverTolerance:       0.005,
		SolverIntrinsicHours:  1.0,
	}
}
