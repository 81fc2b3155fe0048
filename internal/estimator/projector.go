package estimator

import "strconv"

// Contract is the option leg being estimated. ObservedPrice is the market
// entry price: (bid+ask)/2 when both sides are quoted, else the last trade.
// The caller is responsible for supplying a usable fallback; the core does
// not fetch or validate market data.
type Contract struct {
	IsCall        bool
	Strike        float64
	ImpliedVol    float64 // percent, e.g. 30 for 30%
	ObservedPrice float64
}

// Market is the snapshot of the underlying at evaluation time. DayHigh and
// DayLow are optional projection reference points; zero means unknown.
type Market struct {
	Spot    float64
	DayHigh float64
	DayLow  float64
}

// SweepPoint is one sample of the price-sweep P&L curve. Profit is per
// contract (100 shares).
type SweepPoint struct {
	StockPrice  float64 `json:"stockPrice"`
	Profit      float64 `json:"profit"`
	OptionValue float64 `json:"optionValue"`
}

// Matrix is the price-by-time P&L surface. ProfitPct[row][col] is the
// percent-of-entry-cost profit at Prices[row] with Hours[col] trading hours
// remaining.
type Matrix struct {
	Prices    []float64   `json:"prices"`
	Hours     []float64   `json:"hours"`
	ProfitPct [][]float64 `json:"profitPct"`
}

// ROIPoint is one sample of a breakeven curve: the stock price that keeps the
// option at the target value when HoursLeft trading hours remain.
type ROIPoint struct {
	HoursLeft float64 `json:"hoursLeft"`
	Price     float64 `json:"price"`
}

// ROICurve is a labeled breakeven curve for one return target.
type ROICurve struct {
	Label   string     `json:"label"`
	Percent float64    `json:"percent"`
	Points  []ROIPoint `json:"points"`
}

// Projection grid defaults.
const (
	sweepPoints      = 50
	matrixPriceRows  = 20
	matrixTimeCols   = 12
	matrixPriceSpan  = 0.10 // +/- 10% of current price
	roiTimePoints    = 20
	defaultSweepSpan = 0.01 // +/- 1% fallback when day high/low are missing
)

// ROITargets are the return multiples (percent of entry cost) the ROI curves
// are produced for. -100% maps to the penny floor rather than zero.
var ROITargets = []float64{100, 50, 25, 0, -25, -50, -100}

// Estimator is the public surface of the valuation core. It is stateless
// apart from its tuning; every method is a pure function of its arguments,
// safe for concurrent use.
type Estimator struct {
	model *Model
}

// New builds an estimator with the given tuning constants.
func New(tuning Tuning) *Estimator {
	return &Estimator{model: NewModel(tuning)}
}

// Model exposes the underlying pricer (used by the scanner and search).
func (e *Estimator) Model() *Model {
	return e.model
}

// calibrator anchors the model to the contract's observed price at the full
// horizon.
func (e *Estimator) calibrator(c Contract, m Market, totalHours float64) *Calibrator {
	return NewCalibrator(e.model, c.IsCall, c.Strike, c.ImpliedVol, c.ObservedPrice, m.Spot, totalHours)
}

// Evaluate returns the calibrated option value at the market's spot price
// with hoursLeft of the totalHours horizon remaining.
func (e *Estimator) Evaluate(c Contract, m Market, hoursLeft, totalHours float64) float64 {
	return e.calibrator(c, m, totalHours).Value(m.Spot, hoursLeft)
}

// ProjectPriceSweep produces the P&L curve over a stock price grid evaluated
// at hoursLeft. When priceMin/priceMax are not supplied (<= 0) the grid is
// centered on the spot price with a span derived from the day's high/low
// distance, falling back to +/-1%.
func (e *Estimator) ProjectPriceSweep(c Contract, m Market, hoursLeft, totalHours, priceMin, priceMax float64) []SweepPoint {
	if c.ObservedPrice <= 0 || m.Spot <= 0 {
		return nil
	}

	if priceMin <= 0 || priceMax <= priceMin {
		span := m.Spot * defaultSweepSpan
		if m.DayHigh > 0 && m.DayLow > 0 && m.DayHigh > m.DayLow {
			span = m.DayHigh - m.DayLow
		}
		priceMin = m.Spot - span
		priceMax = m.Spot + span
	}
	if priceMin <= 0 {
		priceMin = PennyFloor
	}

	cal := e.calibrator(c, m, totalHours)
	step := (priceMax - priceMin) / float64(sweepPoints-1)

	points := make([]SweepPoint, 0, sweepPoints)
	for i := 0; i < sweepPoints; i++ {
		price := priceMin + step*float64(i)
		value := cal.Value(price, hoursLeft)
		points = append(points, SweepPoint{
			StockPrice:  price,
			Profit:      (value - c.ObservedPrice) * 100,
			OptionValue: value,
		})
	}
	return points
}

// ProjectMatrix produces the price-by-time P&L surface. rows/cols <= 0 take
// the defaults (20 price levels at +/-10% of spot, 12 time checkpoints evenly
// spaced from now to expiry). Each column is recalibrated through the same
// time-blended factor, so cell (row, col) reflects both the price move and
// the decay of the market-price correction.
func (e *Estimator) ProjectMatrix(c Contract, m Market, totalHours float64, rows, cols int) *Matrix {
	if c.ObservedPrice <= 0 || m.Spot <= 0 {
		return nil
	}
	if rows < 2 {
		rows = matrixPriceRows
	}
	if cols < 2 {
		cols = matrixTimeCols
	}

	cal := e.calibrator(c, m, totalHours)

	prices := make([]float64, rows)
	low := m.Spot * (1 - matrixPriceSpan)
	high := m.Spot * (1 + matrixPriceSpan)
	for i := 0; i < rows; i++ {
		prices[i] = low + (high-low)*float64(i)/float64(rows-1)
	}

	hours := make([]float64, cols)
	for j := 0; j < cols; j++ {
		hours[j] = totalHours * (1 - float64(j)/float64(cols-1))
	}

	grid := make([][]float64, rows)
	for i := range grid {
		grid[i] = make([]float64, cols)
		for j := range grid[i] {
			value := cal.Value(prices[i], hours[j])
			grid[i][j] = (value - c.ObservedPrice) / c.ObservedPrice * 100
		}
	}

	return &Matrix{Prices: prices, Hours: hours, ProfitPct: grid}
}

// ProjectROICurves produces, for each return target, the stock price required
// to hold the option at that value across evenly spaced time points from now
// to expiry. targets == nil uses ROITargets.
func (e *Estimator) ProjectROICurves(c Contract, m Market, totalHours float64, targets []float64) []ROICurve {
	if c.ObservedPrice <= 0 || m.Spot <= 0 {
		return nil
	}
	if targets == nil {
		targets = ROITargets
	}

	cal := e.calibrator(c, m, totalHours)
	solver := NewSolver(cal)

	curves := make([]ROICurve, 0, len(targets))
	for _, pct := range targets {
		targetValue := c.ObservedPrice * (1 + pct/100)
		if targetValue < PennyFloor {
			targetValue = PennyFloor
		}

		points := make([]ROIPoint, 0, roiTimePoints)
		for i := 0; i < roiTimePoints; i++ {
			h := totalHours * (1 - float64(i)/float64(roiTimePoints-1))
			points = append(points, ROIPoint{
				HoursLeft: h,
				Price:     solver.PriceForTargetValue(targetValue, h),
			})
		}

		curves = append(curves, ROICurve{
			Label:   roiLabel(pct),
			Percent: pct,
			Points:  points,
		})
	}
	return curves
}

func roiLabel(pct float64) string {
	switch {
	case pct == 0:
		return "breakeven"
	case pct > 0:
		return "+" + strconv.FormatFloat(pct, 'f', -1, 64) + "%"
	default:
		return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
	}
}
