package estimator

import "math"

// Abramowitz & Stegun 26.2.17 rational approximation coefficients.
// These are fixed: downstream price curves are compared against recorded
// values, so the CDF has to reproduce the same digits run over run.
const (
	normA1 = 0.254829592
	normA2 = -0.284496736
	normA3 = 1.421413741
	normA4 = -1.453152027
	normA5 = 1.061405429
	normP  = 0.3275911
)

// NormCDF returns the standard normal cumulative distribution at x using the
// Abramowitz-Stegun error-function approximation (max abs error ~1.5e-7).
func NormCDF(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	z := math.Abs(x) / math.Sqrt2

	t := 1.0 / (1.0 + normP*z)
	y := 1.0 - (((((normA5*t+normA4)*t)+normA3)*t+normA2)*t+normA1)*t*math.Exp(-z*z)

	return 0.5 * (1.0 + sign*y)
}

// NormPDF returns the standard normal probability density at x.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
