package service

import "math"

// regressionResult holds a closed-form ordinary least squares fit.
type regressionResult struct {
	Slope     float64
	Intercept float64
	R         float64 // Pearson correlation coefficient
	R2        float64
	N         int
}

// linearRegression fits y on x. ok is false when fewer than two points are
// given or x carries no variance (e.g. all samples share one timestamp).
func linearRegression(xs, ys []float64) (regressionResult, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return regressionResult{}, false
	}

	meanX := mean(xs)
	meanY := mean(ys)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	if sxx == 0 {
		return regressionResult{}, false
	}

	res := regressionResult{
		Slope: sxy / sxx,
		N:     n,
	}
	res.Intercept = meanY - res.Slope*meanX

	// A flat y series has r = 0 by convention.
	if syy > 0 {
		res.R = sxy / math.Sqrt(sxx*syy)
		res.R2 = res.R * res.R
	}

	return res, true
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance is the population variance of xs.
func variance(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(n)
}

// normalCDF is the cumulative distribution function of the standard normal.
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// twoSidedPValue approximates the two-tailed p-value for a correlation
// coefficient r over n samples, using the normal approximation of the
// t statistic.
func twoSidedPValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	absR := math.Abs(r)
	if absR >= 1 {
		return 0
	}
	t := absR * math.Sqrt(float64(n-2)/(1-absR*absR))
	return 2 * (1 - normalCDF(t))
}
