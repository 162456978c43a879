package metrics

import "math"

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev computes the population standard deviation.
// Returns 0 for empty input.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// MinMax returns the smallest and largest value in the slice.
// Returns (0, 0) for empty input.
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// ConfidenceMargin95 returns the half-width of the 95% confidence
// interval around the mean, using the normal approximation (z=1.96).
// The interval is symmetric, so the mean plus or minus this margin
// recovers it. Returns 0 when fewer than 2 data points are available.
func ConfidenceMargin95(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := Mean(values)
	// sample standard deviation (Bessel's correction)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	sampleSD := math.Sqrt(sumSq / float64(n-1))
	return 1.96 * sampleSD / math.Sqrt(float64(n))
}
