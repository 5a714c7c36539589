package dsp

import (
	"math"
	"sort"
)

// referenceA4 is the standard tuning reference in Hz.
const referenceA4 = 440.0

// GeometricMean computes the geometric mean of values without overflowing or
// underflowing the running product. Each value is split into mantissa and
// exponent; mantissas are multiplied (and renormalized) while exponents are
// summed separately. Returns 0 if values is empty or any value is exactly 0.
func GeometricMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mantissa := 1.0
	exponent := 0
	for _, v := range values {
		if v == 0 {
			return 0
		}
		m, e := math.Frexp(v)
		mantissa *= m
		exponent += e
		// Renormalize so the running mantissa stays in a safe range.
		m, e = math.Frexp(mantissa)
		mantissa = m
		exponent += e
	}

	n := float64(len(values))
	return math.Pow(mantissa, 1/n) * math.Exp2(float64(exponent)/n)
}

// HzToOctave converts a frequency to its octave number relative to a
// tuning-adjusted A440 reference, with binsPerOctave bins per octave.
// With tuning 0, 440 Hz maps to octave 4 and 880 Hz to octave 5.
func HzToOctave(freq, tuning float64, binsPerOctave int) float64 {
	a440 := referenceA4 * math.Exp2(tuning/float64(binsPerOctave))
	return math.Log2(16 * freq / a440)
}

// CountZeroCrossings counts polarity flips within window. A sample is
// positive when >= 0, so a run of zeros produces no crossings. The initial
// polarity is taken from the first sample.
func CountZeroCrossings(window []float32) int {
	if len(window) == 0 {
		return 0
	}
	crossings := 0
	positive := window[0] >= 0
	for _, s := range window[1:] {
		if (s >= 0) != positive {
			crossings++
			positive = s >= 0
		}
	}
	return crossings
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStdDev returns the population standard deviation of values
// around their mean (divisor n, not n-1).
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Median returns the midpoint-interpolated median of values: for an even
// count, the average of the two middle elements. Returns 0 for an empty
// slice. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
