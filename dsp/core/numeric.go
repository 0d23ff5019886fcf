package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// FlushDenormals converts tiny denormal-like values to exact zero.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// SemitonesToRatio converts a transposition in semitones to a pitch ratio.
// 12 semitones up doubles playback speed.
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// RatioToSemitones converts a pitch ratio to semitones.
// Returns NaN for non-positive ratios.
func RatioToSemitones(ratio float64) float64 {
	if ratio <= 0 {
		return math.NaN()
	}

	return 12 * math.Log2(ratio)
}

// IsFinitePositive reports whether v is a finite value greater than zero.
func IsFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
