package wave

import "math"

// Peak returns the largest absolute sample value across all channels.
func Peak(w Source) float64 {
	var peak float64
	for _, v := range w.Buffer().Data() {
		peak = math.Max(peak, math.Abs(v))
	}
	return peak
}

// NormalizeGain returns the gain that would bring the peak of w to 1.0
// without touching the samples. A silent wave yields 1.
func NormalizeGain(w Source) float64 {
	peak := Peak(w)
	if peak == 0 {
		return 1
	}
	return 1 / peak
}

// Normalize scales w in place so that its peak reaches 1.0 and returns the
// applied gain. Readers of w must be stopped.
func Normalize(w Source) float64 {
	g := NormalizeGain(w)
	if g != 1 {
		Gain(w, g)
	}
	return g
}

// Gain multiplies every sample of w by g. Readers of w must be stopped.
func Gain(w Source, g float64) {
	w.Buffer().Scale(g)
}
