package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sampler/dsp/interp"
	"github.com/cwbudde/algo-sampler/dsp/window"
)

// designPhases builds the up branches of a Kaiser-windowed sinc low-pass
// prototype of up*tapsPerPhase taps. Branch ph holds prototype taps
// ph, ph+up, ph+2*up and so on. Every branch is scaled to unit DC gain so
// that a constant input converts to the same constant whatever the phase.
func designPhases(up, down, tapsPerPhase int, p Profile) ([][]float64, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}
	if tapsPerPhase <= 0 {
		return nil, errors.New("resample: taps per phase must be > 0")
	}

	// Cutoff in cycles per upsampled frame, below both Nyquist limits.
	fc := p.CutoffScale * 0.5 / float64(max(up, down))
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	n := up * tapsPerPhase
	win, err := window.Kaiser(n, p.KaiserBeta)
	if err != nil {
		return nil, err
	}
	mid := float64(n-1) / 2

	phases := make([][]float64, up)
	for ph := range phases {
		branch := make([]float64, tapsPerPhase)
		var dc float64
		for j := range branch {
			i := j*up + ph
			branch[j] = interp.Sinc(2*fc*(float64(i)-mid)) * win[i]
			dc += branch[j]
		}
		if dc == 0 {
			return nil, fmt.Errorf("resample: phase %d has zero gain", ph)
		}
		for j := range branch {
			branch[j] /= dc
		}
		phases[ph] = branch
	}

	return phases, nil
}

// rateRatio expresses outRate/inRate as up/down. Integral rates, which is
// what audio files carry, reduce exactly. Other rates, and exact ratios
// whose denominator exceeds maxDen, fall back to the closest continued
// fraction convergent with a denominator of at most maxDen.
func rateRatio(inRate, outRate float64, maxDen int) (up, down int) {
	if inRate == math.Trunc(inRate) && outRate == math.Trunc(outRate) {
		num, den := int(outRate), int(inRate)
		g := gcd(num, den)
		if den/g <= maxDen {
			return num / g, den / g
		}
	}
	return convergent(outRate/inRate, maxDen)
}

func convergent(v float64, maxDen int) (num, den int) {
	h, hPrev := int(v), 1
	k, kPrev := 1, 0
	x := v - math.Floor(v)
	for x > 1e-12 {
		x = 1 / x
		a := int(x)
		x -= float64(a)
		if a*k+kPrev > maxDen {
			break
		}
		h, hPrev = a*h+hPrev, h
		k, kPrev = a*k+kPrev, k
	}
	if h <= 0 {
		return 1, 1
	}
	g := gcd(h, k)
	return h / g, k / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		a = -a
	}
	return max(a, 1)
}
