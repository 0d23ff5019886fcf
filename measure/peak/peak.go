// Package peak estimates the dominant frequency of a signal from its
// power spectrum.
package peak

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-sampler/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrEmptySignal indicates a signal with fewer than two samples.
	ErrEmptySignal = errors.New("peak: empty signal")
	// ErrInvalidSampleRate indicates a non-positive or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("peak: invalid sample rate")
)

// Result describes the strongest spectral peak.
type Result struct {
	// FrequencyHz is the interpolated peak frequency.
	FrequencyHz float64
	// Bin is the fractional FFT bin of the peak.
	Bin float64
	// Power is the squared magnitude of the strongest bin.
	Power float64
}

type config struct {
	fftSize int
	lowHz   float64
	highHz  float64
}

// Option configures [Estimate].
type Option func(*config)

// WithFFTSize sets the transform length. It is rounded up to a power of two.
// By default the next power of two at or above the signal length is used.
func WithFFTSize(n int) Option {
	return func(c *config) {
		if n > 1 {
			c.fftSize = nextPowerOf2(n)
		}
	}
}

// WithRange limits the search to [lowHz, highHz].
func WithRange(lowHz, highHz float64) Option {
	return func(c *config) {
		if lowHz >= 0 && highHz > lowHz {
			c.lowHz = lowHz
			c.highHz = highHz
		}
	}
}

// Estimate returns the strongest peak of signal between the configured
// range limits, refined by parabolic interpolation over log power.
func Estimate(signal []float64, sampleRate float64, opts ...Option) (Result, error) {
	if len(signal) < 2 {
		return Result{}, ErrEmptySignal
	}
	if sampleRate <= 0 || math.IsInf(sampleRate, 0) || math.IsNaN(sampleRate) {
		return Result{}, ErrInvalidSampleRate
	}

	cfg := config{lowHz: 0, highHz: sampleRate / 2}
	for _, opt := range opts {
		opt(&cfg)
	}
	fftSize := cfg.fftSize
	if fftSize == 0 {
		fftSize = nextPowerOf2(len(signal))
	}

	n := min(len(signal), fftSize)
	coeffs, err := window.Hann(n, window.WithPeriodic())
	if err != nil {
		return Result{}, err
	}
	windowed := make([]float64, n)
	copy(windowed, signal[:n])
	if err := window.ApplyCoefficients(windowed, coeffs); err != nil {
		return Result{}, err
	}

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, err
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, err
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for k := range half {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}
	power := make([]float64, half)
	vecmath.Power(power, re, im)

	binHz := sampleRate / float64(fftSize)
	lo := clampInt(int(math.Ceil(cfg.lowHz/binHz)), 0, half-1)
	hi := clampInt(int(math.Floor(cfg.highHz/binHz)), lo, half-1)

	best := lo
	for k := lo + 1; k <= hi; k++ {
		if power[k] > power[best] {
			best = k
		}
	}

	bin := float64(best)
	if best > 0 && best < half-1 {
		bin += parabolicOffset(power[best-1], power[best], power[best+1])
	}

	return Result{
		FrequencyHz: bin * binHz,
		Bin:         bin,
		Power:       power[best],
	}, nil
}

// parabolicOffset fits a parabola through three log-power values and
// returns the vertex offset from the middle one, in [-0.5, 0.5].
func parabolicOffset(a, b, c float64) float64 {
	if a <= 0 || b <= 0 || c <= 0 {
		return 0
	}
	la, lb, lc := math.Log(a), math.Log(b), math.Log(c)
	den := la - 2*lb + lc
	if den == 0 {
		return 0
	}
	return math.Max(-0.5, math.Min(0.5, 0.5*(la-lc)/den))
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
