package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeKaiser
)

// DefaultKaiserBeta gives roughly 80 dB of sidelobe rejection.
const DefaultKaiserBeta = 8.6

var errMismatchedLength = errors.New("window: samples and coefficients must have same length")

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{alpha: DefaultKaiserBeta}
}

// WithAlpha configures the beta parameter of the Kaiser window.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
		}
	}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)
		switch t {
		case TypeHann:
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
		case TypeKaiser:
			out[i] = kaiserAt(x, cfg.alpha)
		default:
			out[i] = 1
		}
	}

	return out
}

// ApplyCoefficients multiplies samples with precomputed coefficients in place.
func ApplyCoefficients(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}
	if len(samples) == 0 {
		return nil
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window: size must be > 0: %d", size)
	}

	return Generate(TypeHann, size, opts...), nil
}

// Kaiser returns Kaiser window coefficients.
func Kaiser(size int, beta float64, opts ...Option) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window: size must be > 0: %d", size)
	}
	if beta < 0 || math.IsNaN(beta) {
		return nil, fmt.Errorf("window: kaiser beta must be >= 0: %f", beta)
	}

	return Generate(TypeKaiser, size, append(opts, WithAlpha(beta))...), nil
}

// kaiserAt evaluates the Kaiser window at normalized position x in [0, 1].
func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1
	term := math.Sqrt(math.Max(0, 1-r*r))

	return besselI0(beta*term) / besselI0(beta)
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0.5
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

// besselI0 is the polynomial approximation of the zeroth-order modified
// Bessel function of the first kind.
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := x / 3.75
		y *= y

		return 1.0 + y*(3.5156229+y*(3.0899424+y*(1.2067492+y*(0.2659732+y*(0.0360768+y*0.0045813)))))
	}

	y := 3.75 / ax

	return (math.Exp(ax) / math.Sqrt(ax)) *
		(0.39894228 + y*(0.01328592+y*(0.00225319+y*(-0.00157565+y*(0.00916281+y*(-0.02057706+y*(0.02635537+y*(-0.01647633+y*0.00392377))))))))
}
