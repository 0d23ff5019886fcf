package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

type config struct {
	ditherType Type
	amplitude  float64
	rng        *rand.Rand
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithType selects the dither distribution. Default is [None].
func WithType(t Type) Option {
	return func(c *config) error {
		if !t.Valid() {
			return fmt.Errorf("dither: invalid type %d", int(t))
		}
		c.ditherType = t
		return nil
	}
}

// WithAmplitude scales the dither noise in LSB. Default is 1.
func WithAmplitude(amp float64) Option {
	return func(c *config) error {
		if amp < 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
			return fmt.Errorf("dither: amplitude must be >= 0 and finite: %f", amp)
		}
		c.amplitude = amp
		return nil
	}
}

// WithSeed makes the noise sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) error {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return nil
	}
}

// Quantizer maps samples in [-1, 1] to signed integer codes of a fixed
// bit depth. Out-of-range input is clipped.
type Quantizer struct {
	bitDepth   int
	ditherType Type
	amplitude  float64
	rng        *rand.Rand

	scale  float64
	lo, hi int
}

// NewQuantizer returns a quantizer for bitDepth in [2, 32].
func NewQuantizer(bitDepth int, opts ...Option) (*Quantizer, error) {
	if bitDepth < 2 || bitDepth > 32 {
		return nil, fmt.Errorf("dither: bit depth must be in [2, 32]: %d", bitDepth)
	}

	cfg := config{ditherType: None, amplitude: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	scale := math.Exp2(float64(bitDepth-1)) - 1
	return &Quantizer{
		bitDepth:   bitDepth,
		ditherType: cfg.ditherType,
		amplitude:  cfg.amplitude,
		rng:        cfg.rng,
		scale:      scale,
		lo:         -int(scale) - 1,
		hi:         int(scale),
	}, nil
}

// ProcessInteger returns the PCM code for input.
func (q *Quantizer) ProcessInteger(input float64) int {
	x := q.scale * input
	switch q.ditherType {
	case Rectangular:
		x += q.amplitude * (q.rng.Float64() - 0.5)
	case Triangular:
		x += q.amplitude * (q.rng.Float64() - q.rng.Float64())
	}
	return max(q.lo, min(q.hi, int(math.Round(x))))
}

// ProcessBlock writes the PCM codes of src into dst, which must be at
// least as long as src.
func (q *Quantizer) ProcessBlock(dst []int, src []float64) {
	if len(dst) < len(src) {
		panic("dither: dst shorter than src")
	}
	for i, v := range src {
		dst[i] = q.ProcessInteger(v)
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither distribution.
func (q *Quantizer) Type() Type { return q.ditherType }
