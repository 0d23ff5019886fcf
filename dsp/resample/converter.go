package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/core"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// ConverterQuality controls the anti-aliasing filter of a [Converter].
type ConverterQuality int

const (
	// ConverterFast prioritizes lower CPU usage.
	ConverterFast ConverterQuality = iota
	// ConverterBalanced is the default quality/performance trade-off.
	ConverterBalanced
	// ConverterBest prioritizes stopband attenuation and passband flatness.
	ConverterBest
)

func (q ConverterQuality) String() string {
	switch q {
	case ConverterFast:
		return "fast"
	case ConverterBalanced:
		return "balanced"
	case ConverterBest:
		return "best"
	default:
		return fmt.Sprintf("ConverterQuality(%d)", int(q))
	}
}

// Profile exposes default filter parameters for each converter quality.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// ConverterProfile returns the default profile used by quality q.
func ConverterProfile(q ConverterQuality) Profile {
	switch q {
	case ConverterFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case ConverterBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

type converterConfig struct {
	quality      ConverterQuality
	tapsPerPhase int
	maxDen       int
}

// ConverterOption configures a Converter.
type ConverterOption func(*converterConfig)

// WithConverterQuality selects a predefined anti-aliasing profile.
func WithConverterQuality(q ConverterQuality) ConverterOption {
	return func(cfg *converterConfig) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) ConverterOption {
	return func(cfg *converterConfig) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithMaxDenominator caps denominator size for rate-ratio approximation.
func WithMaxDenominator(n int) ConverterOption {
	return func(cfg *converterConfig) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func applyConverterOptions(opts []ConverterOption) converterConfig {
	cfg := converterConfig{quality: ConverterBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.tapsPerPhase <= 0 {
		cfg.tapsPerPhase = ConverterProfile(cfg.quality).TapsPerPhase
	}
	return cfg
}

// Converter performs rational sample-rate conversion using a polyphase FIR.
// It is meant for load time, when a wave recorded at one rate is brought to
// the engine rate; it allocates and must not run on the audio thread.
type Converter struct {
	up   int
	down int

	quality ConverterQuality

	phases   [][]float64
	phaseLen int
	nTaps    int

	phase      int
	inputIndex int
	totalIn    int
	history    []float64
}

// NewRational creates a converter for ratio up/down.
func NewRational(up, down int, opts ...ConverterOption) (*Converter, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := applyConverterOptions(opts)

	phases, err := designPhases(up, down, cfg.tapsPerPhase, ConverterProfile(cfg.quality))
	if err != nil {
		return nil, err
	}

	return &Converter{
		up:       up,
		down:     down,
		quality:  cfg.quality,
		phases:   phases,
		phaseLen: cfg.tapsPerPhase,
		nTaps:    cfg.tapsPerPhase * up,
		history:  make([]float64, 0, cfg.tapsPerPhase-1),
	}, nil
}

// NewForRates creates a converter from inRate to outRate. Integral rates
// give the exact ratio; others are approximated within the maximum
// denominator.
func NewForRates(inRate, outRate float64, opts ...ConverterOption) (*Converter, error) {
	if !core.IsFinitePositive(inRate) || !core.IsFinitePositive(outRate) {
		return nil, ErrInvalidRate
	}

	cfg := applyConverterOptions(opts)
	up, down := rateRatio(inRate, outRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

// Reset clears internal filter state.
func (c *Converter) Reset() {
	c.phase = 0
	c.inputIndex = 0
	c.totalIn = 0
	c.history = c.history[:0]
}

// Process converts a mono block and preserves internal state for streaming.
func (c *Converter) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	out := make([]float64, 0, c.PredictOutputLen(len(input)))

	work := make([]float64, len(c.history)+len(input))
	copy(work, c.history)
	copy(work[len(c.history):], input)

	baseIndex := c.totalIn - len(c.history)
	lastAvail := c.totalIn + len(input) - 1

	for c.inputIndex <= lastAvail {
		taps := c.phases[c.phase]

		var y float64

		for k, h := range taps {
			idx := c.inputIndex - k
			if idx < baseIndex || idx > lastAvail {
				continue
			}

			y += h * work[idx-baseIndex]
		}

		out = append(out, y)

		c.phase += c.down
		c.inputIndex += c.phase / c.up
		c.phase %= c.up
	}

	c.totalIn += len(input)

	keep := min(c.phaseLen-1, len(work))
	c.history = append(c.history[:0], work[len(work)-keep:]...)

	return out
}

// PredictOutputLen estimates output samples generated for the next Process call.
func (c *Converter) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	lastAvail := c.totalIn + inputLen - 1
	i := c.inputIndex
	phase := c.phase

	count := 0
	for i <= lastAvail {
		count++
		phase += c.down
		i += phase / c.up
		phase %= c.up
	}

	return count
}

// ConvertBuffer converts every channel of in and returns a new buffer whose
// frame count is round(frames*up/down). The filter delay is compensated so
// that transients stay aligned with the source.
func (c *Converter) ConvertBuffer(in *buffer.Audio) *buffer.Audio {
	frames := in.CountFrames()
	channels := in.CountChannels()
	want := int(math.Round(float64(frames) * float64(c.up) / float64(c.down)))
	out := buffer.New(want, channels)
	if frames == 0 || want == 0 {
		return out
	}

	delay := int(math.Round(float64(c.nTaps-1) / 2 / float64(c.down)))
	pad := (delay+2)*c.down/c.up + c.phaseLen + 1

	mono := make([]float64, frames+pad)
	for ch := range channels {
		c.Reset()
		in.Channel(ch, mono[:frames])
		clear(mono[frames:])

		converted := c.Process(mono)
		for i := range want {
			j := i + delay
			if j >= len(converted) {
				break
			}
			out.SetAt(i, ch, converted[j])
		}
	}
	c.Reset()

	return out
}

// Ratio returns reduced up/down conversion factors.
func (c *Converter) Ratio() (up, down int) {
	return c.up, c.down
}

// Quality returns the configured quality.
func (c *Converter) Quality() ConverterQuality {
	return c.quality
}

// TapsPerPhase returns taps in each polyphase branch for phase 0.
func (c *Converter) TapsPerPhase() int {
	if len(c.phases) == 0 {
		return 0
	}

	return len(c.phases[0])
}
