package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-sampler/dsp/interp"
	"github.com/cwbudde/algo-sampler/dsp/window"
)

var (
	// ErrInvalidChannels indicates a channel count below 1.
	ErrInvalidChannels = errors.New("resample: invalid channel count")
	// ErrInvalidQuality indicates an unknown quality setting.
	ErrInvalidQuality = errors.New("resample: invalid quality")
)

// kernelTableSteps is the number of window table points per half width.
const kernelTableSteps = 512

// Result reports how many input frames a call consumed and how many output
// frames it wrote.
type Result struct {
	Used      int
	Generated int
}

type config struct {
	quality    Quality
	kaiserBeta float64
}

// Option configures a Resampler.
type Option func(*config)

// WithQuality selects the interpolation algorithm.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithKaiserBeta overrides the Kaiser window beta of the sinc kernels.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta >= 0 {
			cfg.kaiserBeta = beta
		}
	}
}

func defaultConfig() config {
	return config{
		quality:    QualitySincBest,
		kaiserBeta: window.DefaultKaiserBeta,
	}
}

// Resampler converts a window of source frames into output frames at a
// variable pitch ratio. Its read position and interpolation history carry
// over from one Process call to the next, so a long read split into
// contiguous calls yields exactly the output of a single call. Last discards
// that state.
//
// The zero value is not usable; construct with New. A Resampler is not safe
// for concurrent use.
type Resampler struct {
	quality  Quality
	channels int
	left     int
	right    int
	width    int

	// hist is a ring of the last width consumed frames, interleaved. Stream
	// frame s lives at slot s mod width.
	hist  []float64
	total int
	pos   int
	frac  float64

	// draining is set by Drain; tailEnd is the stream length at that point.
	draining bool
	tailEnd  int

	table []float64
	taps  []float64
	win   []float64
}

// New creates a resampler for buffers with the given channel count.
func New(channels int, opts ...Option) (*Resampler, error) {
	if channels < 1 {
		return nil, ErrInvalidChannels
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !cfg.quality.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, int(cfg.quality))
	}

	left, right := cfg.quality.reach()
	r := &Resampler{
		quality:  cfg.quality,
		channels: channels,
		left:     left,
		right:    right,
		width:    left + right,
		hist:     make([]float64, (left+right)*channels),
		taps:     make([]float64, left+right),
		win:      make([]float64, left+right),
	}

	if cfg.quality.isSinc() {
		// The right half of a symmetric Kaiser window, indexed by |d|/right.
		full, err := window.Kaiser(2*kernelTableSteps+1, cfg.kaiserBeta)
		if err != nil {
			return nil, err
		}
		r.table = full[kernelTableSteps:]
	}

	return r, nil
}

// Quality returns the algorithm fixed at construction.
func (r *Resampler) Quality() Quality { return r.quality }

// Channels returns the channel count fixed at construction.
func (r *Resampler) Channels() int { return r.channels }

// Latency returns the number of frames past the read position that must be
// available before an output frame can be produced.
func (r *Resampler) Latency() int { return r.right }

// Last discards the read position and interpolation history. The next
// Process call starts a fresh stream as if no audio preceded it. Calling
// Last repeatedly is the same as calling it once.
func (r *Resampler) Last() {
	clear(r.hist)
	r.total = 0
	r.pos = 0
	r.frac = 0
	r.draining = false
	r.tailEnd = 0
}

// Pending returns how many consumed frames the read position has not yet
// passed. These are the frames a caller must read again when it abandons
// the stream at this point. It is negative when the read position has
// run ahead of the consumed input.
func (r *Resampler) Pending() int {
	if r.draining {
		return r.tailEnd - r.pos
	}
	return r.total - r.pos
}

// Process reads frames from in[inPos:inPos+inLen] and writes pitch-shifted
// frames to out[outPos:outPos+outLen]. A pitch of 2 reads the source twice
// as fast. It stops as soon as either window is exhausted and never touches
// frames outside them.
//
// Process does not allocate. Channel mismatches, windows outside the
// buffers, and non-positive or non-finite pitch panic.
func (r *Resampler) Process(in *buffer.Audio, inPos, inLen int, out *buffer.Audio, outPos, outLen int, pitch float64) Result {
	r.check(in, inPos, inLen, out, outPos, outLen, pitch)
	if r.draining {
		panic("resample: process after drain without last")
	}

	var res Result
	src := in.Data()
	dst := out.Data()
	ch := r.channels

	for res.Generated < outLen {
		for r.pos+r.right >= r.total {
			if res.Used >= inLen {
				return res
			}
			at := (inPos + res.Used) * ch
			slot := (r.total % r.width) * ch
			copy(r.hist[slot:slot+ch], src[at:at+ch])
			r.total++
			res.Used++
		}

		at := (outPos + res.Generated) * ch
		r.render(dst[at:at+ch], pitch)
		res.Generated++
		r.advance(pitch)
	}

	return res
}

// Drain writes the output frames still held back by the lookahead, reading
// silence past the last consumed frame, to out[outPos:outPos+outLen]. Used
// is always 0. When out fills first, call Drain again to continue; the tail
// is done once Pending is no longer positive. Last must be called before
// the next Process.
//
// Drain does not allocate and panics under the same conditions as Process.
func (r *Resampler) Drain(out *buffer.Audio, outPos, outLen int, pitch float64) Result {
	r.check(out, 0, 0, out, outPos, outLen, pitch)
	if !r.draining {
		r.draining = true
		r.tailEnd = r.total
	}

	var res Result
	dst := out.Data()
	ch := r.channels
	for res.Generated < outLen && r.pos < r.tailEnd {
		for r.pos+r.right >= r.total {
			slot := (r.total % r.width) * ch
			clear(r.hist[slot : slot+ch])
			r.total++
		}

		at := (outPos + res.Generated) * ch
		r.render(dst[at:at+ch], pitch)
		res.Generated++
		r.advance(pitch)
	}

	return res
}

func (r *Resampler) advance(pitch float64) {
	r.frac += pitch
	step := math.Floor(r.frac)
	r.pos += int(step)
	r.frac -= step
}

func (r *Resampler) check(in *buffer.Audio, inPos, inLen int, out *buffer.Audio, outPos, outLen int, pitch float64) {
	if in.CountChannels() != r.channels || out.CountChannels() != r.channels {
		panic(fmt.Sprintf("resample: channel mismatch: resampler %d, in %d, out %d",
			r.channels, in.CountChannels(), out.CountChannels()))
	}
	if inPos < 0 || inLen < 0 || inPos+inLen > in.CountFrames() {
		panic(fmt.Sprintf("resample: input window [%d,%d) outside [0,%d)", inPos, inPos+inLen, in.CountFrames()))
	}
	if outPos < 0 || outLen < 0 || outPos+outLen > out.CountFrames() {
		panic(fmt.Sprintf("resample: output window [%d,%d) outside [0,%d)", outPos, outPos+outLen, out.CountFrames()))
	}
	if !core.IsFinitePositive(pitch) {
		panic(fmt.Sprintf("resample: invalid pitch %v", pitch))
	}
}

// render writes one output frame interpolated at pos+frac.
func (r *Resampler) render(frame []float64, pitch float64) {
	if r.quality.isSinc() {
		r.sincTaps(pitch)
	}

	first := r.pos - r.left + 1
	for c := range frame {
		for k := range r.win {
			r.win[k] = r.hist[r.slot(first+k)*r.channels+c]
		}

		var y float64
		switch r.quality {
		case QualityZeroOrderHold:
			y = interp.Hold(r.frac, r.win[0])
		case QualityLinear:
			y = interp.Linear2(r.frac, r.win[0], r.win[1])
		case QualityCubic:
			y = interp.Hermite4(r.frac, r.win[0], r.win[1], r.win[2], r.win[3])
		default:
			for k, w := range r.win {
				y += r.taps[k] * w
			}
		}
		frame[c] = core.FlushDenormals(y)
	}
}

// sincTaps fills r.taps with the windowed-sinc weights for the current
// fractional position. Above unity pitch the cutoff drops to 1/pitch so the
// faster read does not fold content above the new Nyquist back down.
func (r *Resampler) sincTaps(pitch float64) {
	cutoff := 1.0
	if pitch > 1 {
		cutoff = 1 / pitch
	}

	half := float64(r.right)
	var sum float64
	for k := range r.taps {
		d := float64(k-r.left+1) - r.frac
		h := cutoff * interp.Sinc(cutoff*d) * r.windowAt(math.Abs(d)/half)
		r.taps[k] = h
		sum += h
	}

	if sum != 0 {
		inv := 1 / sum
		for k := range r.taps {
			r.taps[k] *= inv
		}
	}
}

func (r *Resampler) windowAt(u float64) float64 {
	x := u * kernelTableSteps
	i := int(x)
	if i >= kernelTableSteps {
		return r.table[kernelTableSteps]
	}
	return interp.Linear2(x-float64(i), r.table[i], r.table[i+1])
}

func (r *Resampler) slot(s int) int {
	m := s % r.width
	if m < 0 {
		m += r.width
	}
	return m
}
