package sampler

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-sampler/dsp/resample"
	"github.com/cwbudde/algo-sampler/dsp/wave"
)

const (
	// MinPitch is the lowest accepted pitch ratio.
	MinPitch = 0.1
	// MaxPitch is the highest accepted pitch ratio.
	MaxPitch = 4.0
)

// ErrChannelMismatch indicates a wave whose channel count differs from the player's.
var ErrChannelMismatch = errors.New("sampler: channel mismatch")

// Mode selects what happens when playback reaches the end point.
type Mode int

const (
	// ModeSingle plays once and stops at the end point.
	ModeSingle Mode = iota
	// ModeLoop wraps to the begin point.
	ModeLoop
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeLoop:
		return "loop"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type playerConfig struct {
	quality resample.Quality
	mode    Mode
	pitch   float64
	volume  float64
}

// PlayerOption configures [NewPlayer].
type PlayerOption func(*playerConfig)

// WithQuality selects the resampler quality. Default is sinc best.
func WithQuality(q resample.Quality) PlayerOption {
	return func(c *playerConfig) { c.quality = q }
}

// WithMode sets the initial playback mode.
func WithMode(m Mode) PlayerOption {
	return func(c *playerConfig) { c.mode = m }
}

// WithPitch sets the initial pitch ratio.
func WithPitch(p float64) PlayerOption {
	return func(c *playerConfig) { c.pitch = p }
}

// WithVolume sets the linear gain applied by a [Mixer].
func WithVolume(v float64) PlayerOption {
	return func(c *playerConfig) { c.volume = v }
}

// voiceResampler is the resampler a Player drives. Beyond Fill and Last it
// needs the lookahead count to hand over to the copy path, and Drain to
// render the tail of a pass. *resample.Resampler satisfies it.
type voiceResampler interface {
	Resampler
	Pending() int
	Drain(out *buffer.Audio, outPos, outLen int, pitch float64) resample.Result
}

var _ voiceResampler = (*resample.Resampler)(nil)

// Player is a single voice playing one wave between a begin and an end
// point. All frame positions are in wave frames.
type Player struct {
	reader   *WaveReader[*wave.Wave]
	rs       voiceResampler
	channels int

	begin, end, shift int
	pitch             float64
	volume            float64
	mode              Mode

	tracker int
	playing bool

	// resampled records whether the current stream goes through rs.
	resampled bool
	// passOut counts frames written since the last loop wrap; wrapped is
	// set once a full pass from begin has started.
	passOut int
	wrapped bool
}

// NewPlayer returns a stopped player with its own resampler.
func NewPlayer(channels int, opts ...PlayerOption) (*Player, error) {
	cfg := playerConfig{
		quality: resample.QualitySincBest,
		mode:    ModeSingle,
		pitch:   1,
		volume:  1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rs, err := resample.New(channels, resample.WithQuality(cfg.quality))
	if err != nil {
		return nil, err
	}

	p := &Player{
		channels: channels,
		mode:     cfg.mode,
		volume:   cfg.volume,
	}
	p.SetPitch(cfg.pitch)
	p.setResampler(rs)
	return p, nil
}

func (p *Player) setResampler(rs voiceResampler) {
	p.rs = rs
	p.reader = NewWaveReader[*wave.Wave](rs)
}

// restart begins a fresh stream on the path the current pitch selects.
func (p *Player) restart() {
	p.reader.Last()
	p.resampled = p.pitch != 1
}

// SetWave attaches w, stops playback and resets begin, end and shift.
func (p *Player) SetWave(w *wave.Wave) error {
	if w == nil {
		return fmt.Errorf("%w: nil wave", wave.ErrInvalidWave)
	}
	if w.Channels() != p.channels {
		return fmt.Errorf("%w: wave has %d, player has %d", ErrChannelMismatch, w.Channels(), p.channels)
	}
	p.reader.SetWave(w)
	p.restart()
	p.begin, p.end, p.shift = 0, 0, 0
	p.tracker = 0
	p.playing = false
	return nil
}

// Wave returns the attached wave, or nil.
func (p *Player) Wave() *wave.Wave {
	w, _ := p.reader.Wave()
	return w
}

// SetBegin sets the loop start frame.
func (p *Player) SetBegin(frame int) { p.begin = max(0, frame) }

// SetEnd sets the end frame. 0 plays to the end of the wave.
func (p *Player) SetEnd(frame int) { p.end = max(0, frame) }

// SetShift sets how far past the begin point Start positions the tracker.
func (p *Player) SetShift(frames int) { p.shift = max(0, frames) }

// SetPitch sets the pitch ratio, clamped to [MinPitch, MaxPitch].
func (p *Player) SetPitch(ratio float64) {
	if math.IsNaN(ratio) {
		ratio = 1
	}
	p.pitch = core.Clamp(ratio, MinPitch, MaxPitch)
}

// SetMode sets the playback mode.
func (p *Player) SetMode(m Mode) { p.mode = m }

// SetVolume sets the linear gain used by a mixer.
func (p *Player) SetVolume(v float64) { p.volume = max(0, v) }

// Pitch returns the pitch ratio.
func (p *Player) Pitch() float64 { return p.pitch }

// Volume returns the linear gain.
func (p *Player) Volume() float64 { return p.volume }

// Mode returns the playback mode.
func (p *Player) Mode() Mode { return p.mode }

// Bounds returns the effective begin and end frames for the attached wave.
func (p *Player) Bounds() (begin, end int) {
	w, ok := p.reader.Wave()
	if !ok {
		return 0, 0
	}
	n := w.FrameCount()
	end = p.end
	if end == 0 || end > n {
		end = n
	}
	begin = min(p.begin, end)
	return begin, end
}

// Start rewinds to begin+shift and starts playback with fresh resampler state.
func (p *Player) Start() {
	if _, ok := p.reader.Wave(); !ok {
		return
	}
	begin, end := p.Bounds()
	p.tracker = min(begin+p.shift, end)
	p.restart()
	p.passOut = 0
	p.wrapped = false
	p.playing = true
}

// Stop halts playback. The tracker keeps its position.
func (p *Player) Stop() { p.playing = false }

// Playing reports whether the player is producing audio.
func (p *Player) Playing() bool { return p.playing }

// Tracker returns the next wave frame to be read.
func (p *Player) Tracker() int { return p.tracker }

// Render fills the whole of out. Frames past the end of a single-shot
// sample are zeroed and playback stops.
//
// A resampled pass ends by draining the resampler, so the frames held
// back by its lookahead are still heard before the wrap. Switching between
// unity and shifted pitch hands the position over between the copy path and
// the resampler without skipping or repeating frames. A loop that yields no
// output over a whole pass stops.
func (p *Player) Render(out *buffer.Audio) {
	frames := out.CountFrames()
	if !p.playing {
		out.Clear()
		return
	}
	if out.CountChannels() != p.channels {
		panic(fmt.Sprintf("sampler: block has %d channels, player has %d", out.CountChannels(), p.channels))
	}

	begin, end := p.Bounds()
	offset := 0
	for offset < frames {
		if p.tracker >= end {
			if p.resampled && p.rs.Pending() > 0 {
				res := p.rs.Drain(out, offset, frames-offset, p.pitch)
				offset += res.Generated
				p.passOut += res.Generated
				continue
			}
			if p.mode != ModeLoop || begin >= end || (p.wrapped && p.passOut == 0) {
				p.playing = false
				break
			}
			p.tracker = begin
			p.restart()
			p.passOut = 0
			p.wrapped = true
		}

		if pitched := p.pitch != 1; pitched != p.resampled {
			if p.resampled {
				p.tracker = min(max(p.tracker-p.rs.Pending(), begin), end)
			}
			p.restart()
			continue
		}

		res := p.reader.Fill(out, p.tracker, end, offset, p.pitch)
		p.tracker += res.Used
		offset += res.Generated
		p.passOut += res.Generated
		if res.Used == 0 && res.Generated == 0 {
			break
		}
	}
	out.ClearRange(offset, frames)
}
