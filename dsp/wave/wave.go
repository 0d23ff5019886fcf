package wave

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/google/uuid"
)

var (
	// ErrInvalidWave indicates a wave with a bad rate or an empty channel layout.
	ErrInvalidWave = errors.New("wave: invalid wave")
	// ErrUnsupportedFormat indicates a file that is neither WAV nor FLAC.
	ErrUnsupportedFormat = errors.New("wave: unsupported format")
	// ErrUnsupportedBitDepth indicates a PCM bit depth outside 8, 16, 24 and 32.
	ErrUnsupportedBitDepth = errors.New("wave: unsupported bit depth")
)

// Source is the read side of a waveform. Readers are generic over it so that
// tests can swap in a lightweight stand-in.
type Source interface {
	// Buffer returns the interleaved samples. Callers must not resize it.
	Buffer() *buffer.Audio
	// FrameCount returns the number of frames; it is constant.
	FrameCount() int
}

// Wave is an immutable-shape sample buffer plus its metadata.
type Wave struct {
	id       uuid.UUID
	path     string
	rate     int
	bitDepth int
	buf      *buffer.Audio
}

var _ Source = (*Wave)(nil)

type config struct {
	path     string
	bitDepth int
	id       uuid.UUID
}

// Option configures [New].
type Option func(*config)

// WithPath records the file the samples came from.
func WithPath(path string) Option {
	return func(c *config) { c.path = path }
}

// WithBitDepth records the source PCM bit depth. It defaults to 32.
func WithBitDepth(bits int) Option {
	return func(c *config) { c.bitDepth = bits }
}

// WithID sets the wave ID instead of generating a random one. Patch loading
// uses it to keep IDs stable across sessions.
func WithID(id uuid.UUID) Option {
	return func(c *config) { c.id = id }
}

// New wraps buf in a wave. The buffer is taken over, not copied.
func New(rate int, buf *buffer.Audio, opts ...Option) (*Wave, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidWave, rate)
	}
	if buf == nil || buf.CountChannels() < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidWave)
	}

	cfg := config{bitDepth: 32}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == uuid.Nil {
		cfg.id = uuid.New()
	}

	return &Wave{
		id:       cfg.id,
		path:     cfg.path,
		rate:     rate,
		bitDepth: cfg.bitDepth,
		buf:      buf,
	}, nil
}

// ID returns the wave identity.
func (w *Wave) ID() uuid.UUID { return w.id }

// Path returns the source file path, or "" for generated waves.
func (w *Wave) Path() string { return w.path }

// Rate returns the sample rate in Hz.
func (w *Wave) Rate() int { return w.rate }

// BitDepth returns the PCM bit depth of the source.
func (w *Wave) BitDepth() int { return w.bitDepth }

// Channels returns the channel count.
func (w *Wave) Channels() int { return w.buf.CountChannels() }

// FrameCount returns the number of frames.
func (w *Wave) FrameCount() int { return w.buf.CountFrames() }

// Buffer returns the interleaved samples.
func (w *Wave) Buffer() *buffer.Audio { return w.buf }

// Duration returns the playback length at the wave's own rate.
func (w *Wave) Duration() time.Duration {
	return time.Duration(float64(w.FrameCount()) / float64(w.rate) * float64(time.Second))
}

func (w *Wave) String() string {
	return fmt.Sprintf("wave %s (%d frames, %d ch, %d Hz)", w.id, w.FrameCount(), w.Channels(), w.rate)
}
