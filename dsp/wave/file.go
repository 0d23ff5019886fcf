package wave

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/dither"
	"github.com/cwbudde/algo-sampler/dsp/resample"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/flac"
)

type loadConfig struct {
	targetRate int
	quality    resample.Quality
	stereo     bool
}

// LoadOption configures [Load] and [Decode].
type LoadOption func(*loadConfig)

// WithTargetRate converts the decoded samples to rate when the file uses a
// different one. The converter profile follows q.
func WithTargetRate(rate int, q resample.Quality) LoadOption {
	return func(c *loadConfig) {
		c.targetRate = rate
		c.quality = q
	}
}

// WithStereo duplicates a mono file into two channels.
func WithStereo() LoadOption {
	return func(c *loadConfig) { c.stereo = true }
}

// Load decodes a WAV or FLAC file. The format is detected from the file
// header, not the extension.
func Load(path string, opts ...LoadOption) (*Wave, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wave: open %s: %w", path, err)
	}
	defer f.Close()

	w, err := decode(f, path, opts)
	if err != nil {
		return nil, fmt.Errorf("wave: load %s: %w", path, err)
	}
	return w, nil
}

// Decode reads a WAV or FLAC stream from rs.
func Decode(rs io.ReadSeeker, opts ...LoadOption) (*Wave, error) {
	return decode(rs, "", opts)
}

func decode(rs io.ReadSeeker, path string, opts []LoadOption) (*Wave, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	magic := make([]byte, 4)
	if _, err := io.ReadFull(rs, magic); err != nil {
		return nil, fmt.Errorf("%w: short header", ErrUnsupportedFormat)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var (
		pcm pcmData
		err error
	)
	switch {
	case bytes.Equal(magic, []byte("RIFF")):
		pcm, err = decodeWAV(rs)
	case bytes.Equal(magic, []byte("fLaC")):
		pcm, err = decodeFLAC(rs)
	default:
		return nil, fmt.Errorf("%w: header %q", ErrUnsupportedFormat, magic)
	}
	if err != nil {
		return nil, err
	}

	buf := buffer.FromInterleaved(pcm.samples, pcm.channels)
	if cfg.stereo && pcm.channels == 1 {
		buf = upmix(buf)
	}

	rate := pcm.rate
	if cfg.targetRate > 0 && cfg.targetRate != rate {
		conv, err := resample.NewForRates(float64(rate), float64(cfg.targetRate),
			resample.WithConverterQuality(cfg.quality.ConverterQuality()))
		if err != nil {
			return nil, err
		}
		buf = conv.ConvertBuffer(buf)
		rate = cfg.targetRate
	}

	return New(rate, buf, WithPath(path), WithBitDepth(pcm.bitDepth))
}

type pcmData struct {
	samples  []float64
	channels int
	rate     int
	bitDepth int
}

func decodeWAV(rs io.ReadSeeker) (pcmData, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return pcmData{}, fmt.Errorf("%w: invalid WAV file", ErrUnsupportedFormat)
	}

	bits := int(dec.BitDepth)
	scale, err := pcmScale(bits)
	if err != nil {
		return pcmData{}, err
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return pcmData{}, fmt.Errorf("wave: read WAV data: %w", err)
	}

	samples := make([]float64, len(ib.Data))
	for i, v := range ib.Data {
		if bits == 8 {
			// 8-bit WAV is unsigned around 128.
			v -= 128
		}
		samples[i] = float64(v) / scale
	}

	return pcmData{
		samples:  samples,
		channels: int(dec.NumChans),
		rate:     int(dec.SampleRate),
		bitDepth: bits,
	}, nil
}

func decodeFLAC(r io.Reader) (pcmData, error) {
	dec, err := flac.NewDecoder(r)
	if err != nil {
		return pcmData{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	bits := dec.BitsPerSample
	scale, err := pcmScale(bits)
	if err != nil {
		return pcmData{}, err
	}
	width := bits / 8
	if bits == 8 {
		return pcmData{}, fmt.Errorf("%w: 8-bit FLAC", ErrUnsupportedBitDepth)
	}

	samples := make([]float64, 0, int(dec.TotalSamples)*dec.NChannels)
	for {
		frame, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pcmData{}, fmt.Errorf("wave: read FLAC frame: %w", err)
		}
		for i := 0; i+width <= len(frame); i += width {
			var s int32
			switch bits {
			case 16:
				s = int32(int16(binary.LittleEndian.Uint16(frame[i:])))
			case 24:
				s = int32(frame[i]) | int32(frame[i+1])<<8 | int32(frame[i+2])<<16
				if s&0x800000 != 0 {
					s |= -1 << 24
				}
			case 32:
				s = int32(binary.LittleEndian.Uint32(frame[i:]))
			}
			samples = append(samples, float64(s)/scale)
		}
	}

	return pcmData{
		samples:  samples,
		channels: dec.NChannels,
		rate:     dec.SampleRate,
		bitDepth: bits,
	}, nil
}

// pcmScale returns the full-scale magnitude for a signed PCM bit depth.
func pcmScale(bits int) (float64, error) {
	switch bits {
	case 8:
		return 128, nil
	case 16:
		return 32768, nil
	case 24:
		return 8388608, nil
	case 32:
		return 2147483648, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}
}

func upmix(mono *buffer.Audio) *buffer.Audio {
	out := buffer.New(mono.CountFrames(), 2)
	for i := range mono.CountFrames() {
		v := mono.At(i, 0)
		out.SetAt(i, 0, v)
		out.SetAt(i, 1, v)
	}
	return out
}

type saveConfig struct {
	dither dither.Type
	seed   uint64
	seeded bool
}

// SaveOption configures [Save].
type SaveOption func(*saveConfig)

// WithDither adds dither noise of type t before quantization.
func WithDither(t dither.Type) SaveOption {
	return func(c *saveConfig) { c.dither = t }
}

// WithDitherSeed makes the dither noise reproducible.
func WithDitherSeed(seed uint64) SaveOption {
	return func(c *saveConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// Save writes w as PCM WAV with the given rate and bit depth (16, 24 or 32).
// Samples outside [-1, 1] are clipped.
func Save(path string, w Source, rate, bitDepth int, opts ...SaveOption) error {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if rate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidWave, rate)
	}

	var cfg saveConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	qopts := []dither.Option{dither.WithType(cfg.dither)}
	if cfg.seeded {
		qopts = append(qopts, dither.WithSeed(cfg.seed))
	}
	quant, err := dither.NewQuantizer(bitDepth, qopts...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("wave: create directories: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wave: create %s: %w", path, err)
	}
	defer f.Close()

	buf := w.Buffer()
	data := make([]int, buf.CountSamples())
	quant.ProcessBlock(data, buf.Data())

	channels := buf.CountChannels()
	enc := wav.NewEncoder(f, rate, bitDepth, channels, 1)
	if err := enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: rate, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}); err != nil {
		return fmt.Errorf("wave: encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wave: finalize %s: %w", path, err)
	}
	return f.Close()
}
