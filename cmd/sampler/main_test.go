package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"flag"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-sampler/dsp/sampler"
	"github.com/cwbudde/algo-sampler/dsp/wave"
	"github.com/cwbudde/algo-sampler/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampPlayer(t *testing.T, frames int, mode sampler.Mode, pitch float64) *sampler.Player {
	t.Helper()
	w, err := wave.New(44100, testutil.Ramp(frames, 2))
	require.NoError(t, err)
	p, err := sampler.NewPlayer(2, sampler.WithMode(mode), sampler.WithPitch(pitch))
	require.NoError(t, err)
	require.NoError(t, p.SetWave(w))
	return p
}

func TestRenderVoiceSingleShot(t *testing.T) {
	p := rampPlayer(t, 1000, sampler.ModeSingle, 1)
	cfg := core.ApplyProcessorOptions(core.WithBlockSize(128))

	var calls int
	out, err := renderVoice(context.Background(), p, cfg, 1, func(done, total int) {
		calls++
		assert.LessOrEqual(t, done, total)
	})
	require.NoError(t, err)
	assert.Equal(t, 1000, out.CountFrames())
	assert.Equal(t, 8, calls)
	assert.Equal(t, 999.0, out.At(999, 0))
	assert.Equal(t, 0.0, out.At(0, 0))
}

func TestRenderVoiceLoops(t *testing.T) {
	p := rampPlayer(t, 300, sampler.ModeLoop, 1)
	p.SetBegin(100)
	cfg := core.ApplyProcessorOptions(core.WithBlockSize(64))

	out, err := renderVoice(context.Background(), p, cfg, 3, nil)
	require.NoError(t, err)
	require.Equal(t, 600, out.CountFrames())
	for i := range 600 {
		require.Equal(t, float64(100+i%200), out.At(i, 0), "frame %d", i)
	}
}

func TestRenderVoiceEmptyRange(t *testing.T) {
	p := rampPlayer(t, 100, sampler.ModeSingle, 1)
	p.SetBegin(100)
	_, err := renderVoice(context.Background(), p, core.DefaultProcessorConfig(), 1, nil)
	assert.Error(t, err)
}

func TestRenderVoiceHonorsCancel(t *testing.T) {
	p := rampPlayer(t, 100000, sampler.ModeSingle, 1.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := renderVoice(ctx, p, core.DefaultProcessorConfig(), 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVoiceFlagsTranspose(t *testing.T) {
	var v voiceFlags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	v.register(fs)
	require.NoError(t, fs.Parse([]string{"-pitch", "1.5", "-transpose", "-12"}))
	assert.InDelta(t, 0.75, v.ratio(), 1e-12)
}

func TestProgressLine(t *testing.T) {
	line := progressLine(50, 100, 30)
	assert.True(t, strings.HasPrefix(line, "\r["))
	assert.Contains(t, line, " 50%")
	assert.Equal(t, 10, strings.Count(line, "#"))
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "A4 +0 cents", noteName(440))
	assert.Equal(t, "C4 +0 cents", noteName(261.6255653))
	assert.Equal(t, "-", noteName(0))
}

func TestFormatDB(t *testing.T) {
	assert.Equal(t, "0.00", formatDB(1))
	assert.Equal(t, "-6.02", formatDB(0.5))
	assert.Equal(t, "-inf", formatDB(0))
}

func TestPrintInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	w, err := wave.New(48000, buffer.FromInterleaved(testutil.DeterministicSine(1000, 48000, 0.5, 4800), 1))
	require.NoError(t, err)
	require.NoError(t, wave.Save(path, w, 48000, 16))

	waves, err := loadFiles(context.Background(), []string{path})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printInfo(&buf, waves))
	out := buf.String()
	assert.Contains(t, out, path)
	assert.Contains(t, out, "4800")
	assert.Contains(t, out, "100ms")
	assert.Contains(t, out, "-6.02")

	_, err = loadFiles(context.Background(), nil)
	assert.ErrorIs(t, err, errNoFiles)
}

func TestEncodeFloat32LE(t *testing.T) {
	raw := make([]byte, 12)
	encodeFloat32LE(raw, []float64{0.5, -1, 0.25})
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(raw[0:])))
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(raw[4:])))
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(raw[8:])))
}

func TestRingStreamUnderrunIsSilent(t *testing.T) {
	s := newRingStream(64)
	require.NoError(t, s.write(context.Background(), []byte{1, 2, 3, 4}))

	p := bytes.Repeat([]byte{9}, 8)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, p)
	assert.Equal(t, int64(1), s.underruns.Load())

	s.done.Store(true)
	_, err = s.Read(p)
	assert.ErrorIs(t, err, io.EOF)
}

func TestRingStreamWriteWaitsForRoom(t *testing.T) {
	s := newRingStream(8)
	require.NoError(t, s.write(context.Background(), make([]byte, 8)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.write(ctx, make([]byte, 4)), context.DeadlineExceeded)
}

func TestRingStreamPumpDeliversVoice(t *testing.T) {
	p := rampPlayer(t, 1000, sampler.ModeSingle, 1)
	m := sampler.NewMixer(core.WithBlockSize(100))
	require.NoError(t, m.Add(p))
	p.Start()

	s := newRingStream(4 * 2 * 300)
	errc := make(chan error, 1)
	go func() {
		errc <- s.pump(context.Background(), m, buffer.New(100, 2))
	}()

	var got []float32
	chunk := make([]byte, 4*2*50)
	for {
		n, err := s.Read(chunk)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		for i := 0; i < n; i += 4 {
			got = append(got, math.Float32frombits(binary.LittleEndian.Uint32(chunk[i:])))
		}
	}
	require.NoError(t, <-errc)

	// Underruns insert silence, so look for the ramp in order.
	next := 0.0
	for i := 0; i+1 < len(got); i += 2 {
		if float64(got[i]) == next {
			next++
		}
	}
	assert.Equal(t, 1000.0, next)
}
