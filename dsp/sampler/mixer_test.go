package sampler

import (
	"testing"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-sampler/dsp/wave"
	"github.com/cwbudde/algo-sampler/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dcPlayer(t *testing.T, value float64, opts ...PlayerOption) *Player {
	t.Helper()
	w, err := wave.New(44100, buffer.FromInterleaved(testutil.DC(value, 2000), 2))
	require.NoError(t, err)
	return newTestPlayer(t, w, append(opts, WithMode(ModeLoop))...)
}

func TestMixerSumsPlayingVoices(t *testing.T) {
	m := NewMixer(core.WithBlockSize(128))
	a := dcPlayer(t, 0.25)
	b := dcPlayer(t, 0.5, WithVolume(0.5))
	c := dcPlayer(t, 0.9)
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(b))
	require.NoError(t, m.Add(c))

	a.Start()
	b.Start()

	out := buffer.New(128, 2)
	out.SetAt(0, 0, 7)
	m.Render(out)
	testutil.RequireSliceNearlyEqual(t, out.Data(), testutil.DC(0.5, 256), 1e-12)

	m.Remove(a)
	assert.Len(t, m.Players(), 2)
	m.Render(out)
	testutil.RequireSliceNearlyEqual(t, out.Data(), testutil.DC(0.25, 256), 1e-12)
}

func TestMixerValidatesShape(t *testing.T) {
	m := NewMixer(core.WithBlockSize(64), core.WithChannels(2))
	assert.Equal(t, 64, m.Config().BlockSize)

	mono, err := NewPlayer(1)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Add(mono), ErrChannelMismatch)

	assert.Panics(t, func() { m.Render(buffer.New(32, 2)) })
}

func TestMixerRenderDoesNotAllocate(t *testing.T) {
	m := NewMixer(core.WithBlockSize(256))
	for _, v := range []float64{0.1, 0.2, 0.3} {
		p := dcPlayer(t, v, WithPitch(1.25))
		require.NoError(t, m.Add(p))
		p.Start()
	}
	out := buffer.New(256, 2)

	allocs := testing.AllocsPerRun(50, func() {
		m.Render(out)
	})
	assert.Zero(t, allocs)
}
