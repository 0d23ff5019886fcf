package sampler

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/core"
)

// Mixer sums a set of players into one output block.
type Mixer struct {
	cfg     core.ProcessorConfig
	players []*Player
	scratch *buffer.Audio
	gained  []float64
}

// NewMixer preallocates the scratch space for one block of the given shape.
func NewMixer(opts ...core.ProcessorOption) *Mixer {
	cfg := core.ApplyProcessorOptions(opts...)
	scratch := buffer.New(cfg.BlockSize, cfg.Channels)
	return &Mixer{
		cfg:     cfg,
		scratch: scratch,
		gained:  make([]float64, scratch.CountSamples()),
	}
}

// Config returns the block settings.
func (m *Mixer) Config() core.ProcessorConfig { return m.cfg }

// Add appends p to the mix.
func (m *Mixer) Add(p *Player) error {
	if p.channels != m.cfg.Channels {
		return fmt.Errorf("%w: player has %d, mixer has %d", ErrChannelMismatch, p.channels, m.cfg.Channels)
	}
	m.players = append(m.players, p)
	return nil
}

// Remove drops p from the mix. Unknown players are ignored.
func (m *Mixer) Remove(p *Player) {
	m.players = slices.DeleteFunc(m.players, func(q *Player) bool { return q == p })
}

// Players returns the players in mix order.
func (m *Mixer) Players() []*Player { return m.players }

// Render clears out and adds every playing voice scaled by its volume.
// out must match the configured block size and channel count.
func (m *Mixer) Render(out *buffer.Audio) {
	if out.CountFrames() != m.cfg.BlockSize || out.CountChannels() != m.cfg.Channels {
		panic(fmt.Sprintf("sampler: block is %dx%d, mixer expects %dx%d",
			out.CountFrames(), out.CountChannels(), m.cfg.BlockSize, m.cfg.Channels))
	}
	out.Clear()
	for _, p := range m.players {
		if !p.Playing() {
			continue
		}
		p.Render(m.scratch)
		if p.volume == 1 {
			out.Add(m.scratch)
			continue
		}
		out.AddFrom(m.scratch, p.volume, m.gained)
	}
}
