package buffer

import (
	"fmt"

	"github.com/cwbudde/algo-sampler/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Audio is a fixed-size interleaved multi-channel frame buffer.
type Audio struct {
	data     []float64
	frames   int
	channels int
}

// New returns a zero-filled buffer with the given frame and channel counts.
// Negative frame counts become 0 and channel counts below 1 become 1.
func New(frames, channels int) *Audio {
	if frames < 0 {
		frames = 0
	}
	if channels < 1 {
		channels = 1
	}
	return &Audio{
		data:     make([]float64, frames*channels),
		frames:   frames,
		channels: channels,
	}
}

// FromInterleaved wraps an existing interleaved slice without copying.
// Trailing samples that do not form a whole frame are ignored.
func FromInterleaved(data []float64, channels int) *Audio {
	if channels < 1 {
		channels = 1
	}
	frames := len(data) / channels
	return &Audio{
		data:     data[:frames*channels],
		frames:   frames,
		channels: channels,
	}
}

// CountFrames returns the number of frames.
func (b *Audio) CountFrames() int { return b.frames }

// CountChannels returns the number of channels per frame.
func (b *Audio) CountChannels() int { return b.channels }

// CountSamples returns frames times channels.
func (b *Audio) CountSamples() int { return len(b.data) }

// Data returns the underlying interleaved slice.
func (b *Audio) Data() []float64 { return b.data }

// Frame returns a view of the samples of frame i, one per channel.
func (b *Audio) Frame(i int) []float64 {
	b.checkFrame(i)
	return b.data[i*b.channels : (i+1)*b.channels]
}

// At returns the sample of channel ch at frame i.
func (b *Audio) At(i, ch int) float64 {
	b.checkFrame(i)
	b.checkChannel(ch)
	return b.data[i*b.channels+ch]
}

// SetAt stores v as the sample of channel ch at frame i.
func (b *Audio) SetAt(i, ch int, v float64) {
	b.checkFrame(i)
	b.checkChannel(ch)
	b.data[i*b.channels+ch] = v
}

// Channel deinterleaves channel ch into dst, growing it when needed, and
// returns the filled slice.
func (b *Audio) Channel(ch int, dst []float64) []float64 {
	b.checkChannel(ch)
	dst = core.EnsureLen(dst, b.frames)
	for i := range dst {
		dst[i] = b.data[i*b.channels+ch]
	}
	return dst
}

// Set copies frames frames from src, starting at srcOffset, into b starting
// at dstOffset. Both buffers must have the same channel count.
func (b *Audio) Set(src *Audio, frames, srcOffset, dstOffset int) {
	if src.channels != b.channels {
		panic(fmt.Sprintf("buffer: channel mismatch: src %d, dst %d", src.channels, b.channels))
	}
	if frames < 0 || srcOffset < 0 || dstOffset < 0 ||
		srcOffset+frames > src.frames || dstOffset+frames > b.frames {
		panic(fmt.Sprintf("buffer: copy of %d frames out of range (src %d/%d, dst %d/%d)",
			frames, srcOffset, src.frames, dstOffset, b.frames))
	}
	ch := b.channels
	copy(b.data[dstOffset*ch:(dstOffset+frames)*ch], src.data[srcOffset*ch:(srcOffset+frames)*ch])
}

// Clear sets all samples to 0.
func (b *Audio) Clear() {
	clear(b.data)
}

// ClearRange sets frames in [start, end) to 0.
// Indices are clamped to valid bounds.
func (b *Audio) ClearRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > b.frames {
		end = b.frames
	}
	if start >= end {
		return
	}
	clear(b.data[start*b.channels : end*b.channels])
}

// Scale multiplies every sample by g.
func (b *Audio) Scale(g float64) {
	if len(b.data) == 0 {
		return
	}
	vecmath.ScaleBlock(b.data, b.data, g)
}

// Add sums src into b sample by sample. Both buffers must have the same shape.
func (b *Audio) Add(src *Audio) {
	if src.channels != b.channels || src.frames != b.frames {
		panic(fmt.Sprintf("buffer: shape mismatch: src %dx%d, dst %dx%d",
			src.frames, src.channels, b.frames, b.channels))
	}
	if len(b.data) == 0 {
		return
	}
	vecmath.AddBlockInPlace(b.data, src.data)
}

// AddFrom sums src scaled by gain into b. scratch must hold at least
// CountSamples values and is overwritten; it keeps the call allocation-free.
func (b *Audio) AddFrom(src *Audio, gain float64, scratch []float64) {
	if src.channels != b.channels || src.frames != b.frames {
		panic(fmt.Sprintf("buffer: shape mismatch: src %dx%d, dst %dx%d",
			src.frames, src.channels, b.frames, b.channels))
	}
	n := len(b.data)
	if n == 0 {
		return
	}
	if len(scratch) < n {
		panic(fmt.Sprintf("buffer: scratch of %d samples, need %d", len(scratch), n))
	}
	vecmath.ScaleBlock(scratch[:n], src.data, gain)
	vecmath.AddBlockInPlace(b.data, scratch[:n])
}

// Copy returns a deep copy of the buffer.
func (b *Audio) Copy() *Audio {
	s := make([]float64, len(b.data))
	copy(s, b.data)
	return &Audio{data: s, frames: b.frames, channels: b.channels}
}

func (b *Audio) checkFrame(i int) {
	if i < 0 || i >= b.frames {
		panic(fmt.Sprintf("buffer: frame %d out of range [0,%d)", i, b.frames))
	}
}

func (b *Audio) checkChannel(ch int) {
	if ch < 0 || ch >= b.channels {
		panic(fmt.Sprintf("buffer: channel %d out of range [0,%d)", ch, b.channels))
	}
}
