// Package wavetest provides an in-memory wave source for reader tests.
package wavetest

import (
	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/wave"
)

// Mock is a wave.Source backed by a plain buffer.
type Mock struct {
	Buf *buffer.Audio
}

var _ wave.Source = (*Mock)(nil)

// New returns a zero-filled mock with the given shape.
func New(frames, channels int) *Mock {
	return &Mock{Buf: buffer.New(frames, channels)}
}

// NewRamp returns a mock whose frame i holds i+1 on every channel, so that
// no frame is silent and copies are easy to trace.
func NewRamp(frames, channels int) *Mock {
	m := New(frames, channels)
	for i := range frames {
		for c := range channels {
			m.Buf.SetAt(i, c, float64(i+1))
		}
	}
	return m
}

// Buffer returns the backing buffer.
func (m *Mock) Buffer() *buffer.Audio { return m.Buf }

// FrameCount returns the number of frames.
func (m *Mock) FrameCount() int { return m.Buf.CountFrames() }
