package main

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/sampler"
	"github.com/smallnest/ringbuffer"
)

// ringStream carries rendered float32 frames from a producer goroutine to
// the audio device callback.
type ringStream struct {
	ring      *ringbuffer.RingBuffer
	done      atomic.Bool
	underruns atomic.Int64
	poll      time.Duration
}

func newRingStream(size int) *ringStream {
	return &ringStream{
		ring: ringbuffer.New(size),
		poll: 2 * time.Millisecond,
	}
}

// Read drains the ring into p. On underrun the rest of p is silence. Once
// the producer has finished and the ring is empty it returns io.EOF.
func (s *ringStream) Read(p []byte) (int, error) {
	n, _ := s.ring.Read(p)
	if n == 0 && s.done.Load() {
		return 0, io.EOF
	}
	if n < len(p) {
		if !s.done.Load() {
			s.underruns.Add(1)
		}
		clear(p[n:])
	}
	return len(p), nil
}

// write queues all of b, waiting for room as the consumer drains the ring.
func (s *ringStream) write(ctx context.Context, b []byte) error {
	for s.ring.Free() < len(b) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.poll):
		}
	}
	_, err := s.ring.Write(b)
	return err
}

// pump renders blocks from m until no player is left playing or ctx ends.
func (s *ringStream) pump(ctx context.Context, m *sampler.Mixer, block *buffer.Audio) error {
	defer s.done.Store(true)

	raw := make([]byte, 4*block.CountSamples())
	for ctx.Err() == nil && anyPlaying(m) {
		m.Render(block)
		encodeFloat32LE(raw, block.Data())
		if err := s.write(ctx, raw); err != nil {
			return err
		}
	}
	return nil
}

func anyPlaying(m *sampler.Mixer) bool {
	for _, p := range m.Players() {
		if p.Playing() {
			return true
		}
	}
	return false
}

func encodeFloat32LE(dst []byte, src []float64) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(float32(v)))
	}
}
