// Package testutil holds deterministic test signals and tolerance checks
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
)

// DeterministicSine generates a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp returns a multi-channel buffer where frame i, channel c holds
// i + c/10. Copies out of it are easy to trace back to their source frame.
func Ramp(frames, channels int) *buffer.Audio {
	b := buffer.New(frames, channels)
	for i := range frames {
		for c := range channels {
			b.SetAt(i, c, float64(i)+float64(c)/10)
		}
	}
	return b
}

// Planar builds a buffer from one slice per channel. All slices must have
// the same length.
func Planar(channels ...[]float64) *buffer.Audio {
	if len(channels) == 0 {
		return buffer.New(0, 1)
	}
	frames := len(channels[0])
	b := buffer.New(frames, len(channels))
	for c, ch := range channels {
		if len(ch) != frames {
			panic("testutil: channel length mismatch")
		}
		for i, v := range ch {
			b.SetAt(i, c, v)
		}
	}
	return b
}
