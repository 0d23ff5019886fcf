package core

import (
	"math"
	"testing"
)

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSemitoneConversions(t *testing.T) {
	if got := SemitonesToRatio(12); math.Abs(got-2) > 1e-12 {
		t.Fatalf("SemitonesToRatio(12) = %v, want 2", got)
	}
	if got := SemitonesToRatio(-12); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("SemitonesToRatio(-12) = %v, want 0.5", got)
	}
	if got := RatioToSemitones(SemitonesToRatio(7)); math.Abs(got-7) > 1e-12 {
		t.Fatalf("round trip = %v, want 7", got)
	}
	if !math.IsNaN(RatioToSemitones(0)) {
		t.Fatal("expected NaN for zero ratio")
	}
}

func TestIsFinitePositive(t *testing.T) {
	for _, v := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if IsFinitePositive(v) {
			t.Fatalf("IsFinitePositive(%v) = true", v)
		}
	}
	if !IsFinitePositive(0.1) {
		t.Fatal("IsFinitePositive(0.1) = false")
	}
}

func TestApplyProcessorOptionsIgnoresInvalid(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(-1), WithBlockSize(0), WithChannels(1), nil)
	def := DefaultProcessorConfig()
	if cfg.SampleRate != def.SampleRate || cfg.BlockSize != def.BlockSize {
		t.Fatalf("cfg = %+v, want defaults for rate and block size", cfg)
	}
	if cfg.Channels != 1 {
		t.Fatalf("Channels = %d, want 1", cfg.Channels)
	}
}
