package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// Quarter period of 1 kHz at 48 kHz is 12 samples.
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want 1", s[12])
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	c := DeterministicNoise(43, 1.0, 64)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
		same = same && a[i] == c[i]
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestRamp(t *testing.T) {
	b := Ramp(10, 2)
	if b.CountFrames() != 10 || b.CountChannels() != 2 {
		t.Fatalf("shape = %dx%d, want 10x2", b.CountFrames(), b.CountChannels())
	}
	if b.At(7, 0) != 7 || b.At(7, 1) != 7.1 {
		t.Fatalf("frame 7 = %v, want [7 7.1]", b.Frame(7))
	}
}

func TestPlanar(t *testing.T) {
	b := Planar([]float64{1, 2, 3}, []float64{4, 5, 6})
	want := []float64{1, 4, 2, 5, 3, 6}
	RequireSliceNearlyEqual(t, b.Data(), want, 0)
}

func TestPlanarMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Planar([]float64{1, 2}, []float64{1})
}
