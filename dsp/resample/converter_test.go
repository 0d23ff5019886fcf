package resample

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/internal/testutil"
)

func TestNewRationalValidation(t *testing.T) {
	if _, err := NewRational(0, 1); err == nil {
		t.Fatal("expected error for up=0")
	}
	if _, err := NewRational(1, 0); err == nil {
		t.Fatal("expected error for down=0")
	}
	if _, err := NewForRates(0, 48000); err == nil {
		t.Fatal("expected error for zero input rate")
	}
}

func TestRatioReduction(t *testing.T) {
	c, err := NewRational(320, 294)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	up, down := c.Ratio()
	if up != 160 || down != 147 {
		t.Fatalf("ratio = %d/%d, want 160/147", up, down)
	}
}

func TestNewForRatesCommon(t *testing.T) {
	c, err := NewForRates(44100, 48000)
	if err != nil {
		t.Fatalf("NewForRates() error = %v", err)
	}

	up, down := c.Ratio()
	if up != 160 || down != 147 {
		t.Fatalf("ratio = %d/%d, want 160/147", up, down)
	}
}

func TestRateRatio(t *testing.T) {
	tests := []struct {
		in, out  float64
		maxDen   int
		up, down int
	}{
		{44100, 48000, 4096, 160, 147},
		{48000, 44100, 4096, 147, 160},
		{96000, 8000, 4096, 1, 12},
		{22222, 44100, 4096, 641, 323},
		{22222, 44100, 100, 129, 65},
		{44100.5, 48000, 4096, 1194, 1097},
	}
	for _, tt := range tests {
		up, down := rateRatio(tt.in, tt.out, tt.maxDen)
		if up != tt.up || down != tt.down {
			t.Fatalf("rateRatio(%v, %v, %d) = %d/%d, want %d/%d", tt.in, tt.out, tt.maxDen, up, down, tt.up, tt.down)
		}
	}
}

func TestNewForRatesHonorsMaxDenominator(t *testing.T) {
	c, err := NewForRates(22222, 44100, WithMaxDenominator(100), WithConverterQuality(ConverterFast))
	if err != nil {
		t.Fatalf("NewForRates() error = %v", err)
	}
	if up, down := c.Ratio(); up != 129 || down != 65 {
		t.Fatalf("ratio = %d/%d, want 129/65", up, down)
	}
	if _, err := NewForRates(44100, math.Inf(1)); err == nil {
		t.Fatal("expected error for infinite output rate")
	}
}

func TestPhasesHaveUnitGain(t *testing.T) {
	for _, q := range []ConverterQuality{ConverterFast, ConverterBalanced, ConverterBest} {
		phases, err := designPhases(160, 147, ConverterProfile(q).TapsPerPhase, ConverterProfile(q))
		if err != nil {
			t.Fatalf("%v: designPhases() error = %v", q, err)
		}
		if len(phases) != 160 {
			t.Fatalf("%v: %d phases, want 160", q, len(phases))
		}
		for ph, branch := range phases {
			var sum float64
			for _, h := range branch {
				sum += h
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Fatalf("%v: phase %d gain = %v, want 1", q, ph, sum)
			}
		}
	}
}

func TestConvertBufferKeepsDC(t *testing.T) {
	c, err := NewForRates(44100, 48000)
	if err != nil {
		t.Fatalf("NewForRates() error = %v", err)
	}
	out := c.ConvertBuffer(buffer.FromInterleaved(testutil.DC(0.5, 4410), 1))
	for i := 200; i < out.CountFrames()-200; i++ {
		if d := math.Abs(out.At(i, 0) - 0.5); d > 1e-9 {
			t.Fatalf("frame %d = %v, want 0.5", i, out.At(i, 0))
		}
	}
}

func TestPredictOutputLenMatchesProcess(t *testing.T) {
	c, err := NewRational(3, 2)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	in := testutil.DeterministicSine(1000, 48000, 1, 257)
	want := c.PredictOutputLen(len(in))
	got := len(c.Process(in))
	if got != want {
		t.Fatalf("len(out) = %d, want %d", got, want)
	}
}

func TestStreamingConsistency(t *testing.T) {
	c1, err := NewRational(160, 147)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	c2, err := NewRational(160, 147)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}

	in := testutil.DeterministicSine(1000, 44100, 1, 8192)
	whole := c1.Process(in)

	var chunked []float64
	for i := 0; i < len(in); i += 257 {
		end := min(len(in), i+257)
		chunked = append(chunked, c2.Process(in[i:end])...)
	}

	testutil.RequireSliceNearlyEqual(t, chunked, whole, 1e-12)
}

func TestConverterQualityStopband(t *testing.T) {
	tests := []struct {
		name          string
		quality       ConverterQuality
		maxPassbandDB float64
		minStopbandDB float64
	}{
		{name: "fast", quality: ConverterFast, maxPassbandDB: 0.7, minStopbandDB: 20},
		{name: "balanced", quality: ConverterBalanced, maxPassbandDB: 0.35, minStopbandDB: 35},
		{name: "best", quality: ConverterBest, maxPassbandDB: 0.2, minStopbandDB: 50},
	}

	for _, tc := range tests {
		rPass, err := NewRational(1, 2, WithConverterQuality(tc.quality))
		if err != nil {
			t.Fatalf("%s: NewRational error = %v", tc.name, err)
		}
		rStop, err := NewRational(1, 2, WithConverterQuality(tc.quality))
		if err != nil {
			t.Fatalf("%s: NewRational error = %v", tc.name, err)
		}

		inPass := testutil.DeterministicSine(2000, 48000, 1, 32768)
		inStop := testutil.DeterministicSine(17000, 48000, 1, 32768)

		outPass := rPass.Process(inPass)
		outStop := rStop.Process(inStop)

		passbandDB := math.Abs(dbRatio(rms(outPass[2048:]), rms(inPass[4096:])))
		if passbandDB > tc.maxPassbandDB {
			t.Fatalf("%s: passband droop %.2f dB > %.2f dB", tc.name, passbandDB, tc.maxPassbandDB)
		}

		stopAttenDB := -dbRatio(rms(outStop[2048:]), rms(inStop[4096:]))
		if stopAttenDB < tc.minStopbandDB {
			t.Fatalf("%s: stopband attenuation %.2f dB < %.2f dB", tc.name, stopAttenDB, tc.minStopbandDB)
		}
	}
}

func TestConvertBufferLengthAndAlignment(t *testing.T) {
	c, err := NewForRates(44100, 48000, WithConverterQuality(ConverterBalanced))
	if err != nil {
		t.Fatalf("NewForRates() error = %v", err)
	}

	const frames = 4410
	in := buffer.New(frames, 2)
	left := testutil.DeterministicSine(500, 44100, 0.5, frames)
	for i := range frames {
		in.SetAt(i, 0, left[i])
		in.SetAt(i, 1, 0.25)
	}

	out := c.ConvertBuffer(in)
	if out.CountFrames() != 4800 || out.CountChannels() != 2 {
		t.Fatalf("shape = %dx%d, want 4800x2", out.CountFrames(), out.CountChannels())
	}

	// Mid-file the converted sine should follow the analytic curve at the
	// new rate; a residual delay would show as a large phase error.
	want := testutil.DeterministicSine(500, 48000, 0.5, 4800)
	for i := 500; i < 4300; i++ {
		if d := math.Abs(out.At(i, 0) - want[i]); d > 0.01 {
			t.Fatalf("frame %d: got %v, want %v", i, out.At(i, 0), want[i])
		}
		if d := math.Abs(out.At(i, 1) - 0.25); d > 0.01 {
			t.Fatalf("frame %d: DC channel = %v, want 0.25", i, out.At(i, 1))
		}
	}
}

func TestConvertBufferEmpty(t *testing.T) {
	c, err := NewRational(2, 1)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	out := c.ConvertBuffer(buffer.New(0, 2))
	if out.CountFrames() != 0 || out.CountChannels() != 2 {
		t.Fatalf("shape = %dx%d, want 0x2", out.CountFrames(), out.CountChannels())
	}
}

func TestQualityToConverterQuality(t *testing.T) {
	if QualitySincBest.ConverterQuality() != ConverterBest {
		t.Fatal("sinc-best should pair with ConverterBest")
	}
	if QualitySincMedium.ConverterQuality() != ConverterBalanced {
		t.Fatal("sinc-medium should pair with ConverterBalanced")
	}
	if QualityLinear.ConverterQuality() != ConverterFast {
		t.Fatal("linear should pair with ConverterFast")
	}
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var s float64
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s / float64(len(x)))
}

func dbRatio(out, in float64) float64 {
	if in == 0 || out == 0 {
		return -300
	}
	return 20 * math.Log10(out/in)
}

func TestConverterQualityString(t *testing.T) {
	if s := ConverterBalanced.String(); s != "balanced" {
		t.Fatalf("String() = %q, want balanced", s)
	}
	if s := ConverterQuality(9).String(); s != "ConverterQuality(9)" {
		t.Fatalf("String() = %q", s)
	}
}
