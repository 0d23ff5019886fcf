package sampler

import (
	"fmt"
	"reflect"

	"github.com/cwbudde/algo-sampler/dsp/buffer"
	"github.com/cwbudde/algo-sampler/dsp/resample"
	"github.com/cwbudde/algo-sampler/dsp/wave"
)

// Result reports the frames consumed from the wave and written to the
// destination by one fill.
type Result = resample.Result

// Resampler is the pitch-shifting stage a reader delegates to.
// *resample.Resampler satisfies it.
type Resampler interface {
	Process(in *buffer.Audio, inPos, inLen int, out *buffer.Audio, outPos, outLen int, pitch float64) resample.Result
	Last()
}

var _ Resampler = (*resample.Resampler)(nil)

// WaveReader reads windows of a wave into output blocks. It does not own
// the wave. A reader is not safe for concurrent use, but any number of
// readers may share one wave.
type WaveReader[W wave.Source] struct {
	wave      W
	attached  bool
	resampler Resampler
}

// NewWaveReader returns a reader without a wave. rs may be nil as long as
// every fill runs at unity pitch.
func NewWaveReader[W wave.Source](rs Resampler) *WaveReader[W] {
	return &WaveReader[W]{resampler: rs}
}

// SetWave attaches w. A nil w, including a typed nil pointer, detaches the
// current wave. The resampler state is left alone.
func (r *WaveReader[W]) SetWave(w W) {
	r.wave = w
	r.attached = !isNil(w)
}

// Wave returns the attached wave and whether one is attached.
func (r *WaveReader[W]) Wave() (W, bool) {
	return r.wave, r.attached
}

// Fill reads frames from [start, end) of the wave into dst starting at
// offset. Unity pitch copies directly and returns equal counts. Any other
// pitch goes through the resampler, whose counts are returned as is.
//
// Fill panics if no wave is attached, if 0 <= start <= end <= FrameCount
// does not hold, if offset is outside dst, if the channel counts differ,
// or if a pitched fill is requested without a resampler.
func (r *WaveReader[W]) Fill(dst *buffer.Audio, start, end, offset int, pitch float64) Result {
	if !r.attached {
		panic("sampler: fill without a wave")
	}
	frames := r.wave.FrameCount()
	if start < 0 || start > end || end > frames {
		panic(fmt.Sprintf("sampler: window [%d,%d) outside wave of %d frames", start, end, frames))
	}
	if offset < 0 || offset >= dst.CountFrames() {
		panic(fmt.Sprintf("sampler: offset %d outside block of %d frames", offset, dst.CountFrames()))
	}
	src := r.wave.Buffer()
	if src.CountChannels() != dst.CountChannels() {
		panic(fmt.Sprintf("sampler: wave has %d channels, block has %d",
			src.CountChannels(), dst.CountChannels()))
	}

	if start == end {
		return Result{}
	}

	if pitch == 1.0 {
		n := min(dst.CountFrames()-offset, end-start)
		dst.Set(src, n, start, offset)
		return Result{Used: n, Generated: n}
	}

	if r.resampler == nil {
		panic("sampler: pitched fill without a resampler")
	}
	return r.resampler.Process(src, start, end-start, dst, offset, dst.CountFrames()-offset, pitch)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Last drops the resampler history so that the next fill starts a fresh
// stream. It is a no-op without a resampler.
func (r *WaveReader[W]) Last() {
	if r.resampler != nil {
		r.resampler.Last()
	}
}
