// Package sampler plays stored waves through an optional pitch-shifting
// resampler.
//
// [WaveReader] is the low-level primitive: each [WaveReader.Fill] call
// copies or resamples a window of a wave into an output block and reports
// how many frames it consumed and produced. The caller keeps the read
// cursor and calls [WaveReader.Last] whenever playback jumps, so that the
// next fill starts without resampler history.
//
// [Player] builds a voice on top of a reader with begin/end points, a start
// shift, pitch and a loop mode. [Mixer] sums several players into one block.
//
// Fill, Render and Mixer.Render run on the audio thread. They never block
// or allocate. Contract violations panic.
package sampler
