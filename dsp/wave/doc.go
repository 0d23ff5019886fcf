// Package wave holds decoded audio waveforms and the store that tracks them.
//
// A [Wave] is an interleaved multi-channel sample buffer tagged with a
// sample rate and a UUID. Its shape never changes after construction, so
// any number of readers may share one wave while it plays. Offline edits
// such as [Normalize] and [Gain] rewrite samples in place and require
// every reader to be quiesced first.
//
// [Load] decodes WAV and FLAC files into float64 samples in [-1, 1] and can
// convert them to the engine rate on the way in. [Save] writes PCM WAV.
//
// [Store] keeps loaded waves keyed by ID with a reference count per wave,
// so several sample channels can point at the same data.
package wave
