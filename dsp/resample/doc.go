// Package resample provides the two resamplers of the sampler engine.
//
// [Resampler] is the real-time pitch resampler driven by wave readers. It
// converts a window of source frames into output frames at a variable pitch
// ratio, keeps its fractional read position and interpolation history
// between calls, and resets only through [Resampler.Last]. Quality is fixed
// at construction:
//
//	quality               reach (left/right frames)
//	QualitySincBest       32/32   Kaiser-windowed sinc
//	QualitySincMedium     16/16   Kaiser-windowed sinc
//	QualitySincFastest    8/8     Kaiser-windowed sinc
//	QualityZeroOrderHold  1/0
//	QualityLinear         1/1
//	QualityCubic          2/2     Hermite
//
// [Converter] is a rational polyphase FIR used at load time to bring a wave
// to the engine sample rate:
//
//	profile            taps/phase   nominal stopband
//	ConverterFast      16           ~55 dB
//	ConverterBalanced  32           ~75 dB
//	ConverterBest      64           ~90 dB
package resample
