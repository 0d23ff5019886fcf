// Package window generates the window functions the sampler needs: Kaiser
// for the windowed-sinc resampling kernels and Hann for spectral
// measurement.
//
// Windows are symmetric by default; [WithPeriodic] selects the periodic form
// used for FFT framing.
package window
