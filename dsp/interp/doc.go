// Package interp provides the interpolation primitives behind the resampler
// quality modes, from cheapest to highest quality:
//
//   - [Hold]:     zero-order hold
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//   - [Sinc]:     normalized sinc, the basis of the windowed-sinc kernels
package interp
