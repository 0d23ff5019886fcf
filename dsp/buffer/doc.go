// Package buffer provides the interleaved multi-channel audio buffer that
// waves are stored in and players render into.
//
// Samples are stored frame-major: frame i of channel c lives at
// Data()[i*CountChannels()+c]. Range and channel-count violations on the
// bulk operations panic; they indicate a bookkeeping bug in the caller, not a
// runtime condition.
package buffer
