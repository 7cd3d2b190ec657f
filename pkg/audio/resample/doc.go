// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts a track to the rate of an already open output
// Package resample provides audio sample rate conversion.
//
// The player opens its output with the format of the first track it loads.
// Later tracks at another rate are passed through a Resampler so they play
// at the right speed.
//
// Example:
//
//	r := resample.New(44100, 48000, 2)
//	buf = r.Process(block, buf)
package resample
