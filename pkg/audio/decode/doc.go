// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides streaming decoders for PCM, MP3, FLAC and Ogg/Opus
// Package decode provides streaming audio decoders.
//
// Supports: PCM (16-bit and 24-bit), MP3, FLAC, Ogg/Opus
//
// All decoders read from an io.Reader and output int32 samples in the
// 24-bit range, so the player can apply soft volume uniformly.
//
// Example:
//
//	dec, err := decode.New(stream)
//	n, err := dec.Read(buf)
package decode
