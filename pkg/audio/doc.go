// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and Stream types and sample conversion functions
// Package audio provides the audio types shared across the player.
//
// A Stream is an encoded track fetched from the access point. Decoders in
// the decode subpackage turn it into int32 samples in the 24-bit range, and
// outputs in the output subpackage render those samples.
//
// Example:
//
//	format := audio.Format{Codec: "pcm", SampleRate: 44100, Channels: 2, BitDepth: 16}
//	pos := format.FramesToDuration(samplesWritten)
package audio
