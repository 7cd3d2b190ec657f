// ABOUTME: Audio type definitions shared by the session, decoders and outputs
// ABOUTME: Defines stream formats, fetched audio streams and sample helpers
package audio

import (
	"io"
	"time"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes an encoded audio stream
type Format struct {
	Codec      string // "pcm", "mp3", "flac", "opus"
	SampleRate int
	Channels   int
	BitDepth   int
}

// Stream is an encoded audio file delivered by the session.
// The caller owns the body and must close it.
type Stream struct {
	TrackID  string
	Format   Format
	Duration time.Duration
	io.ReadCloser
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// sign extend from 24-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// ApplyGain scales samples in place by factor, clamped to the 24-bit range
func ApplyGain(samples []int32, factor float64) {
	if factor == 1.0 {
		return
	}
	for i, s := range samples {
		scaled := int64(float64(s) * factor)
		if scaled > Max24Bit {
			scaled = Max24Bit
		} else if scaled < Min24Bit {
			scaled = Min24Bit
		}
		samples[i] = int32(scaled)
	}
}

// FramesToDuration converts a count of interleaved samples to playback time
func (f Format) FramesToDuration(samples int64) time.Duration {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return 0
	}
	rate := int64(f.SampleRate)
	frames := samples / int64(f.Channels)
	// whole seconds first so positions near the uint32 millisecond limit stay in range
	return time.Duration(frames/rate)*time.Second + time.Duration(frames%rate)*time.Second/time.Duration(rate)
}

// DurationToSamples converts playback time to a count of interleaved samples
func (f Format) DurationToSamples(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	rate := int64(f.SampleRate)
	frames := int64(d/time.Second)*rate + int64(d%time.Second)*rate/int64(time.Second)
	return frames * int64(f.Channels)
}
