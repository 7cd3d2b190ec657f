// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides the Output interface and the named backend registry
// Package output provides audio playback backends.
//
// Backends are looked up by name:
//   - "pulseaudio": system output through oto (device argument ignored)
//   - "alsa": raw PCM piped into aplay on a named device
//
// Example:
//
//	build, err := output.Find("alsa")
//	out := build("hw:0,0")
//	err = out.Open(44100, 2, 16)
//	err = out.Write(samples)
package output
