// ABOUTME: Playback engine package
// ABOUTME: Provides the player, its event stream and the software mixer
// Package playback renders tracks fetched from a session.
//
// A Player owns one goroutine that fetches, decodes and writes audio to an
// output built lazily from a SinkFunc. Commands are non-blocking and the
// outcome of each is reported as an Event on the channel returned by
// NewPlayer. The channel is closed once the player is closed.
//
// Volume is applied in software. A SoftMixer maps an integer volume through
// a VolumeCtrl curve to a gain factor, and hands players a SoftVolume that
// reads the current factor for every block. One mixer can serve any number
// of players in turn.
//
// Example:
//
//	mixer := playback.OpenSoftMixer(playback.DefaultMixerConfig())
//	player, events := playback.NewPlayer(playback.DefaultPlayerConfig(), sess,
//		mixer.SoftVolume(), sink, log)
//	player.Load("track1", true, 0)
//	for ev := range events {
//		...
//	}
package playback
