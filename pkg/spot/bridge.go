// ABOUTME: Event bridge from a player to the delegate
// ABOUTME: One goroutine per player, ending when the player's event stream closes
package spot

import "github.com/Resonate-Protocol/resonate-spot/pkg/playback"

// forwardEvents reduces player events to delegate calls until events is
// closed. It never touches actor state.
func forwardEvents(events <-chan playback.Event, delegate Delegate) {
	for ev := range events {
		switch ev.Kind {
		case playback.EventEndOfTrack, playback.EventStopped:
			delegate.EndOfTrackReached()
		case playback.EventPlaying:
			delegate.NotifyPlaybackState(ev.PositionMs)
		}
	}
}
