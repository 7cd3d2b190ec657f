// ABOUTME: Core package coordinating session and playback
// ABOUTME: Serializes commands against a single session, player and mixer
// Package spot is the command actor at the heart of the client.
//
// A SpotifyPlayer owns at most one session and at most one player. Commands
// arrive on a channel and are executed strictly one after another, including
// any network round trip, so a Logout can never race a Load against the same
// session. Failures are classified as LoginFailed, TokenFailed or
// PlayerNotReady and handed to the Delegate; the loop keeps going.
//
// Every player gets its own event bridge goroutine that forwards end of track
// and playback position to the Delegate. The bridge ends when the player is
// closed, which happens whenever the player is replaced.
//
// Example:
//
//	queue := spot.NewCommandQueue()
//	actor, err := spot.New(spot.Options{
//		Settings: spot.DefaultSettings(),
//		Delegate: delegate,
//		Session:  session.Config{Host: "ap.example.com"},
//	})
//	go actor.Run(ctx, queue.Receive())
//	queue.Send(spot.PasswordLogin{Username: "alice", Password: "secret"})
//	queue.Send(spot.Load{TrackID: "track1", Autoplay: true})
package spot
