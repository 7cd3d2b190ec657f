// ABOUTME: Session package for access point connections
// ABOUTME: Provides login, token requests and audio file transfer
// Package session implements the client side of the access point protocol.
//
// A session is a single websocket connection that is authenticated with a
// client/hello exchange. Once connected it serves keymaster token requests
// and streams encoded track files as binary frames tagged with the id of
// the request that asked for them.
//
// Connect distinguishes transport failures (*IOError) from credential
// rejections (*AuthenticationError) so callers can decide whether another
// endpoint is worth trying.
//
// Example:
//
//	s, err := session.Connect(ctx, session.Config{Host: "ap.example.com"},
//		session.WithPassword("alice", "secret"))
//	tok, err := s.Keymaster(ctx, clientID, scopes)
//	stream, err := s.FetchAudio(ctx, trackID, 160)
package session
