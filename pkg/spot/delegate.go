// ABOUTME: Outbound notification interface
// ABOUTME: The delegate receives login outcomes, errors and playback progress
package spot

import "time"

// Credentials is handed to the delegate after a password login. It is the
// only value that carries the password out of the actor; persisting or
// discarding it is up to the delegate.
type Credentials struct {
	Username    string
	Password    string
	Token       string
	TokenExpiry time.Time
	Country     string
}

// Delegate receives outcomes from the actor and from every event bridge.
// Implementations must be safe for concurrent use and should not block.
type Delegate interface {
	EndOfTrackReached()
	PasswordLoginSuccessful(creds Credentials)
	TokenLoginSuccessful(username, token string)
	RefreshSuccessful(token string, expiry time.Time)
	ReportError(err error)
	NotifyPlaybackState(positionMs uint32)
}
