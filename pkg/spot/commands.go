// ABOUTME: Command set accepted by the actor
// ABOUTME: A closed set of value types, one per operation
package spot

// Command is one unit of work for the actor. The set is closed.
type Command interface {
	command()
}

// SetVolume scales Fraction (0.0 to 1.0) onto the mixer range. It is a
// no-op until the first player has been created.
type SetVolume struct {
	Fraction float64
}

// Resume continues playback
type Resume struct{}

// Pause pauses playback
type Pause struct{}

// Stop stops playback
type Stop struct{}

// Seek jumps to an absolute position
type Seek struct {
	PositionMs uint32
}

// Load starts loading a track
type Load struct {
	TrackID    string
	Autoplay   bool
	PositionMs uint32
}

// RefreshToken fetches a new access token for the current session
type RefreshToken struct{}

// Logout tears down the session and player
type Logout struct{}

// PasswordLogin opens a session with a username and password
type PasswordLogin struct {
	Username string
	Password string
}

// TokenLogin opens a session with a username and bearer token
type TokenLogin struct {
	Username string
	Token    string
}

// ReloadSettings re-reads playback settings and rebuilds the player
type ReloadSettings struct{}

func (SetVolume) command()      {}
func (Resume) command()         {}
func (Pause) command()          {}
func (Stop) command()           {}
func (Seek) command()           {}
func (Load) command()           {}
func (RefreshToken) command()   {}
func (Logout) command()         {}
func (PasswordLogin) command()  {}
func (TokenLogin) command()     {}
func (ReloadSettings) command() {}
