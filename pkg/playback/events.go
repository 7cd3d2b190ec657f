// ABOUTME: Player event definitions
// ABOUTME: Events are emitted on the channel returned by NewPlayer
package playback

// EventKind identifies a player event
type EventKind int

const (
	// track fetch started
	EventLoading EventKind = iota
	// playback started or resumed, or position jumped
	EventPlaying
	EventPaused
	// user-requested stop
	EventStopped
	// track played to the end or failed mid-stream
	EventEndOfTrack
	// track could not be fetched or decoded
	EventUnavailable
)

func (k EventKind) String() string {
	switch k {
	case EventLoading:
		return "loading"
	case EventPlaying:
		return "playing"
	case EventPaused:
		return "paused"
	case EventStopped:
		return "stopped"
	case EventEndOfTrack:
		return "end_of_track"
	case EventUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Event is a player state change
type Event struct {
	Kind          EventKind
	PlayRequestID uint64
	TrackID       string
	PositionMs    uint32
}
