// ABOUTME: Playback settings owned by the actor
// ABOUTME: Bitrate, audio backend selection and optional fixed access point port
package spot

import "github.com/Resonate-Protocol/resonate-spot/pkg/playback"

// BackendKind selects the audio output
type BackendKind int

const (
	PulseAudio BackendKind = iota
	ALSA
)

// AudioBackend is an output selection. Device is only used by ALSA.
type AudioBackend struct {
	Kind   BackendKind
	Device string
}

// Name is the output registry name of the backend
func (b AudioBackend) Name() string {
	if b.Kind == ALSA {
		return "alsa"
	}
	return "pulseaudio"
}

func (b AudioBackend) String() string {
	if b.Kind == ALSA {
		return "alsa (" + b.Device + ")"
	}
	return "pulseaudio"
}

// PlaybackSettings is replaced as a whole on reload
type PlaybackSettings struct {
	Bitrate playback.Bitrate
	Backend AudioBackend
	// APPort pins the access point port; nil tries the known ports in turn
	APPort *uint16
}

// DefaultSettings returns 160kbps over PulseAudio with port fallback
func DefaultSettings() PlaybackSettings {
	return PlaybackSettings{
		Bitrate: playback.Bitrate160,
		Backend: AudioBackend{Kind: PulseAudio},
	}
}

// SettingsSource provides settings on ReloadSettings. An error means the
// defaults are used.
type SettingsSource interface {
	LoadSettings() (PlaybackSettings, error)
}

// SettingsSourceFunc adapts a function to SettingsSource
type SettingsSourceFunc func() (PlaybackSettings, error)

// LoadSettings calls f
func (f SettingsSourceFunc) LoadSettings() (PlaybackSettings, error) {
	return f()
}
