// ABOUTME: Player construction for the actor
// ABOUTME: Shares one lazily created software mixer across every player
package spot

import (
	"github.com/Resonate-Protocol/resonate-spot/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-spot/pkg/playback"
)

// softMixer returns the actor's mixer, opening it on first use at full
// volume with half the default logarithmic range.
func (p *SpotifyPlayer) softMixer() *playback.SoftMixer {
	if p.mixer == nil {
		m := playback.OpenSoftMixer(playback.MixerConfig{
			VolumeCtrl: playback.LogVolume(playback.DefaultDBRange / 2),
		})
		m.SetVolume(playback.MaxVolume)
		p.mixer = m
	}
	return p.mixer
}

// createPlayer builds a player for s from the current settings
func (p *SpotifyPlayer) createPlayer(s Session) (Player, <-chan playback.Event, error) {
	config := playback.DefaultPlayerConfig()
	config.Bitrate = p.settings.Bitrate
	p.log.Infof("Bitrate: %s", config.Bitrate)

	backend := p.settings.Backend
	build, err := p.findBackend(backend.Name())
	if err != nil {
		return nil, nil, notReady(err)
	}

	var device string
	if backend.Kind == ALSA {
		device = backend.Device
	}
	log := p.log
	sink := func() output.Output {
		log.Infof("Using %s", backend)
		return build(device)
	}

	player, events := p.newPlayer(config, s, p.softMixer().SoftVolume(), sink)
	return player, events, nil
}
