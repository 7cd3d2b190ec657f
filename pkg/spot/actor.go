// ABOUTME: Command actor owning the session, player and mixer
// ABOUTME: Executes commands one at a time and reports failures to the delegate
package spot

import (
	"context"
	"errors"
	"math"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-spot/pkg/playback"
	"github.com/Resonate-Protocol/resonate-spot/pkg/session"
	"github.com/sirupsen/logrus"
)

// Session is the live connection the actor owns
type Session interface {
	playback.AudioFetcher
	Username() string
	Country() string
	Keymaster(ctx context.Context, clientID, scopes string) (*session.KeymasterToken, error)
	Close() error
}

// Player is the playback engine the actor owns
type Player interface {
	Load(trackID string, autoplay bool, positionMs uint32)
	Play()
	Pause()
	Stop()
	Seek(positionMs uint32)
	Close()
}

var (
	_ Session = (*session.Session)(nil)
	_ Player  = (*playback.Player)(nil)
)

// Connector opens a session on the access point described by cfg
type Connector func(ctx context.Context, cfg session.Config, creds session.Credentials) (Session, error)

// PlayerBuilder creates a player and its event stream
type PlayerBuilder func(cfg playback.PlayerConfig, fetcher playback.AudioFetcher, volume playback.SoftVolume, sink playback.SinkFunc) (Player, <-chan playback.Event)

// Options configures a SpotifyPlayer
type Options struct {
	// Settings are the initial playback settings, see DefaultSettings
	Settings PlaybackSettings

	// Delegate receives outcomes (required)
	Delegate Delegate

	// SettingsSource is read on ReloadSettings; nil reloads the defaults
	SettingsSource SettingsSource

	// Session is the base session config; Host is required
	Session session.Config

	// Connect, NewPlayer and FindBackend default to the session,
	// playback and output packages
	Connect     Connector
	NewPlayer   PlayerBuilder
	FindBackend func(name string) (output.Builder, error)

	Log *logrus.Entry
}

// SpotifyPlayer is the command actor. All of its state is owned by the
// goroutine running Run.
type SpotifyPlayer struct {
	settings    PlaybackSettings
	delegate    Delegate
	source      SettingsSource
	base        session.Config
	connect     Connector
	newPlayer   PlayerBuilder
	findBackend func(name string) (output.Builder, error)
	log         *logrus.Entry

	session Session
	player  Player
	mixer   *playback.SoftMixer
}

// New creates an actor with no session
func New(opts Options) (*SpotifyPlayer, error) {
	if opts.Delegate == nil {
		return nil, errors.New("delegate is required")
	}
	if opts.Session.Host == "" {
		return nil, errors.New("access point host is required")
	}

	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "spot")

	p := &SpotifyPlayer{
		settings:    opts.Settings,
		delegate:    opts.Delegate,
		source:      opts.SettingsSource,
		base:        opts.Session,
		connect:     opts.Connect,
		newPlayer:   opts.NewPlayer,
		findBackend: opts.FindBackend,
		log:         log,
	}
	if p.base.Log == nil {
		p.base.Log = log
	}
	if p.connect == nil {
		p.connect = func(ctx context.Context, cfg session.Config, creds session.Credentials) (Session, error) {
			s, err := session.Connect(ctx, cfg, creds)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
	}
	if p.newPlayer == nil {
		p.newPlayer = func(cfg playback.PlayerConfig, fetcher playback.AudioFetcher, volume playback.SoftVolume, sink playback.SinkFunc) (Player, <-chan playback.Event) {
			return playback.NewPlayer(cfg, fetcher, volume, sink, log)
		}
	}
	if p.findBackend == nil {
		p.findBackend = output.Find
	}
	return p, nil
}

// Run processes commands in order until commands is closed (returning nil)
// or ctx is cancelled (returning ctx.Err()). A failed command is reported
// to the delegate and does not stop the loop. The session and player are
// released on return.
func (p *SpotifyPlayer) Run(ctx context.Context, commands <-chan Command) error {
	defer p.teardown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-commands:
			if !ok {
				p.log.Debug("Command channel closed")
				return nil
			}
			if err := p.handle(ctx, cmd); err != nil {
				p.log.Warnf("%T: %v", cmd, err)
				p.delegate.ReportError(err)
			}
		}
	}
}

func (p *SpotifyPlayer) handle(ctx context.Context, cmd Command) error {
	p.log.Debugf("Handling %T", cmd)

	switch c := cmd.(type) {
	case SetVolume:
		if p.mixer == nil {
			return nil
		}
		p.mixer.SetVolume(volumeFromFraction(c.Fraction))
		return nil

	case Resume:
		if p.player == nil {
			return ErrPlayerNotReady
		}
		p.player.Play()
		return nil

	case Pause:
		if p.player == nil {
			return ErrPlayerNotReady
		}
		p.player.Pause()
		return nil

	case Stop:
		if p.player == nil {
			return ErrPlayerNotReady
		}
		p.player.Stop()
		return nil

	case Seek:
		if p.player == nil {
			return ErrPlayerNotReady
		}
		p.player.Seek(c.PositionMs)
		return nil

	case Load:
		if p.player == nil {
			return ErrPlayerNotReady
		}
		p.player.Load(c.TrackID, c.Autoplay, c.PositionMs)
		return nil

	case RefreshToken:
		if p.session == nil {
			return ErrPlayerNotReady
		}
		token, err := fetchAccessToken(ctx, p.session)
		if err != nil {
			return err
		}
		p.delegate.RefreshSuccessful(token.AccessToken, token.Expiry)
		return nil

	case Logout:
		if p.session == nil {
			return ErrPlayerNotReady
		}
		p.teardown()
		p.log.Info("Logged out")
		return nil

	case PasswordLogin:
		return p.passwordLogin(ctx, c)

	case TokenLogin:
		return p.tokenLogin(ctx, c)

	case ReloadSettings:
		if p.session == nil {
			return ErrPlayerNotReady
		}
		p.settings = p.loadSettings()
		return p.replacePlayer(p.session)

	default:
		return notReady(errors.New("unknown command"))
	}
}

// passwordLogin installs the new session even when the token request fails;
// the token can be refreshed later.
func (p *SpotifyPlayer) passwordLogin(ctx context.Context, c PasswordLogin) error {
	s, err := establish(ctx, p.connect, p.base, p.settings.APPort, session.WithPassword(c.Username, c.Password), p.log)
	if err != nil {
		return err
	}

	token, tokenErr := fetchAccessToken(ctx, s)
	if tokenErr == nil {
		p.delegate.PasswordLoginSuccessful(Credentials{
			Username:    s.Username(),
			Password:    c.Password,
			Token:       token.AccessToken,
			TokenExpiry: token.Expiry,
			Country:     s.Country(),
		})
	}

	if err := p.install(s); err != nil {
		return err
	}
	return tokenErr
}

func (p *SpotifyPlayer) tokenLogin(ctx context.Context, c TokenLogin) error {
	s, err := establish(ctx, p.connect, p.base, p.settings.APPort, session.WithToken(c.Username, c.Token), p.log)
	if err != nil {
		return err
	}
	p.delegate.TokenLoginSuccessful(s.Username(), c.Token)
	return p.install(s)
}

// install makes s the current session with a fresh player, closing the
// ones it replaces
func (p *SpotifyPlayer) install(s Session) error {
	err := p.replacePlayer(s)
	if p.session != nil && p.session != s {
		p.session.Close()
	}
	p.session = s
	return err
}

// replacePlayer swaps in a new player for s and starts its event bridge.
// Closing the old player ends its event stream and so its bridge.
func (p *SpotifyPlayer) replacePlayer(s Session) error {
	player, events, err := p.createPlayer(s)
	if p.player != nil {
		p.player.Close()
		p.player = nil
	}
	if err != nil {
		return err
	}

	go forwardEvents(events, p.delegate)
	p.player = player
	return nil
}

func (p *SpotifyPlayer) loadSettings() PlaybackSettings {
	if p.source == nil {
		return DefaultSettings()
	}
	settings, err := p.source.LoadSettings()
	if err != nil {
		p.log.Warnf("Failed to load settings, using defaults: %v", err)
		return DefaultSettings()
	}
	return settings
}

// teardown closes the player and session
func (p *SpotifyPlayer) teardown() {
	if p.player != nil {
		p.player.Close()
		p.player = nil
	}
	if p.session != nil {
		p.session.Close()
		p.session = nil
	}
}

// volumeFromFraction maps 0.0..1.0 onto the mixer range, clamping outliers
func volumeFromFraction(fraction float64) uint16 {
	if math.IsNaN(fraction) || fraction <= 0 {
		return 0
	}
	if fraction >= 1 {
		return playback.MaxVolume
	}
	return uint16(float64(playback.MaxVolume) * fraction)
}
