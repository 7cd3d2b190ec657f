// ABOUTME: Test doubles for the command actor
// ABOUTME: Fake session, connector, player and a recording delegate
package spot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
	"github.com/Resonate-Protocol/resonate-spot/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-spot/pkg/playback"
	"github.com/Resonate-Protocol/resonate-spot/pkg/session"
)

type fakeSession struct {
	username string
	country  string
	tokenErr error

	mu     sync.Mutex
	closed bool
}

func (s *fakeSession) FetchAudio(ctx context.Context, trackID string, kbps int) (*audio.Stream, error) {
	return nil, errors.New("no audio in tests")
}

func (s *fakeSession) Username() string { return s.username }
func (s *fakeSession) Country() string  { return s.country }

func (s *fakeSession) Keymaster(ctx context.Context, clientID, scopes string) (*session.KeymasterToken, error) {
	if s.tokenErr != nil {
		return nil, s.tokenErr
	}
	return &session.KeymasterToken{AccessToken: "access-" + s.username, ExpiresIn: 3600, TokenType: "Bearer"}, nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeAP answers connects per port; unlisted ports are unreachable
type fakeAP struct {
	mu       sync.Mutex
	attempts []string
	creds    []session.Credentials
	results  map[string]error
	sessions []*fakeSession
	tokenErr error
	delay    time.Duration
}

func newFakeAP() *fakeAP {
	return &fakeAP{results: map[string]error{}}
}

func (ap *fakeAP) connect(ctx context.Context, cfg session.Config, creds session.Credentials) (Session, error) {
	if ap.delay > 0 {
		time.Sleep(ap.delay)
	}
	ap.mu.Lock()
	defer ap.mu.Unlock()

	port := portString(cfg.Port)
	ap.attempts = append(ap.attempts, port)
	ap.creds = append(ap.creds, creds)

	err, ok := ap.results[port]
	if !ok {
		return nil, &session.IOError{Op: "dial", Err: errors.New("connection refused")}
	}
	if err != nil {
		return nil, err
	}
	s := &fakeSession{username: creds.Username, country: "SE", tokenErr: ap.tokenErr}
	ap.sessions = append(ap.sessions, s)
	return s, nil
}

func (ap *fakeAP) attempted() []string {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return append([]string(nil), ap.attempts...)
}

type playerCall struct {
	op         string
	trackID    string
	autoplay   bool
	positionMs uint32
}

type fakePlayer struct {
	config playback.PlayerConfig
	volume playback.SoftVolume
	sink   playback.SinkFunc
	events chan playback.Event

	mu     sync.Mutex
	calls  []playerCall
	closed bool
}

func (p *fakePlayer) record(c playerCall) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, c)
}

func (p *fakePlayer) Load(trackID string, autoplay bool, positionMs uint32) {
	p.record(playerCall{op: "load", trackID: trackID, autoplay: autoplay, positionMs: positionMs})
}
func (p *fakePlayer) Play()                  { p.record(playerCall{op: "play"}) }
func (p *fakePlayer) Pause()                 { p.record(playerCall{op: "pause"}) }
func (p *fakePlayer) Stop()                  { p.record(playerCall{op: "stop"}) }
func (p *fakePlayer) Seek(positionMs uint32) { p.record(playerCall{op: "seek", positionMs: positionMs}) }

func (p *fakePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
}

func (p *fakePlayer) history() []playerCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]playerCall(nil), p.calls...)
}

func (p *fakePlayer) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

type playerFactory struct {
	mu      sync.Mutex
	players []*fakePlayer
}

func (f *playerFactory) build(cfg playback.PlayerConfig, fetcher playback.AudioFetcher, volume playback.SoftVolume, sink playback.SinkFunc) (Player, <-chan playback.Event) {
	p := &fakePlayer{config: cfg, volume: volume, sink: sink, events: make(chan playback.Event, 16)}
	f.mu.Lock()
	f.players = append(f.players, p)
	f.mu.Unlock()
	return p, p.events
}

func (f *playerFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.players)
}

func (f *playerFactory) last() *fakePlayer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.players) == 0 {
		return nil
	}
	return f.players[len(f.players)-1]
}

type nullOutput struct {
	device string
}

func (o *nullOutput) Open(sampleRate, channels, bitDepth int) error { return nil }
func (o *nullOutput) Write(samples []int32) error                 { return nil }
func (o *nullOutput) Close() error                                { return nil }

func fakeBackends(name string) (output.Builder, error) {
	switch name {
	case "pulseaudio", "alsa":
		return func(device string) output.Output { return &nullOutput{device: device} }, nil
	}
	return nil, errors.New("unknown audio backend: " + name)
}

type recordingDelegate struct {
	mu             sync.Mutex
	endOfTrack     int
	positions      []uint32
	passwordLogins []Credentials
	tokenLogins    [][2]string
	refreshes      []time.Time
	refreshTokens  []string
	errs           []error
}

func (d *recordingDelegate) EndOfTrackReached() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endOfTrack++
}

func (d *recordingDelegate) PasswordLoginSuccessful(creds Credentials) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.passwordLogins = append(d.passwordLogins, creds)
}

func (d *recordingDelegate) TokenLoginSuccessful(username, token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokenLogins = append(d.tokenLogins, [2]string{username, token})
}

func (d *recordingDelegate) RefreshSuccessful(token string, expiry time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshTokens = append(d.refreshTokens, token)
	d.refreshes = append(d.refreshes, expiry)
}

func (d *recordingDelegate) ReportError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs = append(d.errs, err)
}

func (d *recordingDelegate) NotifyPlaybackState(positionMs uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.positions = append(d.positions, positionMs)
}

func (d *recordingDelegate) errors() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.errs...)
}

func (d *recordingDelegate) endOfTrackCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.endOfTrack
}

func (d *recordingDelegate) positionsSeen() []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint32(nil), d.positions...)
}

type harness struct {
	actor    *SpotifyPlayer
	ap       *fakeAP
	players  *playerFactory
	delegate *recordingDelegate
}

func newHarness(settings PlaybackSettings, source SettingsSource) *harness {
	h := &harness{
		ap:       newFakeAP(),
		players:  &playerFactory{},
		delegate: &recordingDelegate{},
	}
	actor, err := New(Options{
		Settings:       settings,
		Delegate:       h.delegate,
		SettingsSource: source,
		Session:        session.Config{Host: "ap.test"},
		Connect:        h.ap.connect,
		NewPlayer:      h.players.build,
		FindBackend:    fakeBackends,
	})
	if err != nil {
		panic(err)
	}
	h.actor = actor
	return h
}
