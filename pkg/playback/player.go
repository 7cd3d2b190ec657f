// ABOUTME: Playback engine bound to one session
// ABOUTME: Fetches, decodes and renders tracks on a single goroutine and reports events
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
	"github.com/Resonate-Protocol/resonate-spot/pkg/audio/decode"
	"github.com/Resonate-Protocol/resonate-spot/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-spot/pkg/audio/resample"
	"github.com/sirupsen/logrus"
)

// FetchTimeout bounds a single track fetch
const FetchTimeout = 30 * time.Second

// AudioFetcher delivers encoded track files
type AudioFetcher interface {
	FetchAudio(ctx context.Context, trackID string, kbps int) (*audio.Stream, error)
}

// SinkFunc builds the output device. It is called lazily on first load.
type SinkFunc func() output.Output

type commandKind int

const (
	cmdLoad commandKind = iota
	cmdPlay
	cmdPause
	cmdStop
	cmdSeek
)

type command struct {
	kind       commandKind
	trackID    string
	autoplay   bool
	positionMs uint32
}

// Player renders tracks from one session. All methods are non-blocking;
// outcomes are reported on the event channel.
type Player struct {
	config  PlayerConfig
	fetcher AudioFetcher
	volume  SoftVolume
	sink    SinkFunc
	log     *logrus.Entry

	commands  chan command
	events    chan Event
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	// owned by the run goroutine
	out       output.Output
	outFormat audio.Format
	track     *loadedTrack
	playing   bool
	requestID uint64
}

type loadedTrack struct {
	id      string
	stream  *audio.Stream
	decoder decode.Decoder
	startMs uint32
	written int64

	// unregisters the close-on-shutdown hook; false once it has fired
	stopClose func() bool

	// set when the track rate differs from the open output
	resampler *resample.Resampler
	resampled []int32
}

func (t *loadedTrack) positionMs() uint32 {
	return t.startMs + uint32(t.decoder.Format().FramesToDuration(t.written).Milliseconds())
}

func (t *loadedTrack) close() {
	t.decoder.Close()
	if t.stopClose == nil || t.stopClose() {
		t.stream.Close()
	}
}

// NewPlayer starts a player goroutine and returns its event stream. The
// stream is closed after Close.
func NewPlayer(config PlayerConfig, fetcher AudioFetcher, volume SoftVolume, sink SinkFunc, log *logrus.Entry) (*Player, <-chan Event) {
	if config.BlockSize <= 0 {
		config.BlockSize = DefaultPlayerConfig().BlockSize
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		config:   config,
		fetcher:  fetcher,
		volume:   volume,
		sink:     sink,
		log:      log.WithField("component", "player"),
		commands: make(chan command, 16),
		events:   make(chan Event, 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}

	go p.run()
	return p, p.events
}

// Load fetches a track and optionally starts playing at positionMs
func (p *Player) Load(trackID string, autoplay bool, positionMs uint32) {
	p.send(command{kind: cmdLoad, trackID: trackID, autoplay: autoplay, positionMs: positionMs})
}

// Play resumes playback
func (p *Player) Play() {
	p.send(command{kind: cmdPlay})
}

// Pause pauses playback
func (p *Player) Pause() {
	p.send(command{kind: cmdPause})
}

// Stop unloads the current track
func (p *Player) Stop() {
	p.send(command{kind: cmdStop})
}

// Seek jumps to an absolute position
func (p *Player) Seek(positionMs uint32) {
	p.send(command{kind: cmdSeek, positionMs: positionMs})
}

// Close stops the player, releases the output and closes the event stream
func (p *Player) Close() {
	p.closeOnce.Do(func() {
		p.cancel()
		close(p.quit)
	})
	<-p.done
}

func (p *Player) send(cmd command) {
	select {
	case p.commands <- cmd:
	case <-p.quit:
	}
}

func (p *Player) emit(kind EventKind, positionMs uint32) {
	ev := Event{Kind: kind, PlayRequestID: p.requestID, PositionMs: positionMs}
	if p.track != nil {
		ev.TrackID = p.track.id
	}
	select {
	case p.events <- ev:
	case <-p.quit:
	}
}

func (p *Player) run() {
	defer close(p.done)
	defer close(p.events)
	defer p.release()

	buf := make([]int32, p.config.BlockSize)
	for {
		if p.playing && p.track != nil {
			select {
			case <-p.quit:
				return
			case cmd := <-p.commands:
				p.handle(cmd)
			default:
				p.playBlock(buf)
			}
			continue
		}

		select {
		case <-p.quit:
			return
		case cmd := <-p.commands:
			p.handle(cmd)
		}
	}
}

func (p *Player) release() {
	p.unload()
	if p.out != nil {
		if err := p.out.Close(); err != nil {
			p.log.Warnf("closing output: %v", err)
		}
		p.out = nil
	}
}

func (p *Player) unload() {
	if p.track != nil {
		p.track.close()
		p.track = nil
	}
	p.playing = false
}

func (p *Player) handle(cmd command) {
	switch cmd.kind {
	case cmdLoad:
		p.load(cmd.trackID, cmd.autoplay, cmd.positionMs)

	case cmdPlay:
		if p.track != nil && !p.playing {
			p.playing = true
			p.emit(EventPlaying, p.track.positionMs())
		}

	case cmdPause:
		if p.track != nil && p.playing {
			p.playing = false
			p.emit(EventPaused, p.track.positionMs())
		}

	case cmdStop:
		if p.track != nil {
			p.emit(EventStopped, p.track.positionMs())
			p.unload()
		}

	case cmdSeek:
		if p.track != nil {
			p.seek(cmd.positionMs)
		}
	}
}

func (p *Player) load(trackID string, autoplay bool, positionMs uint32) {
	p.unload()
	p.requestID++
	p.emitFor(trackID, EventLoading, positionMs)

	track, err := p.open(trackID, positionMs)
	if err != nil {
		p.log.Errorf("track %s unavailable: %v", trackID, err)
		p.emitFor(trackID, EventUnavailable, positionMs)
		return
	}

	if err := p.prepare(track); err != nil {
		track.close()
		p.log.Errorf("audio output: %v", err)
		p.emitFor(trackID, EventUnavailable, positionMs)
		return
	}

	p.track = track
	p.playing = autoplay
	p.log.Debugf("loaded %s at %dms (autoplay=%v)", trackID, positionMs, autoplay)
	if autoplay {
		p.emit(EventPlaying, track.positionMs())
	} else {
		p.emit(EventPaused, track.positionMs())
	}
}

func (p *Player) emitFor(trackID string, kind EventKind, positionMs uint32) {
	select {
	case p.events <- Event{Kind: kind, PlayRequestID: p.requestID, TrackID: trackID, PositionMs: positionMs}:
	case <-p.quit:
	}
}

// open fetches and decodes a track, skipping to positionMs
func (p *Player) open(trackID string, positionMs uint32) (*loadedTrack, error) {
	ctx, cancel := context.WithTimeout(p.ctx, FetchTimeout)
	defer cancel()

	stream, err := p.fetcher.FetchAudio(ctx, trackID, p.config.Bitrate.Kbps())
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	// a decoder blocked on a stalled body only wakes when the body closes
	stopClose := context.AfterFunc(p.ctx, func() { stream.Close() })

	dec, err := decode.New(stream)
	if err != nil {
		if stopClose() {
			stream.Close()
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	track := &loadedTrack{id: trackID, stream: stream, decoder: dec, stopClose: stopClose}
	if err := track.skip(time.Duration(positionMs) * time.Millisecond); err != nil {
		track.close()
		return nil, err
	}
	track.startMs = positionMs
	track.written = 0
	return track, nil
}

// skip discards decoded samples up to d from the current read position
func (t *loadedTrack) skip(d time.Duration) error {
	remaining := t.decoder.Format().DurationToSamples(d)
	discard := make([]int32, 4096)
	for remaining > 0 {
		chunk := discard
		if int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}
		n, err := t.decoder.Read(chunk)
		remaining -= int64(n)
		t.written += int64(n)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("seek: %w", err)
		}
	}
	return nil
}

// prepare opens the output for track if needed. The output keeps the
// format it was opened with, or the one it reports through
// output.Negotiated. Tracks at another rate are resampled and a channel
// count change reopens it; a device that cannot change channels fails the
// track.
func (p *Player) prepare(track *loadedTrack) error {
	format := track.decoder.Format()
	if p.out != nil && p.outFormat.Channels != format.Channels {
		p.log.Infof("Reopening output for %d channels", format.Channels)
		if err := p.out.Close(); err != nil {
			p.log.Warnf("closing output: %v", err)
		}
		p.out = nil
	}

	if p.out == nil {
		out := p.sink()
		if err := out.Open(format.SampleRate, format.Channels, format.BitDepth); err != nil {
			return err
		}
		p.out = out
		p.outFormat = format
		if n, ok := out.(output.Negotiated); ok {
			p.outFormat.SampleRate, p.outFormat.Channels = n.ActualFormat()
		}
	}

	if format.Channels != p.outFormat.Channels {
		return fmt.Errorf("output runs %d channels, %s has %d", p.outFormat.Channels, track.id, format.Channels)
	}

	if format.SampleRate != p.outFormat.SampleRate {
		p.log.Debugf("Resampling %s from %dHz to %dHz", track.id, format.SampleRate, p.outFormat.SampleRate)
		track.resampler = resample.New(format.SampleRate, p.outFormat.SampleRate, format.Channels)
	}
	return nil
}

func (p *Player) seek(positionMs uint32) {
	current := p.track.positionMs()
	if positionMs >= current {
		if err := p.track.skip(time.Duration(positionMs-current) * time.Millisecond); err != nil {
			p.log.Errorf("seek in %s: %v", p.track.id, err)
		}
		if p.track.resampler != nil {
			p.track.resampler.Reset()
		}
	} else {
		// decoders only read forward, so refetch and skip from the start
		id, playing := p.track.id, p.playing
		p.unload()
		track, err := p.open(id, positionMs)
		if err == nil {
			err = p.prepare(track)
			if err != nil {
				track.close()
			}
		}
		if err != nil {
			p.log.Errorf("seek reload of %s: %v", id, err)
			p.emitFor(id, EventUnavailable, positionMs)
			return
		}
		p.track = track
		p.playing = playing
	}

	if p.playing {
		p.emit(EventPlaying, p.track.positionMs())
	} else {
		p.emit(EventPaused, p.track.positionMs())
	}
}

func (p *Player) playBlock(buf []int32) {
	n, err := p.track.decoder.Read(buf)
	if n > 0 {
		block := buf[:n]
		if p.track.resampler != nil {
			p.track.resampled = p.track.resampler.Process(block, p.track.resampled)
			block = p.track.resampled
		}
		audio.ApplyGain(block, p.volume.Factor())
		if werr := p.out.Write(block); werr != nil {
			p.log.Errorf("output write: %v", werr)
		}
		p.track.written += int64(n)
	}

	if err == nil {
		return
	}
	if !errors.Is(err, io.EOF) {
		p.log.Errorf("decoding %s: %v", p.track.id, err)
	}
	p.emit(EventEndOfTrack, p.track.positionMs())
	p.unload()
}
