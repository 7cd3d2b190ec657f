// ABOUTME: Track file transfer over the session
// ABOUTME: Routes binary audio frames into per-request streams
package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
	"github.com/google/uuid"
)

// audioPipe carries one track's frames from the reader goroutine to the
// consumer. Frames queue without limit so the reader never waits on a
// consumer that has paused.
type audioPipe struct {
	mu       sync.Mutex
	queue    [][]byte
	finished bool
	err      error
	wake     chan struct{}

	pr       *io.PipeReader
	pw       *io.PipeWriter
	released chan struct{}
	once     sync.Once
}

func newAudioPipe() *audioPipe {
	pr, pw := io.Pipe()
	p := &audioPipe{
		wake:     make(chan struct{}, 1),
		pr:       pr,
		pw:       pw,
		released: make(chan struct{}),
	}
	go p.pump()
	return p
}

func (p *audioPipe) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *audioPipe) pump() {
	for {
		p.mu.Lock()
		if len(p.queue) > 0 {
			data := p.queue[0]
			p.queue[0] = nil
			p.queue = p.queue[1:]
			p.mu.Unlock()

			// fails only once the consumer has released the pipe
			if _, err := p.pw.Write(data); err != nil {
				return
			}
			continue
		}
		if p.finished {
			err := p.err
			p.mu.Unlock()
			p.pw.CloseWithError(err)
			return
		}
		p.mu.Unlock()

		select {
		case <-p.wake:
		case <-p.released:
			return
		}
	}
}

// push queues a frame and never blocks
func (p *audioPipe) push(data []byte) {
	select {
	case <-p.released:
		return
	default:
	}

	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.queue = append(p.queue, data)
	p.mu.Unlock()
	p.signal()
}

// finish ends the stream after the queued frames; a nil err reads as EOF
func (p *audioPipe) finish(err error) {
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.finished = true
	p.err = err
	p.mu.Unlock()
	p.signal()
}

func (p *audioPipe) release() {
	p.once.Do(func() {
		close(p.released)
		p.pr.Close()
		p.mu.Lock()
		p.queue = nil
		p.mu.Unlock()
	})
}

// streamBody is the consumer side of an audioPipe
type streamBody struct {
	s  *Session
	id string
	p  *audioPipe
}

func (b *streamBody) Read(buf []byte) (int, error) {
	return b.p.pr.Read(buf)
}

func (b *streamBody) Close() error {
	b.p.release()
	b.s.mu.Lock()
	delete(b.s.streams, b.id)
	b.s.mu.Unlock()
	return nil
}

// FetchAudio requests a track file at the given bitrate. The returned
// stream delivers frames as they arrive and ends with io.EOF.
func (s *Session) FetchAudio(ctx context.Context, trackID string, kbps int) (*audio.Stream, error) {
	id := uuid.New().String()

	// register before sending so early frames are not lost
	pipe := newAudioPipe()
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		pipe.finish(nil)
		return nil, s.err
	}
	s.streams[id] = pipe
	s.mu.Unlock()
	body := &streamBody{s: s, id: id, p: pipe}

	resp, err := s.request(ctx, id, Message{
		Type:    TypeAudioRequest,
		Payload: AudioRequest{RequestID: id, TrackID: trackID, Bitrate: kbps},
	})
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("audio request for %s: %w", trackID, err)
	}

	if resp.Type == TypeAudioError {
		var aerr AudioError
		_ = resp.decode(&aerr)
		body.Close()
		return nil, fmt.Errorf("audio request for %s: %s", trackID, aerr.Reason)
	}

	var header AudioHeader
	if err := resp.decode(&header); err != nil {
		body.Close()
		return nil, fmt.Errorf("failed to parse %s: %w", resp.Type, err)
	}

	s.log.Debugf("Streaming %s: %s %dHz %dch", trackID, header.Codec, header.SampleRate, header.Channels)
	return &audio.Stream{
		TrackID: trackID,
		Format: audio.Format{
			Codec:      header.Codec,
			SampleRate: header.SampleRate,
			Channels:   header.Channels,
			BitDepth:   header.BitDepth,
		},
		Duration:   time.Duration(header.DurationMs) * time.Millisecond,
		ReadCloser: body,
	}, nil
}

// handleBinaryMessage routes audio frames
func (s *Session) handleBinaryMessage(data []byte) {
	if len(data) < audioFrameHeaderSize {
		s.log.Warnf("Invalid binary message: too short")
		return
	}
	if data[0] != AudioChunkFrameType {
		s.log.Debugf("Unknown binary message type: %d", data[0])
		return
	}

	id, err := uuid.FromBytes(data[1:audioFrameHeaderSize])
	if err != nil {
		s.log.Warnf("Invalid audio frame id: %v", err)
		return
	}

	s.mu.RLock()
	pipe, ok := s.streams[id.String()]
	s.mu.RUnlock()
	if !ok {
		return
	}

	pipe.push(data[audioFrameHeaderSize:])
}

// finishStream handles audio/end and audio/error
func (s *Session) finishStream(msg inbound) {
	id := msg.requestID()

	// an error before the header fails the pending request instead
	if msg.Type == TypeAudioError {
		s.mu.RLock()
		_, waiting := s.pending[id]
		s.mu.RUnlock()
		if waiting {
			s.deliver(msg)
		}
	}

	s.mu.RLock()
	pipe, ok := s.streams[id]
	s.mu.RUnlock()
	if !ok {
		return
	}

	if msg.Type == TypeAudioEnd {
		pipe.finish(nil)
		return
	}
	var aerr AudioError
	_ = msg.decode(&aerr)
	pipe.finish(fmt.Errorf("audio transfer failed: %s", aerr.Reason))
}
