// ABOUTME: Tests for the event bridge and supporting types
// ABOUTME: Covers event mapping, the command queue and error matching
package spot

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Resonate-Protocol/resonate-spot/pkg/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardEvents(t *testing.T) {
	d := &recordingDelegate{}
	events := make(chan playback.Event, 8)
	events <- playback.Event{Kind: playback.EventLoading}
	events <- playback.Event{Kind: playback.EventPlaying, PositionMs: 1200}
	events <- playback.Event{Kind: playback.EventPaused, PositionMs: 1300}
	events <- playback.Event{Kind: playback.EventStopped}
	events <- playback.Event{Kind: playback.EventUnavailable}
	events <- playback.Event{Kind: playback.EventEndOfTrack}
	close(events)

	done := make(chan struct{})
	go func() {
		forwardEvents(events, d)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not end when the stream closed")
	}

	assert.Equal(t, 2, d.endOfTrackCount())
	assert.Equal(t, []uint32{1200}, d.positionsSeen())
	assert.Empty(t, d.errors())
}

func TestCommandQueueFIFO(t *testing.T) {
	q := NewCommandQueue()
	for i := 0; i < 1000; i++ {
		require.NoError(t, q.Send(Seek{PositionMs: uint32(i)}))
	}
	q.Close()

	var got []uint32
	for cmd := range q.Receive() {
		got = append(got, cmd.(Seek).PositionMs)
	}
	require.Len(t, got, 1000)
	for i, pos := range got {
		assert.Equal(t, uint32(i), pos)
	}
}

func TestCommandQueueProducers(t *testing.T) {
	q := NewCommandQueue()

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Send(Resume{})
			}
		}()
	}
	wg.Wait()
	q.Close()

	n := 0
	for range q.Receive() {
		n++
	}
	assert.Equal(t, 400, n)
}

func TestCommandQueueClosed(t *testing.T) {
	q := NewCommandQueue()
	q.Close()
	q.Close()

	assert.ErrorIs(t, q.Send(Resume{}), ErrQueueClosed)
	_, ok := <-q.Receive()
	assert.False(t, ok)
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := loginFailed(cause)

	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.NotErrorIs(t, err, ErrTokenFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "login failed: connection refused", err.Error())
	assert.Equal(t, "player is not responding", ErrPlayerNotReady.Error())
	assert.Equal(t, "token retrieval failed", ErrTokenFailed.Error())
}

func TestScopes(t *testing.T) {
	assert.Equal(t, "user-read-private,playlist-read-private,playlist-read-collaborative,"+
		"user-library-read,user-library-modify,user-top-read,user-read-recently-played,"+
		"playlist-modify-public,playlist-modify-private,streaming", Scopes)
	assert.Len(t, KnownAPPorts, 4)
	assert.Nil(t, KnownAPPorts[0])
}
