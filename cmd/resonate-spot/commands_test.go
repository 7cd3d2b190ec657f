// ABOUTME: Tests for the REPL command parser and terminal delegate
// ABOUTME: Checks each verb maps to the right actor command
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/Resonate-Protocol/resonate-spot/pkg/spot"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want spot.Command
	}{
		{"login alice secret", spot.PasswordLogin{Username: "alice", Password: "secret"}},
		{"token alice tok123", spot.TokenLogin{Username: "alice", Token: "tok123"}},
		{"logout", spot.Logout{}},
		{"load track1", spot.Load{TrackID: "track1", Autoplay: true}},
		{"load track1 1500", spot.Load{TrackID: "track1", Autoplay: true, PositionMs: 1500}},
		{"  PLAY ", spot.Resume{}},
		{"pause", spot.Pause{}},
		{"stop", spot.Stop{}},
		{"seek 42", spot.Seek{PositionMs: 42}},
		{"volume 0.25", spot.SetVolume{Fraction: 0.25}},
		{"refresh", spot.RefreshToken{}},
		{"reload", spot.ReloadSettings{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, quit, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.False(t, quit)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{"login alice", "seek", "seek -1", "volume 2", "volume loud", "dance"} {
		_, _, err := parseCommand(line)
		assert.Error(t, err, line)
	}
}

func TestParseCommandQuitAndBlank(t *testing.T) {
	cmd, quit, err := parseCommand("quit")
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Nil(t, cmd)

	cmd, quit, err = parseCommand("   ")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Nil(t, cmd)
}

func TestReadCommandsClosesQueue(t *testing.T) {
	q := spot.NewCommandQueue()
	log := logrus.NewEntry(logrus.New())

	go readCommands(strings.NewReader("login alice secret\nbogus\nload track1\nquit\nstop\n"), q, log)

	var got []spot.Command
	for cmd := range q.Receive() {
		got = append(got, cmd)
	}
	assert.Equal(t, []spot.Command{
		spot.PasswordLogin{Username: "alice", Password: "secret"},
		spot.Load{TrackID: "track1", Autoplay: true},
	}, got)
}

func TestWatchSignalsCancelsAndClosesQueue(t *testing.T) {
	q := spot.NewCommandQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		watchSignals(sigs, q, cancel, logrus.NewEntry(logger))
		close(done)
	}()
	sigs <- syscall.SIGINT

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("signal not handled")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.ErrorIs(t, q.Send(spot.Stop{}), spot.ErrQueueClosed)
}

func TestLogDelegateReportsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	d := &logDelegate{log: logrus.NewEntry(logger), out: &buf}

	d.ReportError(&spot.Error{Kind: spot.LoginFailed, Err: errors.New("bad credentials")})
	d.NotifyPlaybackState(61000)
	d.EndOfTrackReached()

	out := buf.String()
	assert.Contains(t, out, "error: login failed: bad credentials")
	assert.Contains(t, out, "playing at 1m1s")
	assert.Contains(t, out, "end of track")
}
