// ABOUTME: Tests for access point fallback
// ABOUTME: Verifies transient failures advance and rejections short-circuit
package spot

import (
	"context"
	"errors"
	"testing"

	"github.com/Resonate-Protocol/resonate-spot/pkg/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestEstablishFallback(t *testing.T) {
	all := []string{"default", "80", "443", "4070"}

	for n := 0; n < len(all); n++ {
		ap := newFakeAP()
		ap.results[all[n]] = nil

		s, err := establish(context.Background(), ap.connect, session.Config{Host: "ap.test"}, nil,
			session.WithPassword("alice", "secret"), testLog())

		require.NoError(t, err, "success on attempt %d", n+1)
		assert.NotNil(t, s)
		assert.Equal(t, all[:n+1], ap.attempted())
	}
}

func TestEstablishAuthenticationShortCircuits(t *testing.T) {
	ap := newFakeAP()
	ap.results["default"] = &session.AuthenticationError{Code: 1, Reason: "bad credentials"}
	ap.results["80"] = nil

	s, err := establish(context.Background(), ap.connect, session.Config{Host: "ap.test"}, nil,
		session.WithPassword("alice", "wrong"), testLog())

	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Equal(t, []string{"default"}, ap.attempted())

	var authErr *session.AuthenticationError
	assert.True(t, errors.As(err, &authErr))
}

func TestEstablishAuthenticationAfterTransient(t *testing.T) {
	ap := newFakeAP()
	ap.results["443"] = &session.AuthenticationError{Code: 1}
	ap.results["4070"] = nil

	_, err := establish(context.Background(), ap.connect, session.Config{Host: "ap.test"}, nil,
		session.WithToken("alice", "tok"), testLog())

	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Equal(t, []string{"default", "80", "443"}, ap.attempted())
}

func TestEstablishExhausted(t *testing.T) {
	ap := newFakeAP()

	_, err := establish(context.Background(), ap.connect, session.Config{Host: "ap.test"}, nil,
		session.WithPassword("alice", "secret"), testLog())

	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Equal(t, []string{"default", "80", "443", "4070"}, ap.attempted())

	var ioErr *session.IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestEstablishFixedPort(t *testing.T) {
	port := uint16(443)

	ap := newFakeAP()
	ap.results["80"] = nil
	_, err := establish(context.Background(), ap.connect, session.Config{Host: "ap.test"}, &port,
		session.WithPassword("alice", "secret"), testLog())
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Equal(t, []string{"443"}, ap.attempted())

	ap = newFakeAP()
	ap.results["443"] = nil
	s, err := establish(context.Background(), ap.connect, session.Config{Host: "ap.test"}, &port,
		session.WithPassword("alice", "secret"), testLog())
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Username())
}

func TestEstablishStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ap := newFakeAP()
	_, err := establish(ctx, ap.connect, session.Config{Host: "ap.test"}, nil,
		session.WithPassword("alice", "secret"), testLog())

	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Len(t, ap.attempted(), 1)
}

func TestEstablishCredentialsReusable(t *testing.T) {
	ap := newFakeAP()
	ap.results["4070"] = nil

	_, err := establish(context.Background(), ap.connect, session.Config{Host: "ap.test"}, nil,
		session.WithPassword("alice", "secret"), testLog())
	require.NoError(t, err)

	for _, c := range ap.creds {
		assert.Equal(t, "alice", c.Username)
		assert.Equal(t, []byte("secret"), c.AuthData)
	}
}
