// ABOUTME: Delegate that reports actor outcomes to the terminal
// ABOUTME: Logs errors and prints login, token and playback notifications
package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-spot/pkg/spot"
	"github.com/sirupsen/logrus"
)

type logDelegate struct {
	log *logrus.Entry

	mu  sync.Mutex
	out io.Writer
}

func (d *logDelegate) printf(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, format+"\n", args...)
}

func (d *logDelegate) EndOfTrackReached() {
	d.printf("end of track")
}

// PasswordLoginSuccessful drops the password; nothing is persisted
func (d *logDelegate) PasswordLoginSuccessful(creds spot.Credentials) {
	d.log.WithField("country", creds.Country).Infof("Logged in as %s", creds.Username)
	d.printf("logged in as %s, token valid until %s", creds.Username, creds.TokenExpiry.Format(time.Kitchen))
}

func (d *logDelegate) TokenLoginSuccessful(username, token string) {
	d.log.Infof("Logged in as %s with token", username)
	d.printf("logged in as %s", username)
}

func (d *logDelegate) RefreshSuccessful(token string, expiry time.Time) {
	d.log.Debugf("Token refreshed, expires %s", expiry)
	d.printf("token refreshed, valid until %s", expiry.Format(time.Kitchen))
}

func (d *logDelegate) ReportError(err error) {
	d.log.Warnf("%v", err)
	d.printf("error: %v", err)
}

func (d *logDelegate) NotifyPlaybackState(positionMs uint32) {
	d.printf("playing at %s", (time.Duration(positionMs) * time.Millisecond).Round(time.Second))
}
