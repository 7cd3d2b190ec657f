// ABOUTME: Session establishment with access point port fallback
// ABOUTME: Transport failures move on to the next port, rejections stop at once
package spot

import (
	"context"
	"strconv"

	"github.com/Resonate-Protocol/resonate-spot/pkg/session"
	"github.com/sirupsen/logrus"
)

// KnownAPPorts are tried in order when no port is configured. nil dials
// the access point address as given.
var KnownAPPorts = []*uint16{nil, portPtr(80), portPtr(443), portPtr(4070)}

func portPtr(p uint16) *uint16 {
	return &p
}

func portString(p *uint16) string {
	if p == nil {
		return "default"
	}
	return strconv.Itoa(int(*p))
}

// establish opens a session. With a fixed port it makes a single attempt;
// otherwise it walks KnownAPPorts until one connects or the credentials are
// rejected.
func establish(ctx context.Context, connect Connector, base session.Config, fixed *uint16, creds session.Credentials, log *logrus.Entry) (Session, error) {
	if fixed != nil {
		cfg := base
		cfg.Port = fixed
		log.Infof("Connecting to %s", cfg.Address())
		s, err := connect(ctx, cfg, creds)
		if err != nil {
			return nil, loginFailed(err)
		}
		return s, nil
	}

	var lastErr error
	for _, port := range KnownAPPorts {
		cfg := base
		cfg.Port = port
		log.Infof("Connecting to %s", cfg.Address())

		s, err := connect(ctx, cfg, creds.Clone())
		if err == nil {
			return s, nil
		}
		if session.IsAuthentication(err) || ctx.Err() != nil {
			return nil, loginFailed(err)
		}
		log.Debugf("Access point on port %s unavailable: %v", portString(port), err)
		lastErr = err
	}
	return nil, loginFailed(lastErr)
}
