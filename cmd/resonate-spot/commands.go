// ABOUTME: Line-oriented command parser for the REPL
// ABOUTME: Turns typed lines into actor commands
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Resonate-Protocol/resonate-spot/pkg/spot"
)

const usage = `commands:
  login <user> <password>   log in with a password
  token <user> <token>      log in with a bearer token
  logout
  load <track> [ms]         load and play a track, optionally from ms
  play | pause | stop
  seek <ms>
  volume <0..1>
  refresh                   fetch a new access token
  reload                    re-read playback settings
  quit`

// parseCommand returns the command for line. An empty line yields a nil
// command; quit is true for "quit" and "exit".
func parseCommand(line string) (cmd spot.Command, quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false, nil
	}
	args := fields[1:]

	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: expected %d argument(s)", fields[0], n)
		}
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "login":
		if err := need(2); err != nil {
			return nil, false, err
		}
		return spot.PasswordLogin{Username: args[0], Password: args[1]}, false, nil
	case "token":
		if err := need(2); err != nil {
			return nil, false, err
		}
		return spot.TokenLogin{Username: args[0], Token: args[1]}, false, nil
	case "logout":
		return spot.Logout{}, false, nil
	case "load":
		if err := need(1); err != nil {
			return nil, false, err
		}
		var pos uint32
		if len(args) > 1 {
			if pos, err = parseMs(args[1]); err != nil {
				return nil, false, err
			}
		}
		return spot.Load{TrackID: args[0], Autoplay: true, PositionMs: pos}, false, nil
	case "play", "resume":
		return spot.Resume{}, false, nil
	case "pause":
		return spot.Pause{}, false, nil
	case "stop":
		return spot.Stop{}, false, nil
	case "seek":
		if err := need(1); err != nil {
			return nil, false, err
		}
		pos, err := parseMs(args[0])
		if err != nil {
			return nil, false, err
		}
		return spot.Seek{PositionMs: pos}, false, nil
	case "volume", "vol":
		if err := need(1); err != nil {
			return nil, false, err
		}
		f, err := strconv.ParseFloat(args[0], 64)
		if err != nil || f < 0 || f > 1 {
			return nil, false, fmt.Errorf("volume: expected a number between 0 and 1, got %q", args[0])
		}
		return spot.SetVolume{Fraction: f}, false, nil
	case "refresh":
		return spot.RefreshToken{}, false, nil
	case "reload":
		return spot.ReloadSettings{}, false, nil
	case "quit", "exit":
		return nil, true, nil
	case "help", "?":
		return nil, false, errors.New(usage)
	default:
		return nil, false, fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

func parseMs(s string) (uint32, error) {
	ms, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return uint32(ms), nil
}
