// ABOUTME: ALSA audio output implementation
// ABOUTME: Streams raw PCM into aplay bound to a named ALSA device
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
	log "github.com/sirupsen/logrus"
)

// ALSA output writing S16_LE PCM to an aplay process
type ALSA struct {
	device string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	buf    []byte
}

// NewALSA creates an output for the given ALSA device name
func NewALSA(device string) Output {
	if device == "" {
		device = "default"
	}
	return &ALSA{device: device}
}

func (a *ALSA) buildCommand(sampleRate, channels int) *exec.Cmd {
	return exec.Command("aplay",
		"-q",
		"-D", a.device,
		"-t", "raw",
		"-f", "S16_LE",
		"-r", strconv.Itoa(sampleRate),
		"-c", strconv.Itoa(channels),
	)
}

// Open starts aplay for the given format
func (a *ALSA) Open(sampleRate, channels, bitDepth int) error {
	if a.cmd != nil {
		return nil
	}

	cmd := a.buildCommand(sampleRate, channels)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe failed: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("aplay failed to start: %w", err)
	}

	a.cmd = cmd
	a.stdin = stdin
	log.Infof("ALSA output on %s: %dHz, %d channels (pid %d)", a.device, sampleRate, channels, cmd.Process.Pid)
	return nil
}

// Write outputs audio samples
func (a *ALSA) Write(samples []int32) error {
	if a.stdin == nil {
		return fmt.Errorf("output not initialized")
	}

	need := len(samples) * 2
	if cap(a.buf) < need {
		a.buf = make([]byte, need)
	}
	out := a.buf[:need]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(audio.SampleToInt16(s)))
	}

	if _, err := a.stdin.Write(out); err != nil {
		return fmt.Errorf("aplay write failed: %w", err)
	}
	return nil
}

// Close stops aplay
func (a *ALSA) Close() error {
	if a.cmd == nil {
		return nil
	}
	a.stdin.Close()
	err := a.cmd.Wait()
	a.cmd = nil
	a.stdin = nil
	if err != nil {
		return fmt.Errorf("aplay exited: %w", err)
	}
	return nil
}
