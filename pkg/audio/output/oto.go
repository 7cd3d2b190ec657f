// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays PCM through the system sound server using the oto library
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
	"github.com/ebitengine/oto/v3"
	log "github.com/sirupsen/logrus"
)

// oto allows only one context per process, shared by every Oto output
var (
	otoMu         sync.Mutex
	otoCtx        *oto.Context
	otoSampleRate int
	otoChannels   int
)

// sharedContext returns the process context and the format it runs at,
// which is the first format ever requested.
func sharedContext(sampleRate, channels int) (*oto.Context, int, int, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoSampleRate != sampleRate || otoChannels != channels {
			log.Infof("oto: context stays at %dHz %dch, requested %dHz %dch",
				otoSampleRate, otoChannels, sampleRate, channels)
		}
		return otoCtx, otoSampleRate, otoChannels, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	otoCtx = ctx
	otoSampleRate = sampleRate
	otoChannels = channels
	return ctx, sampleRate, channels, nil
}

// Oto output implementation using oto library
type Oto struct {
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	buf        []byte
	ready      bool

	sampleRate int
	channels   int
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{}
}

// Open initializes the output device. oto only supports 16-bit output.
func (o *Oto) Open(sampleRate, channels, bitDepth int) error {
	if o.ready {
		return nil
	}
	if bitDepth != 16 {
		log.Debugf("oto: converting %d-bit input to 16-bit output", bitDepth)
	}

	ctx, rate, ch, err := sharedContext(sampleRate, channels)
	if err != nil {
		return err
	}
	o.sampleRate, o.channels = rate, ch

	// persistent player fed through a pipe
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = ctx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.ready = true

	log.Infof("Audio output initialized: %dHz, %d channels", rate, ch)
	return nil
}

// ActualFormat reports the format of the shared context, which may differ
// from what Open was asked for.
func (o *Oto) ActualFormat() (sampleRate, channels int) {
	return o.sampleRate, o.channels
}

// Write outputs audio samples (blocks until written)
func (o *Oto) Write(samples []int32) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}

	need := len(samples) * 2
	if cap(o.buf) < need {
		o.buf = make([]byte, need)
	}
	out := o.buf[:need]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(audio.SampleToInt16(s)))
	}

	if _, err := o.pipeWriter.Write(out); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}
	return nil
}

// Close releases output resources. The shared context stays alive.
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	o.ready = false
	return nil
}
