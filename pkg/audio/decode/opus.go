// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Ogg/Opus streams to int32 samples
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// opus always decodes at 48kHz
const opusSampleRate = 48000

// OpusDecoder decodes Ogg/Opus audio
type OpusDecoder struct {
	stream *opus.Stream
	format audio.Format
	pcm16  []int16
}

// NewOpus creates a new Opus decoder reading an Ogg/Opus stream from r
func NewOpus(r io.Reader, format audio.Format) (Decoder, error) {
	if format.Codec != "opus" {
		return nil, fmt.Errorf("invalid codec for Opus decoder: %s", format.Codec)
	}
	if format.Channels <= 0 {
		format.Channels = 2
	}

	stream, err := opus.NewStream(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	format.SampleRate = opusSampleRate
	format.BitDepth = 16
	return &OpusDecoder{
		stream: stream,
		format: format,
	}, nil
}

// Read decodes up to len(samples) samples
func (d *OpusDecoder) Read(samples []int32) (int, error) {
	if cap(d.pcm16) < len(samples) {
		d.pcm16 = make([]int16, len(samples))
	}
	pcm16 := d.pcm16[:len(samples)]

	n, err := d.stream.Read(pcm16)
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("opus decode failed: %w", err)
	}

	// n is per channel
	count := n * d.format.Channels
	for i := 0; i < count; i++ {
		samples[i] = audio.SampleFromInt16(pcm16[i])
	}
	return count, nil
}

// Format returns the decoded format
func (d *OpusDecoder) Format() audio.Format {
	return d.format
}

// Close releases decoder resources
func (d *OpusDecoder) Close() error {
	return d.stream.Close()
}
