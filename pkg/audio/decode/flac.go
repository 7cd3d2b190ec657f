// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC frames to interleaved int32 samples using mewkiz/flac
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio frame by frame
type FLACDecoder struct {
	stream  *flac.Stream
	format  audio.Format
	shift   int
	pending []int32
}

// NewFLAC creates a new FLAC decoder reading from r
func NewFLAC(r io.Reader) (Decoder, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create flac decoder: %w", err)
	}

	bps := int(stream.Info.BitsPerSample)
	if bps > 24 {
		stream.Close()
		return nil, fmt.Errorf("unsupported bit depth: %d", bps)
	}

	return &FLACDecoder{
		stream: stream,
		format: audio.Format{
			Codec:      "flac",
			SampleRate: int(stream.Info.SampleRate),
			Channels:   int(stream.Info.NChannels),
			BitDepth:   bps,
		},
		// left-justify into the 24-bit range
		shift: 24 - bps,
	}, nil
}

// Read decodes up to len(samples) samples
func (d *FLACDecoder) Read(samples []int32) (int, error) {
	written := 0
	for written < len(samples) {
		if len(d.pending) == 0 {
			if err := d.nextFrame(); err != nil {
				if written > 0 && err == io.EOF {
					return written, nil
				}
				return written, err
			}
		}
		n := copy(samples[written:], d.pending)
		d.pending = d.pending[n:]
		written += n
	}
	return written, nil
}

func (d *FLACDecoder) nextFrame() error {
	frame, err := d.stream.ParseNext()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return fmt.Errorf("flac decode error: %w", err)
	}

	channels := len(frame.Subframes)
	blockSize := int(frame.BlockSize)
	out := make([]int32, 0, blockSize*channels)
	for i := 0; i < blockSize; i++ {
		for ch := 0; ch < channels; ch++ {
			out = append(out, frame.Subframes[ch].Samples[i]<<d.shift)
		}
	}
	d.pending = out
	return nil
}

// Format returns the decoded format
func (d *FLACDecoder) Format() audio.Format {
	return d.format
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return d.stream.Close()
}
