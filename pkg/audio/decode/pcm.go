// ABOUTME: PCM audio decoder
// ABOUTME: Decodes raw 16-bit and 24-bit little-endian PCM to int32 samples
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
)

// PCMDecoder decodes raw PCM audio
type PCMDecoder struct {
	r       io.Reader
	format  audio.Format
	bytesPS int
	buf     []byte
}

// NewPCM creates a new PCM decoder reading from r
func NewPCM(r io.Reader, format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	return &PCMDecoder{
		r:       r,
		format:  format,
		bytesPS: format.BitDepth / 8,
	}, nil
}

// Read decodes up to len(samples) samples
func (d *PCMDecoder) Read(samples []int32) (int, error) {
	need := len(samples) * d.bytesPS
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:need]

	n, err := io.ReadFull(d.r, buf)
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	count := n / d.bytesPS
	for i := 0; i < count; i++ {
		if d.bytesPS == 3 {
			samples[i] = audio.SampleFrom24Bit([3]byte{buf[i*3], buf[i*3+1], buf[i*3+2]})
		} else {
			samples[i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(buf[i*2:])))
		}
	}
	if count == 0 && err == nil {
		err = io.EOF
	}
	return count, err
}

// Format returns the stream format
func (d *PCMDecoder) Format() audio.Format {
	return d.format
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}
