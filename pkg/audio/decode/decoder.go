// ABOUTME: Decoder interface definition and codec dispatch
// ABOUTME: Common interface for all streaming audio decoders
package decode

import (
	"fmt"

	"github.com/Resonate-Protocol/resonate-spot/pkg/audio"
)

// Decoder decodes an encoded audio stream to PCM int32 samples
type Decoder interface {
	// Read fills samples with interleaved PCM and returns io.EOF at the end
	Read(samples []int32) (int, error)
	// Format describes the decoded output
	Format() audio.Format
	// Close releases decoder resources
	Close() error
}

// New picks a decoder for the stream's codec
func New(stream *audio.Stream) (Decoder, error) {
	switch stream.Format.Codec {
	case "pcm":
		return NewPCM(stream, stream.Format)
	case "mp3":
		return NewMP3(stream)
	case "flac":
		return NewFLAC(stream)
	case "opus":
		return NewOpus(stream, stream.Format)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", stream.Format.Codec)
	}
}
