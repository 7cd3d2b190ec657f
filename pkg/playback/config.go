// ABOUTME: Playback configuration types
// ABOUTME: Defines bitrate selection and player tuning options
package playback

import "fmt"

// Bitrate selects the quality of fetched audio files
type Bitrate int

const (
	Bitrate96 Bitrate = iota
	Bitrate160
	Bitrate320
)

// Kbps returns the nominal bitrate in kilobits per second
func (b Bitrate) Kbps() int {
	switch b {
	case Bitrate96:
		return 96
	case Bitrate320:
		return 320
	default:
		return 160
	}
}

func (b Bitrate) String() string {
	return fmt.Sprintf("%dkbps", b.Kbps())
}

// ParseBitrate maps a kbps value to a Bitrate
func ParseBitrate(kbps int) (Bitrate, error) {
	switch kbps {
	case 96:
		return Bitrate96, nil
	case 160:
		return Bitrate160, nil
	case 320:
		return Bitrate320, nil
	default:
		return Bitrate160, fmt.Errorf("unsupported bitrate: %d (supported: 96, 160, 320)", kbps)
	}
}

// PlayerConfig holds player configuration
type PlayerConfig struct {
	// Bitrate requested from the access point
	Bitrate Bitrate

	// BlockSize is the number of samples decoded per output write (default: 4096)
	BlockSize int
}

// DefaultPlayerConfig returns the default configuration
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Bitrate:   Bitrate160,
		BlockSize: 4096,
	}
}
