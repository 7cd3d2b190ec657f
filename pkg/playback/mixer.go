// ABOUTME: Software mixer with configurable volume curve
// ABOUTME: Maps integer volume to a gain factor shared with active players
package playback

import (
	"math"
	"sync/atomic"
)

const (
	// MaxVolume is the top of the integer volume range
	MaxVolume uint16 = math.MaxUint16

	// DefaultDBRange is the dynamic range of the logarithmic curve
	DefaultDBRange = 60.0
)

// VolumeCurve selects how integer volume maps to gain
type VolumeCurve int

const (
	VolumeLinear VolumeCurve = iota
	VolumeLog
)

// VolumeCtrl is the mixer's control law
type VolumeCtrl struct {
	Curve   VolumeCurve
	DBRange float64
}

// LogVolume returns a logarithmic control law spanning dbRange decibels
func LogVolume(dbRange float64) VolumeCtrl {
	return VolumeCtrl{Curve: VolumeLog, DBRange: dbRange}
}

// Factor maps volume to a linear gain in [0, 1]
func (v VolumeCtrl) Factor(volume uint16) float64 {
	normalized := float64(volume) / float64(MaxVolume)
	if normalized <= 0 {
		return 0
	}
	if v.Curve == VolumeLinear {
		return normalized
	}
	return math.Pow(10, v.DBRange*(normalized-1)/20)
}

// MixerConfig configures a SoftMixer
type MixerConfig struct {
	VolumeCtrl VolumeCtrl
}

// DefaultMixerConfig uses the logarithmic curve with the default range
func DefaultMixerConfig() MixerConfig {
	return MixerConfig{VolumeCtrl: LogVolume(DefaultDBRange)}
}

// SoftMixer applies volume in software. It is safe for concurrent use and
// outlives the players it feeds.
type SoftMixer struct {
	ctrl   VolumeCtrl
	volume atomic.Uint32
	factor *atomic.Uint64
}

// OpenSoftMixer creates a mixer at zero volume
func OpenSoftMixer(cfg MixerConfig) *SoftMixer {
	m := &SoftMixer{
		ctrl:   cfg.VolumeCtrl,
		factor: new(atomic.Uint64),
	}
	m.factor.Store(math.Float64bits(0))
	return m
}

// SetVolume sets the integer volume
func (m *SoftMixer) SetVolume(volume uint16) {
	m.volume.Store(uint32(volume))
	m.factor.Store(math.Float64bits(m.ctrl.Factor(volume)))
}

// Volume returns the integer volume
func (m *SoftMixer) Volume() uint16 {
	return uint16(m.volume.Load())
}

// SoftVolume returns the gain handle players read from
func (m *SoftMixer) SoftVolume() SoftVolume {
	return SoftVolume{factor: m.factor}
}

// SoftVolume is a read-only view of a mixer's current gain.
// The zero value is unity gain.
type SoftVolume struct {
	factor *atomic.Uint64
}

// Factor returns the current linear gain
func (s SoftVolume) Factor() float64 {
	if s.factor == nil {
		return 1.0
	}
	return math.Float64frombits(s.factor.Load())
}
