// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion, gain and duration helpers
package audio

import (
	"math"
	"testing"
	"time"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := SampleFromInt16(tt.input); result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleRoundTripInt16(t *testing.T) {
	for _, s := range []int16{0, 1, -1, 12345, -32768} {
		if got := SampleToInt16(SampleFromInt16(s)); got != s {
			t.Errorf("round trip of %d gave %d", s, got)
		}
	}
}

func TestSampleFrom24BitSignExtends(t *testing.T) {
	if got := SampleFrom24Bit([3]byte{0xFF, 0xFF, 0xFF}); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
	if got := SampleFrom24Bit([3]byte{0x56, 0x34, 0x12}); got != 0x123456 {
		t.Errorf("expected 0x123456, got %#x", got)
	}
}

func TestApplyGain(t *testing.T) {
	samples := []int32{1000, -1000, Max24Bit}
	ApplyGain(samples, 0.5)
	if samples[0] != 500 || samples[1] != -500 {
		t.Errorf("unexpected scaled samples: %v", samples)
	}

	loud := []int32{Max24Bit, Min24Bit}
	ApplyGain(loud, 2.0)
	if loud[0] != Max24Bit || loud[1] != Min24Bit {
		t.Errorf("expected clamping, got %v", loud)
	}

	muted := []int32{42}
	ApplyGain(muted, 0)
	if muted[0] != 0 {
		t.Errorf("expected silence, got %d", muted[0])
	}
}

func TestFormatDurations(t *testing.T) {
	f := Format{SampleRate: 44100, Channels: 2}

	if got := f.FramesToDuration(88200); got != time.Second {
		t.Errorf("expected 1s, got %v", got)
	}
	if got := f.DurationToSamples(500 * time.Millisecond); got != 44100 {
		t.Errorf("expected 44100 samples, got %d", got)
	}
	if got := (Format{}).FramesToDuration(100); got != 0 {
		t.Errorf("expected 0 for empty format, got %v", got)
	}
}

func TestFormatDurationsAtMaxPosition(t *testing.T) {
	f := Format{SampleRate: 48000, Channels: 2}
	d := time.Duration(math.MaxUint32) * time.Millisecond

	samples := f.DurationToSamples(d)
	if want := int64(math.MaxUint32) * 48 * 2; samples != want {
		t.Fatalf("DurationToSamples(%v) = %d, want %d", d, samples, want)
	}
	if got := f.FramesToDuration(samples); got != d {
		t.Errorf("FramesToDuration(%d) = %v, want %v", samples, got, d)
	}
}
