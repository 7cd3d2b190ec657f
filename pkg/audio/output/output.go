// ABOUTME: Audio output interface and backend registry
// ABOUTME: Maps backend names to output constructors
package output

import (
	"fmt"
	"sort"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels, bitDepth int) error

	// Write outputs audio samples (blocks until written)
	Write(samples []int32) error

	// Close releases output resources
	Close() error
}

// Negotiated is implemented by outputs whose device may run at a format
// other than the one requested. ActualFormat is valid after Open.
type Negotiated interface {
	ActualFormat() (sampleRate, channels int)
}

// Builder constructs an output for a device. Backends without device
// selection ignore the argument.
type Builder func(device string) Output

var backends = map[string]Builder{
	"pulseaudio": func(string) Output { return NewOto() },
	"alsa":       func(device string) Output { return NewALSA(device) },
}

// Find returns the builder registered under name
func Find(name string) (Builder, error) {
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown audio backend: %s", name)
	}
	return b, nil
}

// Names lists the registered backends
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
