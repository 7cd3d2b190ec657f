// ABOUTME: Tests for the linear resampler
// ABOUTME: Checks output length, continuity across blocks and interpolation
package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessSameRate(t *testing.T) {
	r := New(1000, 1000, 1)

	out := r.Process([]int32{1, 2, 3, 4}, nil)
	assert.Equal(t, []int32{1, 2, 3}, out)

	// the held frame comes out first in the next block
	out = r.Process([]int32{5, 6}, out)
	assert.Equal(t, []int32{4, 5}, out)
}

func TestProcessUpsampleInterpolates(t *testing.T) {
	r := New(1000, 2000, 1)

	out := r.Process([]int32{0, 100, 200}, nil)
	assert.Equal(t, []int32{0, 50, 100, 150}, out)
}

func TestProcessDownsample(t *testing.T) {
	r := New(2000, 1000, 2)

	in := make([]int32, 0, 200)
	for i := 0; i < 100; i++ {
		in = append(in, int32(i), int32(-i))
	}
	out := r.Process(in, nil)

	assert.Len(t, out, 100)
	assert.Equal(t, int32(2), out[2])
	assert.Equal(t, int32(-2), out[3])
}

func TestProcessBlocksMatchSingleCall(t *testing.T) {
	in := make([]int32, 1000)
	for i := range in {
		in[i] = int32(i * 3)
	}

	whole := New(44100, 48000, 1).Process(in, nil)

	r := New(44100, 48000, 1)
	var split []int32
	for start := 0; start < len(in); start += 64 {
		end := start + 64
		if end > len(in) {
			end = len(in)
		}
		split = append(split, r.Process(in[start:end], nil)...)
	}

	// positions accumulate differently across blocks, so allow rounding
	assert.Len(t, split, len(whole))
	assert.InDeltaSlice(t, whole, split, 1)
}

func TestReset(t *testing.T) {
	r := New(1000, 1000, 1)
	r.Process([]int32{1, 2, 3}, nil)
	r.Reset()

	assert.Equal(t, []int32{7, 8}, r.Process([]int32{7, 8, 9}, nil))
}
