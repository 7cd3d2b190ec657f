// ABOUTME: Linear interpolation resampler for interleaved int32 audio
// ABOUTME: Keeps the last input frame so consecutive blocks join without gaps
package resample

// Resampler converts interleaved samples from one rate to another. It is
// stateful: feed it consecutive blocks of one stream.
type Resampler struct {
	channels int
	ratio    float64 // input frames per output frame
	pos      float64 // read position, frame 0 being prev
	prev     []int32
	primed   bool
}

// New creates a resampler from inputRate to outputRate
func New(inputRate, outputRate, channels int) *Resampler {
	if channels < 1 {
		channels = 1
	}
	return &Resampler{
		channels: channels,
		ratio:    float64(inputRate) / float64(outputRate),
		prev:     make([]int32, channels),
	}
}

// Process resamples in and appends the result to out[:0], returning it.
// Output lags input by one frame.
func (r *Resampler) Process(in, out []int32) []int32 {
	out = out[:0]
	ch := r.channels
	if !r.primed {
		if len(in) < ch {
			return out
		}
		copy(r.prev, in[:ch])
		in = in[ch:]
		r.primed = true
	}

	frames := len(in) / ch
	frame := func(i int) []int32 {
		if i == 0 {
			return r.prev
		}
		return in[(i-1)*ch : i*ch]
	}

	for {
		i := int(r.pos)
		if i+1 > frames {
			break
		}
		frac := r.pos - float64(i)
		a, b := frame(i), frame(i+1)
		for c := 0; c < ch; c++ {
			out = append(out, int32(float64(a[c])*(1-frac)+float64(b[c])*frac))
		}
		r.pos += r.ratio
	}

	if frames > 0 {
		copy(r.prev, in[(frames-1)*ch:frames*ch])
		r.pos -= float64(frames)
	}
	return out
}

// Reset forgets the carried frame, for use after a seek
func (r *Resampler) Reset() {
	r.pos = 0
	r.primed = false
}
