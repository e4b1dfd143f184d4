package audio

// Clip is decoded PCM audio held as interleaved signed 16-bit samples.
type Clip struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Frames returns the number of sample frames, one sample per channel each.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.SampleRate)
}

// Resampled converts the clip to the target sample rate using linear
// interpolation. The receiver is returned unchanged when the rate already
// matches.
func (c *Clip) Resampled(rate int) *Clip {
	if rate == c.SampleRate || c.SampleRate == 0 || rate <= 0 {
		return c
	}

	ratio := float64(rate) / float64(c.SampleRate)
	srcFrames := c.Frames()
	dstFrames := int(float64(srcFrames) * ratio)
	out := make([]int16, dstFrames*c.Channels)

	for i := 0; i < dstFrames; i++ {
		srcPos := float64(i) / ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		for ch := 0; ch < c.Channels; ch++ {
			v := float64(c.Samples[srcIdx*c.Channels+ch])
			if srcIdx+1 < srcFrames {
				next := float64(c.Samples[(srcIdx+1)*c.Channels+ch])
				v = v*(1-frac) + next*frac
			}
			out[i*c.Channels+ch] = int16(v)
		}
	}

	return &Clip{SampleRate: rate, Channels: c.Channels, Samples: out}
}

// WithChannels converts the clip to the target channel count. Mono is
// duplicated across channels; multichannel input downmixes by averaging.
func (c *Clip) WithChannels(n int) *Clip {
	if n == c.Channels || n <= 0 || c.Channels == 0 {
		return c
	}

	frames := c.Frames()
	out := make([]int16, frames*n)

	for i := 0; i < frames; i++ {
		switch {
		case c.Channels == 1:
			for ch := 0; ch < n; ch++ {
				out[i*n+ch] = c.Samples[i]
			}
		case n == 1:
			sum := 0
			for ch := 0; ch < c.Channels; ch++ {
				sum += int(c.Samples[i*c.Channels+ch])
			}
			out[i] = int16(sum / c.Channels)
		default:
			for ch := 0; ch < n; ch++ {
				src := ch
				if src >= c.Channels {
					src = c.Channels - 1
				}
				out[i*n+ch] = c.Samples[i*c.Channels+src]
			}
		}
	}

	return &Clip{SampleRate: c.SampleRate, Channels: n, Samples: out}
}

// Append concatenates other onto c, converting rate and channels to match.
func (c *Clip) Append(other *Clip) {
	converted := other.Resampled(c.SampleRate).WithChannels(c.Channels)
	c.Samples = append(c.Samples, converted.Samples...)
}

// Silence builds a clip of digital silence.
func Silence(seconds float64, sampleRate, channels int) *Clip {
	if seconds < 0 {
		seconds = 0
	}
	frames := int(seconds * float64(sampleRate))
	return &Clip{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]int16, frames*channels),
	}
}
