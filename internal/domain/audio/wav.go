package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWAV decodes a RIFF/WAVE file into a Clip.
func ReadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("wav file %s holds no samples", path)
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = scaleTo16(v, depth)
	}

	return &Clip{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Samples:    samples,
	}, nil
}

// scaleTo16 converts a WAV sample at the source bit depth to signed 16-bit.
// 8-bit WAV samples are unsigned.
func scaleTo16(v, depth int) int16 {
	switch {
	case depth == 8:
		return int16((v - 128) << 8)
	case depth == 16:
		return int16(v)
	case depth > 16:
		return int16(v >> (depth - 16))
	default:
		return int16(v << (16 - depth))
	}
}

// WAVDuration reads only the header chain to report the clip length in
// seconds.
func WAVDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	dur, err := d.Duration()
	if err != nil {
		return 0, fmt.Errorf("probe wav duration: %w", err)
	}
	return dur.Seconds(), nil
}

// WriteWAV encodes the clip as a 16-bit RIFF/WAVE file.
func WriteWAV(path string, clip *Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	enc := wav.NewEncoder(f, clip.SampleRate, 16, clip.Channels, 1)

	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		data[i] = int(s)
	}
	buf := &gaudio.IntBuffer{
		Data:           data,
		Format:         &gaudio.Format{NumChannels: clip.Channels, SampleRate: clip.SampleRate},
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}

// WriteSilence writes a silent RIFF/WAVE artifact, used for the pauses
// slotted between speaker turns.
func WriteSilence(path string, seconds float64, sampleRate, channels int) error {
	return WriteWAV(path, Silence(seconds, sampleRate, channels))
}
