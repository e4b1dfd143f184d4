package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// mp3FrameBytes is the decoder output frame width: 16-bit little-endian
// stereo regardless of the source stream.
const mp3FrameBytes = 4

// ReadMP3 decodes an MPEG audio file into a Clip.
func ReadMP3(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mp3: %w", err)
	}
	defer f.Close()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("read mp3 samples: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("mp3 file %s holds no samples", path)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}

	return &Clip{SampleRate: d.SampleRate(), Channels: 2, Samples: samples}, nil
}

// MP3Duration reports the stream length in seconds, decoding only when the
// container does not declare its size.
func MP3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open mp3: %w", err)
	}
	defer f.Close()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}
	if d.SampleRate() == 0 {
		return 0, fmt.Errorf("mp3 file %s declares no sample rate", path)
	}

	n := d.Length()
	if n < 0 {
		copied, err := io.Copy(io.Discard, d)
		if err != nil {
			return 0, fmt.Errorf("scan mp3 stream: %w", err)
		}
		n = copied
	}
	return float64(n) / mp3FrameBytes / float64(d.SampleRate()), nil
}
