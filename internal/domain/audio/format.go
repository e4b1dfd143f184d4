package audio

import (
	"fmt"
	"io"
	"os"
)

// Format identifies an audio container by its header bytes.
type Format string

const (
	FormatWAV     Format = "wav"
	FormatAIFF    Format = "aiff"
	FormatMP3     Format = "mp3"
	FormatUnknown Format = "unknown"
)

// DetectFormat sniffs the container format from the first bytes of a file.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("read header of %s: %w", path, err)
	}
	return DetectBytes(header[:n]), nil
}

// DetectBytes identifies the container from a header prefix. Engines name
// their output after the requested extension regardless of what they
// actually wrote, so every reader trusts these bytes over the filename.
func DetectBytes(b []byte) Format {
	switch {
	case len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WAVE":
		return FormatWAV
	case len(b) >= 12 && string(b[0:4]) == "FORM" && (string(b[8:12]) == "AIFF" || string(b[8:12]) == "AIFC"):
		return FormatAIFF
	case len(b) >= 3 && string(b[0:3]) == "ID3":
		return FormatMP3
	case len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0:
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// ReadClip sniffs the container and decodes with the matching reader.
func ReadClip(path string) (*Clip, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatWAV:
		return ReadWAV(path)
	case FormatAIFF:
		return ReadAIFF(path)
	case FormatMP3:
		return ReadMP3(path)
	default:
		return nil, fmt.Errorf("unrecognized audio container: %s", path)
	}
}

// ClipDuration probes the playback length in seconds, without decoding
// sample data where the container allows it.
func ClipDuration(path string) (float64, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, err
	}

	switch format {
	case FormatWAV:
		return WAVDuration(path)
	case FormatAIFF:
		return AIFFDuration(path)
	case FormatMP3:
		return MP3Duration(path)
	default:
		return 0, fmt.Errorf("unrecognized audio container: %s", path)
	}
}
