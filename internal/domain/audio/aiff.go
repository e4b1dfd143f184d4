package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const maxAIFFChunk = 1 << 30

// aiffStream holds the parsed COMM and SSND chunks of an AIFF or AIFC file.
type aiffStream struct {
	channels    int
	frames      int
	bits        int
	sampleRate  float64
	compression string
	data        []byte
}

// ReadAIFF decodes an AIFF or AIFC file into a Clip. Both big-endian
// ("NONE", "twos") and little-endian ("sowt") sample packing are handled;
// macOS say emits the latter.
func ReadAIFF(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open aiff: %w", err)
	}
	defer f.Close()

	st, err := parseAIFF(f)
	if err != nil {
		return nil, err
	}
	if len(st.data) == 0 {
		return nil, fmt.Errorf("aiff file %s holds no samples", path)
	}

	samples, err := st.decodeSamples()
	if err != nil {
		return nil, err
	}

	return &Clip{
		SampleRate: int(st.sampleRate),
		Channels:   st.channels,
		Samples:    samples,
	}, nil
}

// AIFFDuration reports the clip length in seconds from the COMM chunk alone.
func AIFFDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open aiff: %w", err)
	}
	defer f.Close()

	st, err := parseAIFF(f)
	if err != nil {
		return 0, err
	}
	if st.sampleRate == 0 {
		return 0, fmt.Errorf("aiff file %s declares no sample rate", path)
	}
	return float64(st.frames) / st.sampleRate, nil
}

func parseAIFF(r io.Reader) (*aiffStream, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read aiff header: %w", err)
	}
	if string(header[0:4]) != "FORM" {
		return nil, fmt.Errorf("not an aiff file: missing FORM chunk")
	}
	formType := string(header[8:12])
	if formType != "AIFF" && formType != "AIFC" {
		return nil, fmt.Errorf("not an aiff file: form type %q", formType)
	}

	st := &aiffStream{compression: "NONE"}
	sawCOMM := false

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(r, chunkHeader); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("read aiff chunk header: %w", err)
		}

		id := string(chunkHeader[0:4])
		size := int64(binary.BigEndian.Uint32(chunkHeader[4:8]))
		if size > maxAIFFChunk {
			return nil, fmt.Errorf("aiff chunk %s size %d out of range", id, size)
		}

		switch id {
		case "COMM":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("read COMM chunk: %w", err)
			}
			if len(body) < 18 {
				return nil, fmt.Errorf("COMM chunk too short: %d bytes", len(body))
			}
			st.channels = int(int16(binary.BigEndian.Uint16(body[0:2])))
			st.frames = int(binary.BigEndian.Uint32(body[2:6]))
			st.bits = int(int16(binary.BigEndian.Uint16(body[6:8])))
			st.sampleRate = extendedToFloat(body[8:18])
			if formType == "AIFC" && len(body) >= 22 {
				st.compression = string(body[18:22])
			}
			sawCOMM = true
		case "SSND":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("read SSND chunk: %w", err)
			}
			if len(body) < 8 {
				return nil, fmt.Errorf("SSND chunk too short: %d bytes", len(body))
			}
			offset := binary.BigEndian.Uint32(body[0:4])
			if int(offset)+8 > len(body) {
				return nil, fmt.Errorf("SSND offset %d beyond chunk", offset)
			}
			st.data = body[8+offset:]
		default:
			if err := skipBytes(r, size); err != nil {
				return nil, fmt.Errorf("skip %s chunk: %w", id, err)
			}
		}

		// Chunk bodies are padded to even sizes.
		if size%2 == 1 {
			if err := skipBytes(r, 1); err != nil {
				return nil, err
			}
		}
	}

	if !sawCOMM {
		return nil, fmt.Errorf("aiff file has no COMM chunk")
	}
	return st, nil
}

func skipBytes(r io.Reader, n int64) error {
	_, err := io.CopyN(io.Discard, r, n)
	if err == io.EOF {
		return nil
	}
	return err
}

func (st *aiffStream) decodeSamples() ([]int16, error) {
	switch st.compression {
	case "NONE", "twos", "sowt":
	default:
		return nil, fmt.Errorf("unsupported aiff compression %q", st.compression)
	}
	littleEndian := st.compression == "sowt"

	switch st.bits {
	case 8:
		samples := make([]int16, len(st.data))
		for i := range st.data {
			samples[i] = int16(int8(st.data[i])) << 8
		}
		return samples, nil
	case 16:
		count := len(st.data) / 2
		samples := make([]int16, count)
		for i := 0; i < count; i++ {
			var v uint16
			if littleEndian {
				v = binary.LittleEndian.Uint16(st.data[2*i:])
			} else {
				v = binary.BigEndian.Uint16(st.data[2*i:])
			}
			samples[i] = int16(v)
		}
		return samples, nil
	case 24:
		count := len(st.data) / 3
		samples := make([]int16, count)
		for i := 0; i < count; i++ {
			b := st.data[3*i : 3*i+3]
			var v int32
			if littleEndian {
				v = int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
			} else {
				v = int32(int8(b[0]))<<16 | int32(b[1])<<8 | int32(b[2])
			}
			samples[i] = int16(v >> 8)
		}
		return samples, nil
	case 32:
		count := len(st.data) / 4
		samples := make([]int16, count)
		for i := 0; i < count; i++ {
			var v uint32
			if littleEndian {
				v = binary.LittleEndian.Uint32(st.data[4*i:])
			} else {
				v = binary.BigEndian.Uint32(st.data[4*i:])
			}
			samples[i] = int16(int32(v) >> 16)
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("unsupported aiff sample size %d bits", st.bits)
	}
}

// extendedToFloat converts the 80-bit extended float that the COMM chunk
// uses for its sample rate field.
func extendedToFloat(b []byte) float64 {
	exponent := int(uint16(b[0]&0x7F)<<8 | uint16(b[1]))
	mantissa := binary.BigEndian.Uint64(b[2:10])
	if exponent == 0 && mantissa == 0 {
		return 0
	}

	value := float64(mantissa) * math.Pow(2, float64(exponent-16383-63))
	if b[0]&0x80 != 0 {
		return -value
	}
	return value
}
