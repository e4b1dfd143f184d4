package audio

import (
	"path/filepath"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")

	src := &Clip{
		SampleRate: 22050,
		Channels:   2,
		Samples:    []int16{0, 100, -100, 32767, -32768, 7, 1000, -1000},
	}
	if err := WriteWAV(path, src); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if got.SampleRate != src.SampleRate {
		t.Errorf("SampleRate = %d, want %d", got.SampleRate, src.SampleRate)
	}
	if got.Channels != src.Channels {
		t.Errorf("Channels = %d, want %d", got.Channels, src.Channels)
	}
	if len(got.Samples) != len(src.Samples) {
		t.Fatalf("sample count = %d, want %d", len(got.Samples), len(src.Samples))
	}
	for i := range src.Samples {
		if got.Samples[i] != src.Samples[i] {
			t.Errorf("sample %d = %d, want %d", i, got.Samples[i], src.Samples[i])
		}
	}
}

func TestWAVDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pause.wav")
	if err := WriteSilence(path, 2.0, 44100, 2); err != nil {
		t.Fatalf("WriteSilence() error = %v", err)
	}

	d, err := WAVDuration(path)
	if err != nil {
		t.Fatalf("WAVDuration() error = %v", err)
	}
	if d < 1.99 || d > 2.01 {
		t.Errorf("WAVDuration() = %f, want 2.0", d)
	}
}

func TestScaleTo16(t *testing.T) {
	tests := []struct {
		name  string
		v     int
		depth int
		want  int16
	}{
		{"16 bit passthrough", 12345, 16, 12345},
		{"16 bit negative", -12345, 16, -12345},
		{"8 bit midpoint is silence", 128, 8, 0},
		{"8 bit max", 255, 8, 127 << 8},
		{"8 bit min", 0, 8, -128 << 8},
		{"24 bit scales down", 1 << 20, 24, 1 << 12},
		{"32 bit scales down", 1 << 30, 32, 1 << 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleTo16(tt.v, tt.depth); got != tt.want {
				t.Errorf("scaleTo16(%d, %d) = %d, want %d", tt.v, tt.depth, got, tt.want)
			}
		})
	}
}
