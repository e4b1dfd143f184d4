package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"convocast-go/internal/platform/errors"
	helpers "convocast-go/internal/platform/testing"
)

func newTestTranscoder(t *testing.T) *Transcoder {
	t.Helper()
	cfg := helpers.SetupTestConfig(t)
	return NewTranscoder(cfg.Audio, helpers.SetupTestLogger(t))
}

func TestTranscoder_BuiltinWAVStep(t *testing.T) {
	tc := newTestTranscoder(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "voice.aiff")
	samples := make([]int16, 22050) // one second of mono audio
	if err := os.WriteFile(src, buildAIFF(t, samples, 1, 22050, "sowt"), 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "voice.mp3")
	if err := tc.builtinWAV(context.Background(), src, dst, FormatAIFF); err != nil {
		t.Fatalf("builtinWAV() error = %v", err)
	}

	format, err := DetectFormat(dst)
	if err != nil {
		t.Fatalf("DetectFormat() error = %v", err)
	}
	if format != FormatWAV {
		t.Errorf("output format = %v, want %v", format, FormatWAV)
	}

	d, err := WAVDuration(dst)
	if err != nil {
		t.Fatalf("WAVDuration() error = %v", err)
	}
	if d < 0.8 {
		t.Errorf("output plays for %.2fs, want at least 0.8s", d)
	}
}

func TestTranscoder_BuiltinRejectsNonAIFF(t *testing.T) {
	tc := newTestTranscoder(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "voice.wav")
	if err := WriteSilence(src, 0.2, 22050, 1); err != nil {
		t.Fatal(err)
	}

	err := tc.builtinWAV(context.Background(), src, filepath.Join(dir, "out.mp3"), FormatWAV)
	if err == nil {
		t.Error("builtinWAV() should reject non-aiff input")
	}
}

func TestTranscoder_ToMP3_MissingInput(t *testing.T) {
	tc := newTestTranscoder(t)
	dir := t.TempDir()

	err := tc.ToMP3(context.Background(), filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.mp3"))
	if err == nil {
		t.Fatal("ToMP3() should fail for a missing input")
	}
	if !errors.IsKind(err, errors.KindTranscode) {
		t.Errorf("error kind mismatch: %v", err)
	}
}

func TestTranscoder_ToMP3_AlwaysProducesOutput(t *testing.T) {
	tc := newTestTranscoder(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "segment.wav")
	if err := WriteSilence(src, 0.5, 44100, 2); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "segment.mp3")
	if err := tc.ToMP3(context.Background(), src, dst); err != nil {
		t.Fatalf("ToMP3() error = %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output is empty")
	}
}

func TestTranscoder_ToMP3_SamePathNoop(t *testing.T) {
	tc := newTestTranscoder(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(path, []byte("ID3\x04\x00\x00\x00\x00\x00\x00payload"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := tc.ToMP3(context.Background(), path, path); err != nil {
		t.Fatalf("ToMP3() error = %v", err)
	}
}

func TestTranscoder_CheckEncoded_SizeFloor(t *testing.T) {
	tc := newTestTranscoder(t)
	dir := t.TempDir()

	dst := filepath.Join(dir, "out.mp3")
	if err := os.WriteFile(dst, make([]byte, 50), 0644); err != nil {
		t.Fatal(err)
	}

	if err := tc.checkEncoded(dst, FormatMP3, 10000); err == nil {
		t.Error("tiny compressed-to-compressed output should be rejected")
	}
	if err := tc.checkEncoded(dst, FormatWAV, 10000); err != nil {
		t.Errorf("uncompressed source should skip the size floor: %v", err)
	}
	if err := tc.checkEncoded(filepath.Join(dir, "missing.mp3"), FormatWAV, 10000); err == nil {
		t.Error("missing output should be rejected")
	}
}
