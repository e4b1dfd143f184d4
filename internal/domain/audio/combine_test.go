package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"convocast-go/internal/platform/errors"
	helpers "convocast-go/internal/platform/testing"
)

func newTestCombiner(t *testing.T) *Combiner {
	t.Helper()
	cfg := helpers.SetupTestConfig(t)
	return NewCombiner(cfg.Audio, helpers.SetupTestLogger(t))
}

func TestCombiner_InProcess(t *testing.T) {
	c := newTestCombiner(t)
	dir := t.TempDir()

	first := filepath.Join(dir, "a.wav")
	if err := WriteWAV(first, Silence(0.5, 44100, 2)); err != nil {
		t.Fatal(err)
	}
	second := filepath.Join(dir, "b.wav")
	if err := WriteWAV(second, Silence(1.0, 22050, 1)); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "combined.wav")
	if err := c.concatInProcess([]string{first, second}, out); err != nil {
		t.Fatalf("concatInProcess() error = %v", err)
	}

	clip, err := ReadWAV(out)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if clip.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", clip.SampleRate)
	}
	if clip.Channels != 2 {
		t.Errorf("Channels = %d, want 2", clip.Channels)
	}
	if d := clip.Duration(); d < 1.45 || d > 1.55 {
		t.Errorf("Duration() = %f, want 1.5", d)
	}
}

func TestCombiner_InProcess_MixedContainers(t *testing.T) {
	c := newTestCombiner(t)
	dir := t.TempDir()

	wavSeg := filepath.Join(dir, "a.wav")
	if err := WriteWAV(wavSeg, Silence(0.5, 44100, 2)); err != nil {
		t.Fatal(err)
	}
	aiffSeg := filepath.Join(dir, "b.aiff")
	samples := make([]int16, 22050) // one second of mono audio
	if err := os.WriteFile(aiffSeg, buildAIFF(t, samples, 1, 22050, "sowt"), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "combined.wav")
	if err := c.concatInProcess([]string{wavSeg, aiffSeg}, out); err != nil {
		t.Fatalf("concatInProcess() error = %v", err)
	}

	d, err := WAVDuration(out)
	if err != nil {
		t.Fatalf("WAVDuration() error = %v", err)
	}
	if d < 1.45 || d > 1.55 {
		t.Errorf("combined duration = %f, want 1.5", d)
	}
}

func TestCombiner_FilterValid(t *testing.T) {
	c := newTestCombiner(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.wav")
	if err := WriteSilence(good, 0.1, 44100, 2); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.wav")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}

	valid := c.filterValid([]string{good, empty, filepath.Join(dir, "missing.wav")})
	if len(valid) != 1 || valid[0] != good {
		t.Errorf("filterValid() = %v, want only %s", valid, good)
	}
}

func TestCombiner_NoValidInputs(t *testing.T) {
	c := newTestCombiner(t)
	dir := t.TempDir()

	err := c.Combine(context.Background(), []string{filepath.Join(dir, "missing.mp3")}, filepath.Join(dir, "out.mp3"))
	if err == nil {
		t.Fatal("Combine() should fail with no valid inputs")
	}
	if !errors.IsKind(err, errors.KindCombine) {
		t.Errorf("error kind mismatch: %v", err)
	}
}

func TestCombiner_Combine(t *testing.T) {
	c := newTestCombiner(t)
	dir := t.TempDir()

	inputs := make([]string, 3)
	for i := range inputs {
		inputs[i] = filepath.Join(dir, "seg"+string(rune('a'+i))+".wav")
		if err := WriteSilence(inputs[i], 0.25, 44100, 2); err != nil {
			t.Fatal(err)
		}
	}

	out := filepath.Join(dir, "episode.mp3")
	if err := c.Combine(context.Background(), inputs, out); err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("combined output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("combined output is empty")
	}
}

func TestWriteConcatManifest(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "b.mp3")

	manifest, err := writeConcatManifest([]string{a, b})
	if err != nil {
		t.Fatalf("writeConcatManifest() error = %v", err)
	}
	defer os.Remove(manifest)

	content, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	want := "file '" + a + "'\nfile '" + b + "'\n"
	if string(content) != want {
		t.Errorf("manifest = %q, want %q", content, want)
	}
}
