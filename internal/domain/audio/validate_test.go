package audio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"convocast-go/internal/platform/errors"
	helpers "convocast-go/internal/platform/testing"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	cfg := helpers.SetupTestConfig(t)
	return NewValidator(cfg.Audio, helpers.SetupTestLogger(t))
}

func TestValidator_MissingFile(t *testing.T) {
	v := newTestValidator(t)

	err := v.Validate(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), "some text")
	if err == nil {
		t.Fatal("Validate() should fail for a missing file")
	}
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("error kind mismatch: %v", err)
	}
}

func TestValidator_EmptyFile(t *testing.T) {
	v := newTestValidator(t)
	path := filepath.Join(t.TempDir(), "empty.mp3")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := v.Validate(context.Background(), path, "some text")
	if err == nil {
		t.Fatal("Validate() should fail for an empty file")
	}
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("error kind mismatch: %v", err)
	}
}

func TestValidator_DurationChecks(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		words   int
		wantErr bool
	}{
		// five words expect ~2s of audio; 2s measured passes
		{"duration matches", 2.0, 5, false},
		// ten words expect ~4s; 0.4s is under the 50% floor
		{"truncated", 0.4, 10, true},
		// two words expect ~0.8s; 5s is over 3x but only warns
		{"unexpectedly long passes", 5.0, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			path := filepath.Join(t.TempDir(), "clip.wav")
			if err := WriteSilence(path, tt.seconds, 44100, 2); err != nil {
				t.Fatal(err)
			}

			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			err := v.Validate(context.Background(), path, text)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() should reject the clip")
				}
				if !errors.IsKind(err, errors.KindValidation) {
					t.Errorf("error kind mismatch: %v", err)
				}
			} else if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidator_SizeHeuristicFallback(t *testing.T) {
	// Unparseable payloads force the byte-size fallback even when ffprobe
	// is installed, since every probe rejects them.
	tests := []struct {
		name    string
		size    int
		words   int
		wantErr bool
	}{
		// 50 words expect ~50000 bytes with a 30% floor of 15000
		{"too small", 100, 50, true},
		{"large enough", 40000, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			path := filepath.Join(t.TempDir(), "opaque.mp3")
			if err := os.WriteFile(path, bytes.Repeat([]byte("G"), tt.size), 0644); err != nil {
				t.Fatal(err)
			}

			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			err := v.Validate(context.Background(), path, text)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() should reject the file")
				}
				if !errors.IsKind(err, errors.KindValidation) {
					t.Errorf("error kind mismatch: %v", err)
				}
			} else if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidator_NoExpectedText(t *testing.T) {
	v := newTestValidator(t)
	path := filepath.Join(t.TempDir(), "opaque.bin")
	if err := os.WriteFile(path, []byte("GGGGGGGGGG"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := v.Validate(context.Background(), path, ""); err != nil {
		t.Errorf("Validate() without expected text should only check size: %v", err)
	}
}
