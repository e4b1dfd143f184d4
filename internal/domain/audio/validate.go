package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

const ffprobeTimeout = 10 * time.Second

// Validator sanity-checks generated audio against the text it should carry.
type Validator struct {
	cfg    config.AudioConfig
	logger *logging.Logger
}

// NewValidator creates a validator with the configured heuristics.
func NewValidator(cfg config.AudioConfig, logger *logging.Logger) *Validator {
	return &Validator{cfg: cfg, logger: logger}
}

// Validate checks that path holds a plausible rendition of expectedText:
// the file exists, is non-empty, and its duration roughly matches the word
// count. When no duration probe works, a byte-size heuristic takes over.
// An empty expectedText checks existence and size only.
func (v *Validator) Validate(ctx context.Context, path, expectedText string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(errors.KindValidation, "audio.validate", "audio file does not exist", err)
	}
	if info.Size() == 0 {
		return errors.New(errors.KindValidation, "audio.validate", "audio file is empty")
	}

	words := len(strings.Fields(expectedText))

	duration, err := v.probeDuration(ctx, path)
	if err == nil {
		v.logger.DebugTag("AUDIO", "%s plays for %.2fs", path, duration)
		if words > 0 {
			expected := float64(words) / v.cfg.Heuristics.WordsPerSecond
			if duration < expected*v.cfg.Heuristics.MinDurationRatio {
				return errors.New(errors.KindValidation, "audio.validate",
					fmt.Sprintf("audio truncated: %.2fs measured, ~%.2fs expected", duration, expected))
			}
			if duration > expected*v.cfg.Heuristics.MaxDurationRatio {
				v.logger.WarnTag("AUDIO", "%s unexpectedly long: %.2fs measured, ~%.2fs expected", path, duration, expected)
			}
		}
		return nil
	}

	// No probe worked; fall back to the byte-size heuristic.
	if words > 0 {
		expectedSize := int64(words * v.cfg.Heuristics.BytesPerWord)
		floor := int64(float64(expectedSize) * v.cfg.Heuristics.MinSizeRatio)
		if info.Size() < floor {
			return errors.New(errors.KindValidation, "audio.validate",
				fmt.Sprintf("audio suspiciously small: %d bytes for %d words", info.Size(), words))
		}
	}
	return nil
}

// probeDuration measures playback length, preferring ffprobe and falling
// back to in-process container parsing.
func (v *Validator) probeDuration(ctx context.Context, path string) (float64, error) {
	if d, err := v.ffprobeDuration(ctx, path); err == nil {
		return d, nil
	}
	return ClipDuration(path)
}

func (v *Validator) ffprobeDuration(ctx context.Context, path string) (float64, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0, errors.New(errors.KindUnavailable, "audio.validate", "ffprobe not installed")
	}

	ctx, cancel := context.WithTimeout(ctx, ffprobeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return 0, fmt.Errorf("ffprobe reported no duration")
	}
	duration, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", text, err)
	}
	return duration, nil
}
