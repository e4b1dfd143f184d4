package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

const ffmpegConcatTimeout = 120 * time.Second

// Combiner joins per-segment artifacts into one episode file.
type Combiner struct {
	cfg    config.AudioConfig
	logger *logging.Logger
}

// NewCombiner creates a combiner for the configured target encoding.
func NewCombiner(cfg config.AudioConfig, logger *logging.Logger) *Combiner {
	return &Combiner{cfg: cfg, logger: logger}
}

// Combine concatenates the inputs into outputPath. Missing or empty inputs
// are skipped with a warning; only an empty remainder is fatal.
func (c *Combiner) Combine(ctx context.Context, inputs []string, outputPath string) error {
	valid := c.filterValid(inputs)
	if len(valid) == 0 {
		return errors.New(errors.KindCombine, "audio.combine", "no valid input segments")
	}

	strategies := []Strategy{
		{Name: "ffmpeg-concat", Run: func(ctx context.Context) error {
			return c.ffmpegConcat(ctx, valid, outputPath)
		}},
		{Name: "builtin-pcm", Run: func(ctx context.Context) error {
			return c.concatInProcess(valid, outputPath)
		}},
		{Name: "first-segment", Run: func(ctx context.Context) error {
			c.logger.WarnTag("AUDIO", "keeping only the first segment; install ffmpeg for full combination")
			return copyFile(valid[0], outputPath)
		}},
	}

	goal := fmt.Sprintf("combine %d segments", len(valid))
	if err := runFirstSuccess(ctx, c.logger, "AUDIO", goal, strategies); err != nil {
		return errors.Wrap(errors.KindCombine, "audio.combine", "all combination strategies failed", err)
	}
	return nil
}

func (c *Combiner) filterValid(inputs []string) []string {
	valid := make([]string, 0, len(inputs))
	for _, path := range inputs {
		info, err := os.Stat(path)
		if err != nil {
			c.logger.WarnTag("AUDIO", "skipping missing segment %s", path)
			continue
		}
		if info.Size() == 0 {
			c.logger.WarnTag("AUDIO", "skipping empty segment %s", path)
			continue
		}
		valid = append(valid, path)
	}
	return valid
}

func (c *Combiner) ffmpegConcat(ctx context.Context, inputs []string, outputPath string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return errors.New(errors.KindUnavailable, "audio.combine", "ffmpeg not installed")
	}

	manifest, err := writeConcatManifest(inputs)
	if err != nil {
		return err
	}
	defer os.Remove(manifest)

	ctx, cancel := context.WithTimeout(ctx, ffmpegConcatTimeout)
	defer cancel()

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-codec:a", "libmp3lame",
		"-b:a", c.cfg.Bitrate,
		"-ar", strconv.Itoa(c.cfg.SampleRate),
		"-ac", strconv.Itoa(c.cfg.Channels),
		"-map_metadata", "-1",
		"-y",
		outputPath,
	}
	if out, err := exec.CommandContext(ctx, "ffmpeg", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat: %w (%s)", err, tailLine(out))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("no combined output produced: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("combined output is empty")
	}
	return nil
}

// writeConcatManifest emits the concat demuxer file list. Paths are made
// absolute so the manifest's own location does not matter.
func writeConcatManifest(inputs []string) (string, error) {
	f, err := os.CreateTemp("", "concat-*.txt")
	if err != nil {
		return "", err
	}

	for _, path := range inputs {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", abs); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// concatInProcess decodes every segment and writes one RIFF/WAVE artifact
// at the target rate and channel count.
func (c *Combiner) concatInProcess(inputs []string, outputPath string) error {
	combined := &Clip{SampleRate: c.cfg.SampleRate, Channels: c.cfg.Channels}

	decoded := 0
	for _, path := range inputs {
		clip, err := ReadClip(path)
		if err != nil {
			c.logger.WarnTag("AUDIO", "cannot decode segment %s: %v", path, err)
			continue
		}
		if len(clip.Samples) == 0 {
			continue
		}
		combined.Append(clip)
		decoded++
	}

	if decoded == 0 || len(combined.Samples) == 0 {
		return fmt.Errorf("no segments could be decoded")
	}
	return WriteWAV(outputPath, combined)
}
