package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

const (
	ffmpegFullTimeout  = 120 * time.Second
	ffmpegBasicTimeout = 60 * time.Second
	lameTimeout        = 60 * time.Second
)

// Transcoder normalizes whatever container a synthesis engine produced into
// the target MP3 encoding. Strategies that cannot deliver are skipped; the
// terminal raw copy keeps the pipeline moving on machines without any
// encoder installed.
type Transcoder struct {
	cfg    config.AudioConfig
	logger *logging.Logger
}

// NewTranscoder creates a transcoder for the configured target encoding.
func NewTranscoder(cfg config.AudioConfig, logger *logging.Logger) *Transcoder {
	return &Transcoder{cfg: cfg, logger: logger}
}

// ToMP3 converts src into an MP3 file at dst. Exhausting every encoder is
// answered with a warning and a raw byte copy, never an error; only a
// missing input or a failed copy is fatal.
func (t *Transcoder) ToMP3(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(errors.KindTranscode, "audio.transcode", "input file missing", err)
	}
	if src == dst && strings.HasSuffix(src, ".mp3") {
		return nil
	}

	srcFormat, err := DetectFormat(src)
	if err != nil {
		return errors.Wrap(errors.KindTranscode, "audio.transcode", "failed to sniff input", err)
	}
	srcSize := info.Size()

	strategies := []Strategy{
		{Name: "ffmpeg", Run: func(ctx context.Context) error {
			return t.ffmpegFull(ctx, src, dst, srcFormat, srcSize)
		}},
		{Name: "ffmpeg-basic", Run: func(ctx context.Context) error {
			return t.ffmpegBasic(ctx, src, dst, srcFormat, srcSize)
		}},
		{Name: "builtin-wav", Run: func(ctx context.Context) error {
			return t.builtinWAV(ctx, src, dst, srcFormat)
		}},
		{Name: "lame", Run: func(ctx context.Context) error {
			return t.lame(ctx, src, dst, srcFormat, srcSize)
		}},
	}

	goal := "transcode " + filepath.Base(src)
	if err := runFirstSuccess(ctx, t.logger, "AUDIO", goal, strategies); err != nil {
		t.logger.WarnTag("AUDIO", "transcode cascade exhausted for %s, copying raw bytes: %v", src, err)
		if copyErr := copyFile(src, dst); copyErr != nil {
			return errors.Wrap(errors.KindTranscode, "audio.transcode", "raw copy fallback failed", copyErr)
		}
	}
	return nil
}

func (t *Transcoder) ffmpegFull(ctx context.Context, src, dst string, srcFormat Format, srcSize int64) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return errors.New(errors.KindUnavailable, "audio.transcode", "ffmpeg not installed")
	}

	ctx, cancel := context.WithTimeout(ctx, ffmpegFullTimeout)
	defer cancel()

	args := []string{
		"-i", src,
		"-codec:a", "libmp3lame",
		"-b:a", t.cfg.Bitrate,
		"-ar", strconv.Itoa(t.cfg.SampleRate),
		"-ac", strconv.Itoa(t.cfg.Channels),
		"-f", "mp3",
		"-write_xing", "0",
		"-id3v2_version", "3",
		"-map_metadata", "-1",
		"-avoid_negative_ts", "make_zero",
		"-fflags", "+genpts",
		"-max_muxing_queue_size", "1024",
		"-y",
		dst,
	}
	if out, err := exec.CommandContext(ctx, "ffmpeg", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w (%s)", err, tailLine(out))
	}
	return t.checkEncoded(dst, srcFormat, srcSize)
}

func (t *Transcoder) ffmpegBasic(ctx context.Context, src, dst string, srcFormat Format, srcSize int64) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return errors.New(errors.KindUnavailable, "audio.transcode", "ffmpeg not installed")
	}

	ctx, cancel := context.WithTimeout(ctx, ffmpegBasicTimeout)
	defer cancel()

	args := []string{"-i", src, "-codec:a", "libmp3lame", "-b:a", "128k", "-y", dst}
	if out, err := exec.CommandContext(ctx, "ffmpeg", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w (%s)", err, tailLine(out))
	}
	return t.checkEncoded(dst, srcFormat, srcSize)
}

// builtinWAV re-encodes legacy AIFF output as RIFF/WAVE without external
// tools. The artifact keeps the requested destination name even though the
// container differs; downstream readers sniff by magic bytes.
func (t *Transcoder) builtinWAV(ctx context.Context, src, dst string, srcFormat Format) error {
	if srcFormat != FormatAIFF {
		return fmt.Errorf("builtin decode handles aiff input only, got %s", srcFormat)
	}

	clip, err := ReadAIFF(src)
	if err != nil {
		return err
	}
	if err := WriteWAV(dst, clip); err != nil {
		return err
	}

	srcDur, err := AIFFDuration(src)
	if err != nil {
		return err
	}
	dstDur, err := WAVDuration(dst)
	if err != nil {
		return err
	}
	if srcDur > 0 && dstDur < srcDur*t.cfg.Heuristics.TranscodeMinDurationRatio {
		return fmt.Errorf("duration dropped from %.2fs to %.2fs", srcDur, dstDur)
	}
	return nil
}

func (t *Transcoder) lame(ctx context.Context, src, dst string, srcFormat Format, srcSize int64) error {
	if srcFormat == FormatMP3 {
		return fmt.Errorf("lame step handles uncompressed input only")
	}
	if _, err := exec.LookPath("lame"); err != nil {
		return errors.New(errors.KindUnavailable, "audio.transcode", "lame not installed")
	}

	ctx, cancel := context.WithTimeout(ctx, lameTimeout)
	defer cancel()

	if out, err := exec.CommandContext(ctx, "lame", "-b", "128", src, dst).CombinedOutput(); err != nil {
		return fmt.Errorf("lame: %w (%s)", err, tailLine(out))
	}
	return t.checkEncoded(dst, srcFormat, srcSize)
}

// checkEncoded rejects outputs that are missing, empty, or implausibly
// small. The size floor applies only to compressed inputs: honest MP3
// output of an uncompressed source routinely lands below it.
func (t *Transcoder) checkEncoded(dst string, srcFormat Format, srcSize int64) error {
	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("no output produced: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("empty output produced")
	}
	if srcFormat == FormatMP3 {
		floor := int64(float64(srcSize) * t.cfg.Heuristics.TranscodeMinSizeRatio)
		if info.Size() < floor {
			return fmt.Errorf("output %d bytes below %d byte floor", info.Size(), floor)
		}
	}
	return nil
}

// tailLine trims command output to its last line for error reporting.
func tailLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
