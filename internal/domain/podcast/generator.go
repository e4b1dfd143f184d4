// Package podcast assembles episode audio end to end: every script
// segment is synthesized with its speaker's voice, silent pauses are
// placed between host turns, and the pieces are combined into a single
// episode file. A batch runner adds per-episode failure isolation and the
// ledger bookkeeping around it.
package podcast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"convocast-go/internal/domain/audio"
	"convocast-go/internal/domain/content"
	"convocast-go/internal/domain/eventbus"
	"convocast-go/internal/domain/script"
	"convocast-go/internal/domain/tts"
	"convocast-go/internal/domain/voice"
	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

// Synthesizer produces one validated audio artifact per request.
type Synthesizer interface {
	Synthesize(ctx context.Context, req tts.SynthesisRequest) (*tts.SynthesisResult, error)
}

// Generator turns episodes into audio files under the output directory.
type Generator struct {
	synth     Synthesizer
	combiner  *audio.Combiner
	validator *audio.Validator
	voices    *voice.Registry
	outputDir string
	speed     float64
	audioCfg  config.AudioConfig
	logger    *logging.Logger
}

// NewGenerator wires the generator against the configured output layout.
func NewGenerator(cfg *config.Config, synth Synthesizer, logger *logging.Logger) *Generator {
	return &Generator{
		synth:     synth,
		combiner:  audio.NewCombiner(cfg.Audio, logger),
		validator: audio.NewValidator(cfg.Audio, logger),
		voices:    voice.NewRegistry(),
		outputDir: cfg.TTS.OutputDir,
		speed:     cfg.TTS.VoiceSpeed,
		audioCfg:  cfg.Audio,
		logger:    logger,
	}
}

// Result describes one generated episode artifact. On failure a partial
// result may still accompany the error so the attempt history reaches the
// ledger.
type Result struct {
	OutputPath      string
	Engine          string
	SegmentCount    int
	DurationSeconds float64
	SizeBytes       int64
	Attempts        []tts.Attempt
}

// GenerateEpisode synthesizes every segment of the episode and combines
// them into <slug>.mp3 under the output directory. Individual segment
// failures are skipped; only an episode with no usable audio at all fails.
func (g *Generator) GenerateEpisode(ctx context.Context, episode *content.Episode) (*Result, error) {
	const op = "podcast.generate"

	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "cannot create output directory", err)
	}

	full := EpisodeScript(episode)
	segments := g.planSegments(episode, full)
	if len(segments) == 0 {
		return g.narrate(ctx, episode.Title, full)
	}

	name := Slug(episode.Title)
	outputPath := filepath.Join(g.outputDir, name+".mp3")
	g.logger.InfoTag("AUDIO", "generating conversation audio with %d segments", len(segments))

	result := &Result{OutputPath: outputPath}
	tally := make(map[string]int)
	var files []string
	synthesized := 0

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(errors.KindTimeout, op, "generation canceled", err)
		}

		text := script.CleanAudioCues(seg.Text)
		if strings.TrimSpace(text) == "" {
			continue
		}

		profile := g.voices.ForSpeaker(seg.Speaker)
		segPath := filepath.Join(g.outputDir, fmt.Sprintf("%s_segment_%03d_%s.mp3", name, i, seg.Speaker))
		g.logger.DebugTag("TTS", "segment %d/%d: %s voiced by %s", i+1, len(segments), seg.Speaker, profile.Name)

		eventbus.PublishAsync(eventbus.EventTTSStarted, eventbus.SynthesisEventData{
			Episode: episode.Title, Speaker: seg.Speaker, Segment: i + 1,
		})
		res, err := g.synth.Synthesize(ctx, tts.SynthesisRequest{
			Text:            text,
			Profile:         profile,
			OutputPath:      segPath,
			SpeedMultiplier: g.speed,
		})
		if res != nil {
			result.Attempts = append(result.Attempts, res.Attempts...)
		}
		if err != nil {
			eventbus.PublishAsync(eventbus.EventTTSFailed, eventbus.SynthesisEventData{
				Episode: episode.Title, Speaker: seg.Speaker, Segment: i + 1, Error: err.Error(),
			})
			g.logger.WarnTag("AUDIO", "skipping segment %d (%s): %v", i+1, seg.Speaker, err)
			continue
		}
		eventbus.PublishAsync(eventbus.EventTTSCompleted, eventbus.SynthesisEventData{
			Episode: episode.Title, Speaker: seg.Speaker, Segment: i + 1, Engine: res.Engine, FilePath: segPath,
		})

		info, statErr := os.Stat(segPath)
		if statErr != nil || info.Size() == 0 {
			g.logger.WarnTag("AUDIO", "segment %d produced no artifact", i+1)
			continue
		}
		files = append(files, segPath)
		synthesized++

		tally[res.Engine]++
		if tally[res.Engine] > tally[result.Engine] {
			result.Engine = res.Engine
		}

		if seg.Speaker == script.SpeakerAlex || seg.Speaker == script.SpeakerSam {
			if pause := g.writePause(); pause != "" {
				files = append(files, pause)
			}
		}
	}

	if len(files) == 0 {
		return result, errors.New(errors.KindEmptyOutput, op, "no audio segments were generated successfully")
	}

	g.logger.InfoTag("AUDIO", "combining %d audio segments", len(files))
	if err := g.combiner.Combine(ctx, files, outputPath); err != nil {
		return result, err
	}
	eventbus.Publish(eventbus.EventAudioCombined, eventbus.AudioEventData{
		Episode: episode.Title, Segments: len(files), FilePath: outputPath,
	})

	if !g.audioCfg.KeepSegments {
		g.cleanupSegments(files)
	}

	validated := true
	if err := g.validator.Validate(ctx, outputPath, ""); err != nil {
		g.logger.WarnTag("AUDIO", "final episode audio failed validation: %v", err)
		validated = false
	}

	result.SegmentCount = synthesized
	g.finishResult(result)
	if validated {
		eventbus.Publish(eventbus.EventAudioValidated, eventbus.AudioEventData{
			Episode: episode.Title, Segments: synthesized, FilePath: outputPath, Duration: result.DurationSeconds,
		})
	}
	g.logger.InfoTag("AUDIO", "conversation audio generated: %s", outputPath)
	return result, nil
}

// GenerateFromScript voices one flat script as a single narrated
// artifact, no dialogue parsing involved.
func (g *Generator) GenerateFromScript(ctx context.Context, title, text string) (*Result, error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "podcast.generate", "cannot create output directory", err)
	}
	return g.narrate(ctx, title, text)
}

// GenerateFromSegments voices an ordered segment list as one conversation
// artifact. The rendered script travels with the segments so the coverage
// check stays consistent.
func (g *Generator) GenerateFromSegments(ctx context.Context, title string, segments []script.Segment) (*Result, error) {
	return g.GenerateEpisode(ctx, &content.Episode{
		Title:          title,
		Segments:       segments,
		DialogueScript: script.FormatScript(segments),
	})
}

// narrate voices the whole script with the default profile, used when an
// episode carries no conversational segments. A plain-text copy of the
// spoken script lands next to the artifact.
func (g *Generator) narrate(ctx context.Context, title, full string) (*Result, error) {
	name := Slug(title)
	outputPath := filepath.Join(g.outputDir, name+".mp3")

	if err := os.WriteFile(filepath.Join(g.outputDir, name+".txt"), []byte(full), 0644); err != nil {
		g.logger.WarnTag("AUDIO", "cannot save script copy: %v", err)
	}

	g.logger.InfoTag("AUDIO", "generating single voice narration for %q", title)
	res, err := g.synth.Synthesize(ctx, tts.SynthesisRequest{
		Text:            script.CleanAudioCues(full),
		Profile:         g.voices.Lookup(voice.DefaultKey),
		OutputPath:      outputPath,
		SpeedMultiplier: g.speed,
	})

	result := &Result{OutputPath: outputPath, SegmentCount: 1}
	if res != nil {
		result.Engine = res.Engine
		result.Attempts = res.Attempts
	}
	if err != nil {
		return result, err
	}

	g.finishResult(result)
	return result, nil
}

// planSegments decides what actually gets voiced. Episodes whose segment
// list covers only a sliver of the full script get the script reparsed, so
// a stale or minimal segment list cannot silently shrink an episode.
func (g *Generator) planSegments(episode *content.Episode, full string) []script.Segment {
	segments := episode.Segments
	if len(segments) == 0 {
		return nil
	}

	total := 0
	for _, seg := range segments {
		total += len(seg.Text)
	}
	if (total < 100 && len(full) > 200) || len(full) > 3*total {
		g.logger.InfoTag("AUDIO", "segments cover %d of %d script characters, reparsing full script", total, len(full))
		return script.ParseScript(full)
	}
	return segments
}

// writePause drops a silent spacer between host turns. Losing a pause is
// never fatal.
func (g *Generator) writePause() string {
	seconds := g.audioCfg.PauseSeconds
	if seconds <= 0 {
		return ""
	}
	path := filepath.Join(g.outputDir, fmt.Sprintf("pause_%.1fs.wav", seconds))
	if err := audio.WriteSilence(path, seconds, g.audioCfg.SampleRate, g.audioCfg.Channels); err != nil {
		g.logger.WarnTag("AUDIO", "cannot generate pause: %v", err)
		return ""
	}
	return path
}

// cleanupSegments removes the per-segment intermediates once the combined
// episode exists, sweeping native-container leftovers in the output
// directory as well.
func (g *Generator) cleanupSegments(files []string) {
	for _, file := range files {
		base := filepath.Base(file)
		if strings.Contains(base, "segment_") || strings.Contains(base, "pause_") {
			g.removeFile(file)
		}
		if wav := strings.TrimSuffix(file, ".mp3") + ".wav"; wav != file {
			if strings.Contains(filepath.Base(wav), "segment_") {
				g.removeFile(wav)
			}
		}
	}

	leftovers, _ := filepath.Glob(filepath.Join(g.outputDir, "*.wav"))
	for _, file := range leftovers {
		base := filepath.Base(file)
		if strings.Contains(base, "temp") || strings.Contains(base, "pause") {
			g.removeFile(file)
		}
	}
}

func (g *Generator) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		g.logger.WarnTag("AUDIO", "could not remove %s: %v", filepath.Base(path), err)
	}
}

// finishResult fills in the artifact size and measured duration.
func (g *Generator) finishResult(result *Result) {
	if info, err := os.Stat(result.OutputPath); err == nil {
		result.SizeBytes = info.Size()
	}
	if dur, err := audio.ClipDuration(result.OutputPath); err == nil {
		result.DurationSeconds = dur
	}
}

var (
	unsafeCharRe = regexp.MustCompile(`[^\w\s-]`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// Slug turns an episode title into its artifact file stem: strip anything
// but word characters, spaces and hyphens, collapse whitespace runs into
// single hyphens, lowercase, and cap the length.
func Slug(title string) string {
	s := unsafeCharRe.ReplaceAllString(title, "")
	s = spaceRunRe.ReplaceAllString(s, "-")
	s = strings.ToLower(s)
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
