package tts

import (
	"context"
	"os/exec"
	"strconv"
	"time"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

const (
	espeakTimeout = 120 * time.Second

	// espeak speaks about 175 words per minute at its default setting and
	// accepts 80 through 450.
	espeakBaseWPM = 175
	espeakMinWPM  = 80
	espeakMaxWPM  = 450

	// Pitch runs 0 through 99 with 50 as the neutral midpoint.
	espeakBasePitch = 50
)

func init() {
	Register(EngineEspeak, func(cfg *config.Config, logger *logging.Logger) (Provider, error) {
		return &espeakProvider{logger: logger}, nil
	})
}

// espeakProvider drives eSpeak, the lightweight formant synthesizer. Either
// the classic espeak binary or the espeak-ng successor satisfies it.
type espeakProvider struct {
	logger *logging.Logger
}

func (p *espeakProvider) Name() string { return EngineEspeak }

func (p *espeakProvider) Available() error {
	if _, err := espeakBinary(); err != nil {
		return err
	}
	return nil
}

func (p *espeakProvider) Synthesize(ctx context.Context, req SynthesisRequest) (string, error) {
	const op = "tts.espeak"
	bin, err := espeakBinary()
	if err != nil {
		return "", err
	}

	voiceID := req.Profile.Voice
	if voiceID == "" {
		voiceID = "en"
	}
	out := nativePath(req.OutputPath, ".wav")
	wpm := espeakRate(req.EffectiveSpeed())
	pitch := espeakPitch(req.Profile.Pitch)

	p.logger.DebugTag("TTS", "espeak: voice=%s speed=%dwpm pitch=%d", voiceID, wpm, pitch)

	args := espeakArgs(voiceID, wpm, pitch, out, req.Text)
	if err := runEngine(ctx, espeakTimeout, op, "", bin, args...); err != nil {
		return "", err
	}
	if err := checkArtifact(op, out); err != nil {
		return "", err
	}
	return out, nil
}

func espeakBinary() (string, error) {
	if path, err := exec.LookPath("espeak"); err == nil {
		return path, nil
	}
	if path, err := exec.LookPath("espeak-ng"); err == nil {
		return path, nil
	}
	return "", errors.New(errors.KindUnavailable, "tts.espeak",
		"eSpeak not found, install with: sudo apt-get install espeak (Linux) or brew install espeak (macOS)")
}

// espeakRate converts a speed multiplier into words per minute.
func espeakRate(speed float64) int {
	return clampInt(int(espeakBaseWPM*speed), espeakMinWPM, espeakMaxWPM)
}

// espeakPitch converts a pitch multiplier around 1.0 into espeak's 0-99
// scale around 50.
func espeakPitch(pitch float64) int {
	if pitch <= 0 {
		pitch = 1.0
	}
	return clampInt(int(espeakBasePitch*pitch), 0, 99)
}

func espeakArgs(voiceID string, wpm, pitch int, out, text string) []string {
	return []string{
		"-v", voiceID,
		"-s", strconv.Itoa(wpm),
		"-p", strconv.Itoa(pitch),
		"-w", out,
		text,
	}
}
