package tts

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

const (
	sayTimeout = 300 * time.Second

	// say's default speaking rate is around 200 words per minute; useful
	// values sit between 90 and 360.
	sayBaseWPM = 200
	sayMinWPM  = 90
	sayMaxWPM  = 360
)

func init() {
	Register(EngineSay, func(cfg *config.Config, logger *logging.Logger) (Provider, error) {
		return &sayProvider{goos: runtime.GOOS, logger: logger}, nil
	})
}

// sayProvider drives the macOS system synthesizer. It always emits AIFF,
// even when the caller's path asks for .mp3; the dispatcher re-containers
// the output afterwards.
type sayProvider struct {
	goos   string
	logger *logging.Logger
}

func (p *sayProvider) Name() string { return EngineSay }

func (p *sayProvider) Available() error {
	if p.goos != "darwin" {
		return errors.New(errors.KindUnavailable, "tts.say",
			"'say' requires macOS")
	}
	if _, err := exec.LookPath("say"); err != nil {
		return errors.Wrap(errors.KindUnavailable, "tts.say",
			"'say' command not found", err)
	}
	return nil
}

func (p *sayProvider) Synthesize(ctx context.Context, req SynthesisRequest) (string, error) {
	const op = "tts.say"
	if err := p.Available(); err != nil {
		return "", err
	}

	voiceID := req.Profile.Voice
	if voiceID == "" {
		voiceID = "Alex"
	}
	out := nativePath(req.OutputPath, ".aiff")
	rate := sayRate(req.EffectiveSpeed())

	p.logger.DebugTag("TTS", "say: voice=%s rate=%dwpm", voiceID, rate)

	args := sayArgs(voiceID, rate, out, req.Text)
	if err := runEngine(ctx, sayTimeout, op, "", "say", args...); err != nil {
		return "", err
	}
	if err := checkArtifact(op, out); err != nil {
		return "", err
	}
	return out, nil
}

func sayRate(speed float64) int {
	return clampInt(int(sayBaseWPM*speed), sayMinWPM, sayMaxWPM)
}

func sayArgs(voiceID string, rate int, out, text string) []string {
	return []string{
		"-v", voiceID,
		"-r", strconv.Itoa(rate),
		"-o", out,
		text,
	}
}
