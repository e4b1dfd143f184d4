package tts

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

const fliteTimeout = 120 * time.Second

func init() {
	Register(EngineFlite, func(cfg *config.Config, logger *logging.Logger) (Provider, error) {
		return &fliteProvider{logger: logger}, nil
	})
}

// fliteProvider drives the festival-lite engine. Fully offline, ships small
// diphone voices (kal16, awb, rms, slt) and degrades gracefully on machines
// without any other synthesizer.
type fliteProvider struct {
	logger *logging.Logger
}

func (p *fliteProvider) Name() string { return EngineFlite }

func (p *fliteProvider) Available() error {
	if _, err := exec.LookPath("flite"); err != nil {
		return errors.Wrap(errors.KindUnavailable, "tts.flite",
			"flite not found, install with: sudo apt-get install flite (Linux) or brew install flite (macOS)", err)
	}
	return nil
}

func (p *fliteProvider) Synthesize(ctx context.Context, req SynthesisRequest) (string, error) {
	const op = "tts.flite"
	if err := p.Available(); err != nil {
		return "", err
	}

	voiceID := req.Profile.Voice
	if voiceID == "" {
		voiceID = "kal16"
	}
	out := nativePath(req.OutputPath, ".wav")

	// flite has no direct rate flag; duration_stretch above 1.0 slows the
	// voice down, below speeds it up.
	stretch := 1.0 / req.EffectiveSpeed()

	p.logger.DebugTag("TTS", "flite: voice=%s stretch=%.2f", voiceID, stretch)

	args := fliteArgs(voiceID, stretch, req.Text, out)
	if err := runEngine(ctx, fliteTimeout, op, "", "flite", args...); err != nil {
		return "", err
	}
	if err := checkArtifact(op, out); err != nil {
		return "", err
	}
	return out, nil
}

func fliteArgs(voiceID string, stretch float64, text, out string) []string {
	return []string{
		"-voice", voiceID,
		"--setf", fmt.Sprintf("duration_stretch=%.3f", stretch),
		"-t", text,
		"-o", out,
	}
}
