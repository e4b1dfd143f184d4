package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

const piperTimeout = 180 * time.Second

func init() {
	Register(EnginePiper, func(cfg *config.Config, logger *logging.Logger) (Provider, error) {
		return &piperProvider{
			modelsDir: cfg.TTS.PiperModelsDir,
			logger:    logger,
		}, nil
	})
}

// piperProvider drives the Piper neural synthesizer. Voice models are onnx
// files resolved under a configured directory and must be downloaded once by
// hand; a missing model makes the engine unavailable for that profile rather
// than failing the whole request.
type piperProvider struct {
	modelsDir string
	logger    *logging.Logger
}

func (p *piperProvider) Name() string { return EnginePiper }

func (p *piperProvider) Available() error {
	if _, err := exec.LookPath("piper"); err != nil {
		return errors.Wrap(errors.KindUnavailable, "tts.piper",
			"piper not found, install with: pip install piper-tts", err)
	}
	return nil
}

func (p *piperProvider) Synthesize(ctx context.Context, req SynthesisRequest) (string, error) {
	const op = "tts.piper"
	if err := p.Available(); err != nil {
		return "", err
	}

	voiceModel := req.Profile.Voice
	if voiceModel == "" {
		voiceModel = "en_US-amy-medium"
	}
	modelFile := filepath.Join(p.modelsDir, voiceModel+".onnx")
	configFile := filepath.Join(p.modelsDir, voiceModel+".onnx.json")
	if !fileExists(modelFile) || !fileExists(configFile) {
		return "", errors.New(errors.KindUnavailable, op,
			fmt.Sprintf("piper model %s not found under %s, download from https://github.com/rhasspy/piper/releases",
				voiceModel, p.modelsDir))
	}

	out := nativePath(req.OutputPath, ".wav")

	// Piper scales duration, not rate: length_scale above 1.0 slows the
	// voice down.
	lengthScale := 1.0 / req.EffectiveSpeed()

	p.logger.DebugTag("TTS", "piper: model=%s length_scale=%.2f", voiceModel, lengthScale)

	args := piperArgs(modelFile, configFile, out, lengthScale)
	if err := runEngine(ctx, piperTimeout, op, req.Text, "piper", args...); err != nil {
		return "", err
	}
	if err := checkArtifact(op, out); err != nil {
		return "", err
	}
	return out, nil
}

func piperArgs(modelFile, configFile, out string, lengthScale float64) []string {
	return []string{
		"--model", modelFile,
		"--config", configFile,
		"--output_file", out,
		"--length_scale", fmt.Sprintf("%.3f", lengthScale),
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
