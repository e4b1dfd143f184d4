// Package tts turns cleaned dialogue text into audio files. Each supported
// engine is a Provider registered under its wire name; the Dispatcher walks
// the platform fallback order until one engine yields audio that survives
// validation.
package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"convocast-go/internal/domain/voice"
	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

// Engine wire names. These appear in config files, voice profiles and logs.
const (
	EngineFlite  = "flite"
	EngineEspeak = "espeak"
	EnginePiper  = "piper"
	EngineSay    = "say"
	EngineEdge   = "edge"
)

// SynthesisRequest is the sole unit of work handed to a provider. It is
// self-contained: the profile travels with the request instead of living in
// provider state, so concurrent requests with different voices cannot step
// on each other.
type SynthesisRequest struct {
	// Text is already cleaned of audio cues and markup.
	Text string
	// Profile selects engine, voice identifier and base pacing.
	Profile voice.Profile
	// OutputPath is where the caller wants the final artifact. Providers
	// may write a sibling file in their native container instead; the
	// dispatcher normalizes afterwards.
	OutputPath string
	// SpeedMultiplier scales the profile's base speed. Zero means 1.0.
	SpeedMultiplier float64
}

// EffectiveSpeed combines the profile base speed with the request
// multiplier. Unset values count as 1.0.
func (r SynthesisRequest) EffectiveSpeed() float64 {
	speed := r.Profile.Speed
	if speed <= 0 {
		speed = 1.0
	}
	mult := r.SpeedMultiplier
	if mult <= 0 {
		mult = 1.0
	}
	return speed * mult
}

// Provider is one synthesis engine.
type Provider interface {
	// Name returns the engine wire name.
	Name() string
	// Available reports whether the engine can run on this host. A nil
	// return does not guarantee synthesis will succeed, only that the
	// binary or library is present.
	Available() error
	// Synthesize writes exactly one artifact in the engine's native
	// container and returns the path actually written. That path may
	// differ from req.OutputPath when the engine cannot emit the
	// requested container directly.
	Synthesize(ctx context.Context, req SynthesisRequest) (string, error)
}

// Factory builds a provider from the shared configuration.
type Factory func(cfg *config.Config, logger *logging.Logger) (Provider, error)

var factories = make(map[string]Factory)

// Register adds a provider factory under an engine name. Called from init
// in each adapter file.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create instantiates a registered provider.
func Create(name string, cfg *config.Config, logger *logging.Logger) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, errors.New(errors.KindConfig, "tts.create",
			fmt.Sprintf("unknown tts engine: %s", name))
	}
	return factory(cfg, logger)
}

// Engines lists the registered engine names in sorted order.
func Engines() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nativePath swaps the extension of outputPath for the engine's native one.
// Paths that already carry the native extension are returned unchanged.
func nativePath(outputPath, ext string) string {
	current := filepath.Ext(outputPath)
	if strings.EqualFold(current, ext) {
		return outputPath
	}
	return strings.TrimSuffix(outputPath, current) + ext
}

// checkArtifact verifies an engine actually produced audio bytes.
func checkArtifact(op, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(errors.KindEmptyOutput, op, "engine produced no audio file", err)
	}
	if info.Size() == 0 {
		return errors.New(errors.KindEmptyOutput, op, "engine produced an empty audio file")
	}
	return nil
}

// runEngine executes one external synthesis process under a hard wall-clock
// timeout. stdin is fed to the process when non-empty.
func runEngine(ctx context.Context, timeout time.Duration, op, stdin, bin string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Wrap(errors.KindTimeout, op,
				fmt.Sprintf("%s timed out after %s", bin, timeout), ctx.Err())
		}
		return errors.Wrap(errors.KindUnknown, op,
			fmt.Sprintf("%s failed: %s", bin, tailLine(out)), err)
	}
	return nil
}

// tailLine extracts the last non-empty line of process output for error
// messages, capped so log lines stay readable.
func tailLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if len(last) > 200 {
		last = last[:200]
	}
	if last == "" {
		return "(no output)"
	}
	return last
}

// removeQuiet discards an intermediate artifact, ignoring errors.
func removeQuiet(path string) {
	if path == "" {
		return
	}
	os.Remove(path)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
