package tts

import (
	"context"
	"runtime"
	"strings"

	"convocast-go/internal/domain/audio"
	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

// Attempt is one engine try during dispatch, kept for the episode ledger.
type Attempt struct {
	Engine string `json:"engine"`
	Error  string `json:"error,omitempty"`
}

// SynthesisResult names the engine that produced the artifact and carries
// the attempt history including the failures that preceded it.
type SynthesisResult struct {
	Engine   string    `json:"engine"`
	Attempts []Attempt `json:"attempts"`
}

// Dispatcher tries engines in order until one produces audio that survives
// validation. The attempt list is the request profile's engine followed by
// the platform fallback order, deduplicated; each engine gets exactly one
// attempt per request.
type Dispatcher struct {
	providers   map[string]Provider
	forceEngine string
	fallbacks   []string
	transcoder  *audio.Transcoder
	validator   *audio.Validator
	logger      *logging.Logger
}

// NewDispatcher instantiates every registered provider and wires the
// normalizer and validator used after each attempt.
func NewDispatcher(cfg *config.Config, logger *logging.Logger) (*Dispatcher, error) {
	providers := make(map[string]Provider, len(factories))
	for _, name := range Engines() {
		provider, err := Create(name, cfg, logger)
		if err != nil {
			return nil, err
		}
		providers[name] = provider
	}
	return &Dispatcher{
		providers:   providers,
		forceEngine: cfg.TTS.Engine,
		fallbacks:   fallbackOrder(runtime.GOOS),
		transcoder:  audio.NewTranscoder(cfg.Audio, logger),
		validator:   audio.NewValidator(cfg.Audio, logger),
		logger:      logger,
	}, nil
}

// fallbackOrder ranks engines for a platform, best fit first. The cloud
// engine always comes last.
func fallbackOrder(goos string) []string {
	if goos == "darwin" {
		return []string{EngineSay, EngineFlite, EnginePiper, EngineEspeak, EngineEdge}
	}
	return []string{EngineFlite, EnginePiper, EngineSay, EngineEspeak, EngineEdge}
}

// attemptList places the primary engine first and appends the fallbacks,
// dropping duplicates while preserving order.
func attemptList(primary string, fallbacks []string) []string {
	out := make([]string, 0, len(fallbacks)+1)
	seen := make(map[string]bool, len(fallbacks)+1)
	if primary != "" {
		out = append(out, primary)
		seen[primary] = true
	}
	for _, name := range fallbacks {
		if seen[name] {
			continue
		}
		out = append(out, name)
		seen[name] = true
	}
	return out
}

// Synthesize produces one validated artifact at req.OutputPath. Engine
// errors are recorded and the next engine is tried; an artifact that fails
// validation is discarded the same way. When every engine is exhausted the
// caller gets an error carrying the last engine failure plus the recorded
// attempts, so the history survives into the ledger.
func (d *Dispatcher) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	const op = "tts.dispatch"

	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New(errors.KindValidation, op, "no text to synthesize")
	}

	primary := d.forceEngine
	if primary == "" {
		primary = req.Profile.Engine
	}
	attempts := attemptList(primary, d.fallbacks)

	result := &SynthesisResult{}
	var lastErr error
	for _, name := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.KindTimeout, op, "synthesis canceled", err)
		}

		provider, ok := d.providers[name]
		if !ok {
			continue
		}
		if err := provider.Available(); err != nil {
			d.logger.DebugTag("TTS", "%s unavailable: %v", name, err)
			result.Attempts = append(result.Attempts, Attempt{Engine: name, Error: err.Error()})
			lastErr = err
			continue
		}

		d.logger.InfoTag("TTS", "trying %s engine", name)
		native, err := provider.Synthesize(ctx, req)
		if err != nil {
			lastErr = err
			result.Attempts = append(result.Attempts, Attempt{Engine: name, Error: err.Error()})
			d.logger.WarnTag("TTS", "%s failed: %v, trying next engine", name, err)
			continue
		}

		if err := d.finish(ctx, native, req); err != nil {
			result.Attempts = append(result.Attempts, Attempt{Engine: name, Error: err.Error()})
			if errors.IsKind(err, errors.KindValidation) {
				d.logger.WarnTag("TTS", "%s generated invalid audio, trying next engine", name)
			} else {
				lastErr = err
				d.logger.WarnTag("TTS", "%s post-processing failed: %v, trying next engine", name, err)
			}
			continue
		}

		result.Engine = name
		result.Attempts = append(result.Attempts, Attempt{Engine: name})
		d.logger.InfoTag("TTS", "audio generated with %s", name)
		return result, nil
	}

	// Built directly so the outer kind stays exhausted even when the
	// recorded cause is itself typed.
	return result, &errors.Error{
		Kind:    errors.KindExhausted,
		Op:      op,
		Message: "all tts engines failed",
		Cause:   lastErr,
	}
}

// finish normalizes the native artifact to the requested path and validates
// it against the spoken text. Failed artifacts are removed so a later
// engine starts clean.
func (d *Dispatcher) finish(ctx context.Context, native string, req SynthesisRequest) error {
	if native != req.OutputPath {
		err := d.transcoder.ToMP3(ctx, native, req.OutputPath)
		removeQuiet(native)
		if err != nil {
			return err
		}
	}
	if err := d.validator.Validate(ctx, req.OutputPath, req.Text); err != nil {
		removeQuiet(req.OutputPath)
		return err
	}
	return nil
}
