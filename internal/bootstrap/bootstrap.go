// Package bootstrap wires configuration, logging, storage and the synthesis
// pipeline into a runnable application, and dispatches the CLI verbs.
//
// Initialisation runs as an ordered step graph. Every step names the steps
// it depends on and executeInitSteps refuses to run a step before its
// dependencies completed, so a reordering mistake fails loudly instead of
// producing a half-built appState.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"convocast-go/internal/domain/eventbus"
	"convocast-go/internal/domain/podcast"
	"convocast-go/internal/domain/tts"
	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
	"convocast-go/internal/platform/storage"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      errors.Kind
	Execute   stepFn
}

// appState collects everything the init graph produces. Steps fill it in
// as they run; the verbs read from it afterwards.
type appState struct {
	config     *config.Config
	configPath string
	logger     *logging.Logger
	records    *storage.EpisodeRepository
	dispatcher *tts.Dispatcher
	generator  *podcast.Generator

	// overrides are applied to the configuration right after it loads,
	// before anything downstream reads it. The verbs use them to push
	// flag values like -output and -port into the shared config.
	overrides []func(*config.Config)
}

// Close flushes the async event handlers and the log sinks. Safe to call
// on a partially initialised state.
func (s *appState) Close() {
	eventbus.Shutdown()
	if s.logger != nil {
		_ = s.logger.Close()
	}
}

// InitGraph returns the full initialisation sequence. Configuration comes
// first because every other step reads from it, including the ledger step,
// which needs the storage paths before it can open the database.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    errors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      errors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:init-ledger",
			Title:     "Open episode ledger",
			DependsOn: []string{"config:load", "logging:init-provider"},
			Kind:      errors.KindStorage,
			Execute:   initLedgerStep,
		},
		{
			ID:        "tts:init-dispatcher",
			Title:     "Initialise synthesis dispatcher",
			DependsOn: []string{"logging:init-provider"},
			Kind:      errors.KindBootstrap,
			Execute:   initDispatcherStep,
		},
		{
			ID:        "pipeline:init-generator",
			Title:     "Initialise episode generator",
			DependsOn: []string{"storage:init-ledger", "tts:init-dispatcher"},
			Kind:      errors.KindBootstrap,
			Execute:   initGeneratorStep,
		},
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return errors.New(
			errors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return errors.New(
					errors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return errors.New(
				errors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			kind := step.Kind
			if kind == "" {
				kind = errors.KindBootstrap
			}
			// Wrap passes already-typed errors through unchanged.
			return errors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// loadFull runs the whole init graph and returns the populated state.
// The generate and serve verbs use it.
func loadFull(ctx context.Context, overrides ...func(*config.Config)) (*appState, error) {
	state := &appState{overrides: overrides}
	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return nil, err
	}
	logBootstrapGraph(steps, state.logger)
	return state, nil
}

// loadCore runs only the configuration and logging steps. The doctor verb
// uses it so a broken ledger or an unavailable engine cannot keep the
// diagnosis itself from running.
func loadCore(ctx context.Context, overrides ...func(*config.Config)) (*appState, error) {
	state := &appState{overrides: overrides}
	if err := executeInitSteps(ctx, InitGraph()[:2], state); err != nil {
		return nil, err
	}
	return state, nil
}

func logBootstrapGraph(steps []initStep, logger *logging.Logger) {
	if logger == nil {
		return
	}
	logger.InfoTag("boot", "initialisation complete")
	for _, step := range steps {
		logger.DebugTag("boot", "%s: %s", step.ID, step.Title)
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := config.NewLoader().Load()
	if err != nil {
		return err
	}
	for _, apply := range state.overrides {
		apply(result.Config)
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return errors.New(
			errors.KindBootstrap,
			"logging:init-provider",
			"configuration not loaded",
		)
	}
	logger, err := logging.New(logging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return errors.Wrap(
			errors.KindBootstrap,
			"logging:init-provider",
			"failed to create logger",
			err,
		)
	}
	if err := eventbus.SetupLogging(logger); err != nil {
		return errors.Wrap(
			errors.KindBootstrap,
			"logging:init-provider",
			"failed to attach event log handlers",
			err,
		)
	}
	state.logger = logger

	logger.InfoTag("boot", "configuration loaded from %s", state.configPath)
	return nil
}

func initLedgerStep(_ context.Context, state *appState) error {
	cfg := state.config
	if err := storage.Init(cfg.Storage.DataDir, cfg.Storage.DBFile); err != nil {
		return err
	}
	state.records = storage.NewEpisodeRepository(storage.GetDB())
	state.logger.InfoTag("STORE", "episode ledger open at %s",
		filepath.Join(cfg.Storage.DataDir, cfg.Storage.DBFile))
	return nil
}

func initDispatcherStep(_ context.Context, state *appState) error {
	dispatcher, err := tts.NewDispatcher(state.config, state.logger)
	if err != nil {
		return err
	}
	state.dispatcher = dispatcher
	return nil
}

func initGeneratorStep(_ context.Context, state *appState) error {
	state.generator = podcast.NewGenerator(state.config, state.dispatcher, state.logger)
	return nil
}
