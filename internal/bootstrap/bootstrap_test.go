package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
)

func noopStep(context.Context, *appState) error { return nil }

func TestInitGraphOrder(t *testing.T) {
	steps := InitGraph()
	want := []string{
		"config:load",
		"logging:init-provider",
		"storage:init-ledger",
		"tts:init-dispatcher",
		"pipeline:init-generator",
	}
	if len(steps) != len(want) {
		t.Fatalf("unexpected step count: got %d want %d", len(steps), len(want))
	}
	for i, step := range steps {
		if step.ID != want[i] {
			t.Fatalf("step %d mismatch: got %s want %s", i, step.ID, want[i])
		}
	}
}

func TestInitGraphDependenciesResolvable(t *testing.T) {
	completed := make(map[string]bool)
	for _, step := range InitGraph() {
		for _, dep := range step.DependsOn {
			if !completed[dep] {
				t.Fatalf("step %s depends on %s, which runs later or not at all", step.ID, dep)
			}
		}
		completed[step.ID] = true
	}
}

func TestExecuteInitStepsRunsInOrder(t *testing.T) {
	var ran []string
	record := func(id string) stepFn {
		return func(context.Context, *appState) error {
			ran = append(ran, id)
			return nil
		}
	}
	steps := []initStep{
		{ID: "a", Execute: record("a")},
		{ID: "b", DependsOn: []string{"a"}, Execute: record("b")},
		{ID: "c", DependsOn: []string{"a", "b"}, Execute: record("c")},
	}

	if err := executeInitSteps(context.Background(), steps, &appState{}); err != nil {
		t.Fatalf("executeInitSteps failed: %v", err)
	}
	if len(ran) != 3 || ran[0] != "a" || ran[1] != "b" || ran[2] != "c" {
		t.Fatalf("steps ran out of order: %v", ran)
	}
}

func TestExecuteInitStepsRejectsUnsatisfiedDependency(t *testing.T) {
	steps := []initStep{
		{ID: "b", DependsOn: []string{"a"}, Execute: noopStep},
	}

	err := executeInitSteps(context.Background(), steps, &appState{})
	if err == nil {
		t.Fatal("expected an error for the unsatisfied dependency")
	}
	if !errors.IsKind(err, errors.KindBootstrap) {
		t.Fatalf("expected bootstrap kind, got: %v", err)
	}
	if !strings.Contains(err.Error(), "dependency a not satisfied") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestExecuteInitStepsRejectsMissingExecute(t *testing.T) {
	steps := []initStep{{ID: "a"}}

	err := executeInitSteps(context.Background(), steps, &appState{})
	if err == nil {
		t.Fatal("expected an error for the missing execute function")
	}
	if !strings.Contains(err.Error(), "missing execute function") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestExecuteInitStepsWrapsWithStepKind(t *testing.T) {
	steps := []initStep{
		{
			ID:   "storage:open",
			Kind: errors.KindStorage,
			Execute: func(context.Context, *appState) error {
				return fmt.Errorf("disk on fire")
			},
		},
	}

	err := executeInitSteps(context.Background(), steps, &appState{})
	if err == nil {
		t.Fatal("expected the step error to surface")
	}
	if !errors.IsKind(err, errors.KindStorage) {
		t.Fatalf("expected storage kind, got: %v", err)
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("cause lost from error chain: %v", err)
	}
}

func TestExecuteInitStepsKeepsTypedErrors(t *testing.T) {
	typed := errors.New(errors.KindLLM, "llm.connect", "endpoint refused")
	steps := []initStep{
		{
			ID:   "llm:connect",
			Kind: errors.KindStorage,
			Execute: func(context.Context, *appState) error {
				return typed
			},
		},
	}

	err := executeInitSteps(context.Background(), steps, &appState{})
	if !errors.IsKind(err, errors.KindLLM) {
		t.Fatalf("typed error was re-wrapped, got: %v", err)
	}
}

func TestExecuteInitStepsDefaultsToBootstrapKind(t *testing.T) {
	steps := []initStep{
		{
			ID: "unkinded",
			Execute: func(context.Context, *appState) error {
				return fmt.Errorf("plain failure")
			},
		},
	}

	err := executeInitSteps(context.Background(), steps, &appState{})
	if !errors.IsKind(err, errors.KindBootstrap) {
		t.Fatalf("expected bootstrap kind for an unkinded step, got: %v", err)
	}
}

func TestExecuteInitStepsNilState(t *testing.T) {
	err := executeInitSteps(context.Background(), InitGraph(), nil)
	if err == nil {
		t.Fatal("expected an error for the nil state")
	}
	if !errors.IsKind(err, errors.KindBootstrap) {
		t.Fatalf("expected bootstrap kind, got: %v", err)
	}
}

func TestLoadConfigStepAppliesOverrides(t *testing.T) {
	state := &appState{
		overrides: []func(*config.Config){
			func(cfg *config.Config) { cfg.TTS.OutputDir = "/custom/out" },
			func(cfg *config.Config) { cfg.Server.Port = 9999 },
		},
	}

	if err := loadConfigStep(context.Background(), state); err != nil {
		t.Fatalf("loadConfigStep failed: %v", err)
	}
	if state.config.TTS.OutputDir != "/custom/out" {
		t.Fatalf("output override not applied: %s", state.config.TTS.OutputDir)
	}
	if state.config.Server.Port != 9999 {
		t.Fatalf("port override not applied: %d", state.config.Server.Port)
	}
	if state.configPath == "" {
		t.Fatal("config path not recorded")
	}
}

func TestRunRequiresCommand(t *testing.T) {
	err := Run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error when no command is given")
	}
	if !errors.IsKind(err, errors.KindConfig) {
		t.Fatalf("expected config kind, got: %v", err)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := Run(context.Background(), []string{"frobnicate"})
	if err == nil {
		t.Fatal("expected an error for the unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command: frobnicate") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestRunHelp(t *testing.T) {
	if err := Run(context.Background(), []string{"help"}); err != nil {
		t.Fatalf("help should not fail: %v", err)
	}
}

func TestRunVoices(t *testing.T) {
	if err := Run(context.Background(), []string{"voices"}); err != nil {
		t.Fatalf("voices should not fail: %v", err)
	}
}
