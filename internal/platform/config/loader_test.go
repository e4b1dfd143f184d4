package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
server:
  host: "127.0.0.1"
  port: 9000
log:
  log_level: "debug"
  log_dir: "/tmp/logs"
  log_file: "test.log"
tts:
  engine: "espeak"
  voice_speed: 1.25
audio:
  pause_seconds: 0.75
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader().WithDotEnv(false).WithPath(configFile)
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	cfg := result.Config
	if result.Path != configFile {
		t.Errorf("expected path %s, got %s", configFile, result.Path)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected server host 127.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected server port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.TTS.Engine != "espeak" {
		t.Errorf("expected engine espeak, got %s", cfg.TTS.Engine)
	}
	if cfg.TTS.VoiceSpeed != 1.25 {
		t.Errorf("expected voice speed 1.25, got %v", cfg.TTS.VoiceSpeed)
	}
	if cfg.Audio.PauseSeconds != 0.75 {
		t.Errorf("expected pause 0.75, got %v", cfg.Audio.PauseSeconds)
	}
	// Fields the file does not set keep their defaults.
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("expected default sample rate 44100, got %d", cfg.Audio.SampleRate)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("expected default temperature 0.7, got %v", cfg.LLM.Temperature)
	}
}

func TestLoader_Load_NoFile(t *testing.T) {
	loader := NewLoader().WithDotEnv(false).WithPath(filepath.Join(t.TempDir(), "missing.yaml"))
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}
	if result.Path != "defaults" {
		t.Errorf("expected path defaults, got %s", result.Path)
	}
	if result.Config.TTS.VoiceSpeed != 1.0 {
		t.Errorf("expected default voice speed 1.0, got %v", result.Config.TTS.VoiceSpeed)
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("CONFLUENCE_BASE_URL", "https://wiki.example.com")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("TTS_ENGINE", "piper")
	t.Setenv("VOICE_SPEED", "0.9")
	t.Setenv("MAX_PAGES", "10")

	loader := NewLoader().WithDotEnv(false).WithPath(filepath.Join(t.TempDir(), "missing.yaml"))
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	cfg := result.Config
	if cfg.Confluence.BaseURL != "https://wiki.example.com" {
		t.Errorf("expected env base url, got %s", cfg.Confluence.BaseURL)
	}
	if cfg.LLM.ModelName != "gpt-4o" {
		t.Errorf("expected env model, got %s", cfg.LLM.ModelName)
	}
	if cfg.TTS.Engine != "piper" {
		t.Errorf("expected env engine, got %s", cfg.TTS.Engine)
	}
	if cfg.TTS.VoiceSpeed != 0.9 {
		t.Errorf("expected env voice speed 0.9, got %v", cfg.TTS.VoiceSpeed)
	}
	if cfg.Confluence.MaxPages != 10 {
		t.Errorf("expected env max pages 10, got %d", cfg.Confluence.MaxPages)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero voice speed",
			mutate:  func(c *Config) { c.TTS.VoiceSpeed = 0 },
			wantErr: true,
		},
		{
			name:    "negative sample rate",
			mutate:  func(c *Config) { c.Audio.SampleRate = -1 },
			wantErr: true,
		},
		{
			name:    "three channels",
			mutate:  func(c *Config) { c.Audio.Channels = 3 },
			wantErr: true,
		},
		{
			name:    "min duration ratio above one",
			mutate:  func(c *Config) { c.Audio.Heuristics.MinDurationRatio = 1.5 },
			wantErr: true,
		},
		{
			name:    "max duration ratio below one",
			mutate:  func(c *Config) { c.Audio.Heuristics.MaxDurationRatio = 0.5 },
			wantErr: true,
		},
		{
			name:    "zero max pages",
			mutate:  func(c *Config) { c.Confluence.MaxPages = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
