package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"convocast-go/internal/platform/errors"
)

// Loader reads configuration from defaults, an optional yaml file, and
// environment variable overrides, in that order.
type Loader struct {
	useDotEnv bool
	path      string
}

// NewLoader creates a loader with .env support enabled.
func NewLoader() *Loader {
	return &Loader{useDotEnv: true}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the config file location (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load builds the effective configuration.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	cfg := DefaultConfig()
	path := "defaults"

	if candidate := l.findConfigFile(); candidate != "" {
		data, err := os.ReadFile(candidate)
		if err != nil {
			return nil, errors.Wrap(errors.KindConfig, "load", "failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.KindConfig, "load", "failed to parse config file", err)
		}
		path = candidate
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   path,
	}, nil
}

func (l *Loader) findConfigFile() string {
	candidates := []string{"config.yaml", "data/.config.yaml"}
	if l.path != "" {
		candidates = []string{l.path}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// applyEnvOverrides maps well-known environment variables onto the config.
// Environment always wins over file values.
func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Confluence.BaseURL, "CONFLUENCE_BASE_URL")
	overrideString(&cfg.Confluence.Username, "CONFLUENCE_USERNAME")
	overrideString(&cfg.Confluence.APIToken, "CONFLUENCE_API_TOKEN")
	overrideString(&cfg.Confluence.SpaceKey, "CONFLUENCE_SPACE_KEY")
	overrideString(&cfg.Confluence.RootPageID, "CONFLUENCE_ROOT_PAGE_ID")
	overrideInt(&cfg.Confluence.MaxPages, "MAX_PAGES")

	overrideString(&cfg.LLM.BaseURL, "LLM_API_URL")
	overrideString(&cfg.LLM.APIKey, "LLM_API_KEY")
	overrideString(&cfg.LLM.ModelName, "LLM_MODEL")

	overrideString(&cfg.TTS.Engine, "TTS_ENGINE")
	overrideString(&cfg.TTS.OutputDir, "OUTPUT_DIR")
	overrideString(&cfg.TTS.PiperModelsDir, "PIPER_MODELS_DIR")
	overrideFloat(&cfg.TTS.VoiceSpeed, "VOICE_SPEED")

	overrideString(&cfg.Log.Level, "LOG_LEVEL")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func validate(cfg *Config) error {
	if cfg.TTS.VoiceSpeed <= 0 {
		return errors.New(errors.KindConfig, "validate",
			fmt.Sprintf("voice_speed must be positive, got %v", cfg.TTS.VoiceSpeed))
	}
	if cfg.Audio.SampleRate <= 0 {
		return errors.New(errors.KindConfig, "validate",
			fmt.Sprintf("sample_rate must be positive, got %d", cfg.Audio.SampleRate))
	}
	if cfg.Audio.Channels != 1 && cfg.Audio.Channels != 2 {
		return errors.New(errors.KindConfig, "validate",
			fmt.Sprintf("channels must be 1 or 2, got %d", cfg.Audio.Channels))
	}
	h := cfg.Audio.Heuristics
	if h.WordsPerSecond <= 0 {
		return errors.New(errors.KindConfig, "validate",
			fmt.Sprintf("words_per_second must be positive, got %v", h.WordsPerSecond))
	}
	if h.MinDurationRatio < 0 || h.MinDurationRatio > 1 {
		return errors.New(errors.KindConfig, "validate",
			fmt.Sprintf("min_duration_ratio must be within [0,1], got %v", h.MinDurationRatio))
	}
	if h.MaxDurationRatio < 1 {
		return errors.New(errors.KindConfig, "validate",
			fmt.Sprintf("max_duration_ratio must be at least 1, got %v", h.MaxDurationRatio))
	}
	if cfg.Confluence.MaxPages < 1 {
		return errors.New(errors.KindConfig, "validate",
			fmt.Sprintf("max_pages must be at least 1, got %d", cfg.Confluence.MaxPages))
	}
	return nil
}
