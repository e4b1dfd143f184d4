package config

// DefaultConfig returns the configuration used when no config file is
// present. Every field can be overridden by config.yaml or environment
// variables.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8090,
			StaticDir: "output",
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "logs",
			File:  "convocast.log",
		},
		Confluence: ConfluenceConfig{
			MaxPages:       50,
			TimeoutSeconds: 30,
		},
		LLM: LLMConfig{
			ModelName:      "gpt-4o-mini",
			Temperature:    0.7,
			MaxTokens:      2000,
			TimeoutSeconds: 60,
		},
		TTS: TTSConfig{
			VoiceSpeed:     1.0,
			OutputDir:      "output",
			PiperModelsDir: "models",
		},
		Audio: AudioConfig{
			Bitrate:      "192k",
			SampleRate:   44100,
			Channels:     2,
			PauseSeconds: 0.5,
			Heuristics: HeuristicsConfig{
				WordsPerSecond:            2.5,
				MinDurationRatio:          0.5,
				MaxDurationRatio:          3.0,
				BytesPerWord:              1000,
				MinSizeRatio:              0.3,
				TranscodeMinSizeRatio:     0.1,
				TranscodeMinDurationRatio: 0.8,
			},
		},
		Storage: StorageConfig{
			DataDir: "data",
			DBFile:  "convocast.db",
		},
	}
}
