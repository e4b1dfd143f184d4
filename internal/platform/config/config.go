package config

// Config is the root configuration for the podcast generation pipeline.
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server"`
	Log        LogConfig        `yaml:"log" json:"log"`
	Confluence ConfluenceConfig `yaml:"confluence" json:"confluence"`
	LLM        LLMConfig        `yaml:"llm" json:"llm"`
	TTS        TTSConfig        `yaml:"tts" json:"tts"`
	Audio      AudioConfig      `yaml:"audio" json:"audio"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
}

// ServerConfig configures the optional HTTP API.
type ServerConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	StaticDir string `yaml:"static_dir" json:"static_dir"`
}

type LogConfig struct {
	Level string `yaml:"log_level" json:"log_level"`
	Dir   string `yaml:"log_dir" json:"log_dir"`
	File  string `yaml:"log_file" json:"log_file"`
}

// ConfluenceConfig holds credentials and traversal limits for the
// Confluence content source.
type ConfluenceConfig struct {
	BaseURL        string `yaml:"base_url" json:"base_url"`
	Username       string `yaml:"username" json:"username"`
	APIToken       string `yaml:"api_token" json:"-"`
	SpaceKey       string `yaml:"space_key" json:"space_key"`
	RootPageID     string `yaml:"root_page_id" json:"root_page_id"`
	MaxPages       int    `yaml:"max_pages" json:"max_pages"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// LLMConfig holds the OpenAI-compatible endpoint used for script writing.
type LLMConfig struct {
	BaseURL        string  `yaml:"url" json:"url"`
	APIKey         string  `yaml:"api_key" json:"-"`
	ModelName      string  `yaml:"model_name" json:"model_name"`
	Temperature    float64 `yaml:"temperature" json:"temperature"`
	MaxTokens      int     `yaml:"max_tokens" json:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// TTSConfig selects the preferred synthesis engine and global voice pacing.
type TTSConfig struct {
	// Engine forces a primary engine ("flite", "espeak", "piper", "say",
	// "edge"). Empty selects the platform default order.
	Engine         string  `yaml:"engine" json:"engine"`
	VoiceSpeed     float64 `yaml:"voice_speed" json:"voice_speed"`
	OutputDir      string  `yaml:"output_dir" json:"output_dir"`
	PiperModelsDir string  `yaml:"piper_models_dir" json:"piper_models_dir"`
}

// AudioConfig controls the target encoding and post-processing heuristics.
type AudioConfig struct {
	Bitrate      string           `yaml:"bitrate" json:"bitrate"`
	SampleRate   int              `yaml:"sample_rate" json:"sample_rate"`
	Channels     int              `yaml:"channels" json:"channels"`
	PauseSeconds float64          `yaml:"pause_seconds" json:"pause_seconds"`
	KeepSegments bool             `yaml:"keep_segments" json:"keep_segments"`
	Heuristics   HeuristicsConfig `yaml:"heuristics" json:"heuristics"`
}

// HeuristicsConfig tunes the sanity checks applied to generated audio.
// Duration ratios compare measured duration against the estimate derived
// from word count; size ratios guard conversions and probe fallbacks.
type HeuristicsConfig struct {
	WordsPerSecond            float64 `yaml:"words_per_second" json:"words_per_second"`
	MinDurationRatio          float64 `yaml:"min_duration_ratio" json:"min_duration_ratio"`
	MaxDurationRatio          float64 `yaml:"max_duration_ratio" json:"max_duration_ratio"`
	BytesPerWord              int     `yaml:"bytes_per_word" json:"bytes_per_word"`
	MinSizeRatio              float64 `yaml:"min_size_ratio" json:"min_size_ratio"`
	TranscodeMinSizeRatio     float64 `yaml:"transcode_min_size_ratio" json:"transcode_min_size_ratio"`
	TranscodeMinDurationRatio float64 `yaml:"transcode_min_duration_ratio" json:"transcode_min_duration_ratio"`
}

// StorageConfig locates the sqlite episode ledger.
type StorageConfig struct {
	DataDir string `yaml:"data_dir" json:"data_dir"`
	DBFile  string `yaml:"db_file" json:"db_file"`
}
