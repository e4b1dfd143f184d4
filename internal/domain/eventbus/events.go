package eventbus

// Topic names follow "area:action".
const (
	// Episode lifecycle, published by the batch pipeline.
	EventEpisodeStarted   = "episode:started"
	EventEpisodeCompleted = "episode:completed"
	EventEpisodeFailed    = "episode:failed"

	// Per-segment synthesis progress.
	EventTTSStarted   = "tts:started"
	EventTTSCompleted = "tts:completed"
	EventTTSFailed    = "tts:failed"

	// Post-processing milestones.
	EventAudioCombined  = "audio:combined"
	EventAudioValidated = "audio:validated"
)

// EpisodeEventData accompanies episode:* topics.
type EpisodeEventData struct {
	Title     string `json:"title"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	AudioPath string `json:"audio_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SynthesisEventData accompanies tts:* topics.
type SynthesisEventData struct {
	Episode  string `json:"episode"`
	Speaker  string `json:"speaker,omitempty"`
	Segment  int    `json:"segment"`
	Engine   string `json:"engine,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	Error    string `json:"error,omitempty"`
}

// AudioEventData accompanies audio:* topics.
type AudioEventData struct {
	Episode  string  `json:"episode"`
	Segments int     `json:"segments"`
	FilePath string  `json:"file_path"`
	Duration float64 `json:"duration_seconds,omitempty"`
}
