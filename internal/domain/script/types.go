package script

// Speaker names used in conversational scripts.
const (
	SpeakerAlex     = "alex"
	SpeakerSam      = "sam"
	SpeakerNarrator = "narrator"
	SpeakerBoth     = "both"
)

// Style selects the conversational register for generated dialogue.
type Style string

const (
	StyleInterview  Style = "interview"
	StyleDiscussion Style = "discussion"
	StyleTeaching   Style = "teaching"
)

// QA is one question/answer pair extracted from source content.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Segment is one speaker turn in a conversational script. Order within a
// script is playback order.
type Segment struct {
	Speaker         string  `json:"speaker"`
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	AudioPath       string  `json:"audio_path,omitempty"`
}
