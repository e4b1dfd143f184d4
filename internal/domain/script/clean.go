package script

import (
	"regexp"
	"strings"
)

// EmptyCleanedText is spoken in place of content that cleaned down to nothing.
const EmptyCleanedText = "Content not available for audio generation."

var (
	reBracketCue    = regexp.MustCompile(`\[.*?\]`)
	reEmphasis      = regexp.MustCompile(`\*([^*]+)\*`)
	reStrong        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reStrayStars    = regexp.MustCompile(`\*+`)
	reLeadSpeaker   = regexp.MustCompile(`(?i)^(ALEX|SAM|NARRATOR):\s*`)
	reInlineSpeaker = regexp.MustCompile(`(?i)\n(ALEX|SAM|NARRATOR):\s*`)
	reEllipsis      = regexp.MustCompile(`\.{3,}`)
	reUnderscore    = regexp.MustCompile(`_{1,2}([^_]+)_{1,2}`)
	reBacktick      = regexp.MustCompile("`([^`]+)`")
	reSpecialChars  = regexp.MustCompile(`[#@$%^&+=|\\/<>{}]`)
	reBangs         = regexp.MustCompile(`[!]{2,}`)
	reQuestions     = regexp.MustCompile(`[?]{2,}`)
	reCommas        = regexp.MustCompile(`[,]{2,}`)
	reWhitespace    = regexp.MustCompile(`\s+`)
)

// CleanAudioCues strips stage directions, markdown formatting, stray speaker
// labels and other markers that should not be spoken. The rules run in a
// fixed order; changing it changes the output for nested markers.
func CleanAudioCues(text string) string {
	if text == "" {
		return ""
	}

	// Audio cues in brackets, e.g. [BOTH LAUGH], [PAUSE], [EXCITED].
	text = reBracketCue.ReplaceAllString(text, "")

	// Emphasis markers: *word* and **word** become word.
	text = reEmphasis.ReplaceAllString(text, "$1")
	text = reStrong.ReplaceAllString(text, "$1")

	// Any asterisks left over after emphasis handling.
	text = reStrayStars.ReplaceAllString(text, "")

	// Interruption markers read as a short pause.
	text = strings.ReplaceAll(text, "--", " ")

	// Speaker labels that slipped through dialogue parsing.
	text = reLeadSpeaker.ReplaceAllString(text, "")
	text = reInlineSpeaker.ReplaceAllString(text, "\n")

	// Long ellipses become a single stop.
	text = reEllipsis.ReplaceAllString(text, ".")

	// Markdown underscores and inline code.
	text = reUnderscore.ReplaceAllString(text, "$1")
	text = reBacktick.ReplaceAllString(text, "$1")

	// Characters that trip up synthesis engines.
	text = reSpecialChars.ReplaceAllString(text, "")

	// Excessive punctuation.
	text = reBangs.ReplaceAllString(text, "!")
	text = reQuestions.ReplaceAllString(text, "?")
	text = reCommas.ReplaceAllString(text, ",")

	text = reWhitespace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if text == "" {
		return EmptyCleanedText
	}

	return text
}
