package script

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseDialogue splits a dialogue script into ordered speaker segments.
// Lines starting with "ALEX:" or "SAM:" (any case) open a new turn,
// continuation lines append to the current turn, and bracketed cue lines
// become narrator or shared segments. Returns nil when the script contains
// no recognizable speaker lines.
func ParseDialogue(dialogue string) []Segment {
	var segments []Segment
	lines := strings.Split(dialogue, "\n")

	var currentSpeaker string
	var currentText string

	flush := func() {
		if currentSpeaker != "" && currentText != "" {
			segments = append(segments, Segment{
				Speaker: currentSpeaker,
				Text:    strings.TrimSpace(currentText),
			})
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "ALEX:"):
			flush()
			currentSpeaker = SpeakerAlex
			currentText = strings.TrimSpace(line[len("ALEX:"):])

		case strings.HasPrefix(upper, "SAM:"):
			flush()
			currentSpeaker = SpeakerSam
			currentText = strings.TrimSpace(line[len("SAM:"):])

		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			// Audio cue line, e.g. [BOTH LAUGH] or [PAUSE].
			cue := strings.ToLower(strings.Trim(line, "[]"))
			speaker := SpeakerNarrator
			if strings.Contains(cue, "both") || strings.Contains(cue, "laugh") {
				speaker = SpeakerBoth
			}
			segments = append(segments, Segment{Speaker: speaker, Text: line})

		default:
			if currentSpeaker != "" {
				currentText += " " + line
			}
		}
	}

	flush()

	return segments
}

var (
	speakerLabelRe     = regexp.MustCompile(`^(?i)(ALEX|SAM|NARRATOR):\s*(.*)`)
	speakerLabelLineRe = regexp.MustCompile(`(?im)^(ALEX|SAM|NARRATOR):\s*`)
	sentenceEndRe      = regexp.MustCompile(`[.!?]\s+`)
)

// ParseScript segments a full script for synthesis. Unlike ParseDialogue it
// tolerates scripts without speaker labels: untagged leading text is
// narrated, and a script with at most one recognizable turn is split into
// sentences voiced by alternating hosts so multi-voice playback still
// works.
func ParseScript(text string) []Segment {
	var segments []Segment
	speaker := SpeakerNarrator
	var parts []string

	flush := func() {
		if len(parts) > 0 {
			segments = append(segments, Segment{
				Speaker: speaker,
				Text:    strings.Join(parts, " "),
			})
			parts = parts[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := speakerLabelRe.FindStringSubmatch(line); m != nil {
			flush()
			speaker = strings.ToLower(m[1])
			if rest := strings.TrimSpace(m[2]); rest != "" {
				parts = append(parts, rest)
			}
			continue
		}
		parts = append(parts, line)
	}
	flush()

	if len(segments) <= 1 {
		return alternatingSegments(text)
	}
	return segments
}

// alternatingSegments splits unlabeled prose into sentences and assigns
// them to the two hosts in turn.
func alternatingSegments(text string) []Segment {
	text = speakerLabelLineRe.ReplaceAllString(text, "")

	var segments []Segment
	for i, sentence := range SplitSentences(text) {
		speaker := SpeakerAlex
		if i%2 == 1 {
			speaker = SpeakerSam
		}
		segments = append(segments, Segment{Speaker: speaker, Text: sentence})
	}
	return segments
}

// SplitSentences cuts text at sentence-ending punctuation followed by
// whitespace, keeping the punctuation and dropping blank pieces.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		end := loc[0] + 1
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// BuildQASegments turns question/answer content into a simple two-host
// conversation: Alex asks, Sam answers, framed by an intro and outro.
func BuildQASegments(items []QA) []Segment {
	segments := []Segment{{
		Speaker: SpeakerAlex,
		Text:    "Welcome everyone! I'm Alex, and today I have Sam here with me to discuss some important topics. Sam, let's dive into some key questions.",
	}}

	if len(items) == 0 {
		segments = append(segments,
			Segment{
				Speaker: SpeakerAlex,
				Text:    "Sam, can you tell us about the topics we're covering today?",
			},
			Segment{
				Speaker: SpeakerSam,
				Text:    "Thanks Alex! Today we're covering important onboarding information. Let's make sure everyone has the context they need to get started.",
			},
		)
	} else {
		for i, qa := range items {
			segments = append(segments,
				Segment{
					Speaker: SpeakerAlex,
					Text:    fmt.Sprintf("Question %d: %s", i+1, qa.Question),
				},
				Segment{
					Speaker: SpeakerSam,
					Text:    qa.Answer,
				},
			)
		}
	}

	segments = append(segments, Segment{
		Speaker: SpeakerAlex,
		Text:    "Thank you Sam for those detailed explanations! That covers all our key topics for today. Thanks everyone for listening!",
	})

	return segments
}

// FormatQAScript renders question/answer content as a single narrated
// script with intro and outro, used when no dialogue script exists.
func FormatQAScript(title string, sourcePages []string, items []QA) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Welcome to the %s onboarding episode.", title))
	if len(sourcePages) > 0 {
		b.WriteString(fmt.Sprintf(" This episode covers information from the following documentation pages: %s.",
			strings.Join(sourcePages, ", ")))
	}
	b.WriteString(" Let's dive into some key questions about this topic.\n\n")

	for i, qa := range items {
		b.WriteString(fmt.Sprintf("Question %d: %s\n\nAnswer: %s\n\n", i+1, qa.Question, qa.Answer))
	}

	b.WriteString(fmt.Sprintf("That concludes our overview of %s. These insights should help you understand this part of our project better. Thank you for listening!", title))

	return b.String()
}

// FormatScript renders segments back to the labeled text form that
// ParseScript and ParseDialogue read.
func FormatScript(segments []Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.ToUpper(seg.Speaker))
		b.WriteString(": ")
		b.WriteString(seg.Text)
	}
	return b.String()
}
