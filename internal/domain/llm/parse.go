package llm

import (
	"regexp"
	"strings"

	"convocast-go/internal/domain/script"
)

var (
	// Question lines open with "Q:", "Question 3:" or a bare "3." number.
	questionLineRe   = regexp.MustCompile(`^(Question \d+:|\d+\.)`)
	questionPrefixRe = regexp.MustCompile(`^(Q:\s*|Question \d+:\s*|\d+\.\s*)`)
	answerPrefixRe   = regexp.MustCompile(`^(A:\s*|Answer:\s*)`)

	// altMarkerRe finds loose question/answer markers anywhere in a blob.
	// Full words match any case; bare Q/A must be uppercase and followed
	// by a colon to avoid tripping on ordinary prose.
	altMarkerRe = regexp.MustCompile(`(?i:\b(?:question|answer)(?:\s*\d+)?[:.])|\b[QA](?:\s*\d+)?:`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// ParseQAResponse extracts question/answer pairs from raw model output.
// It tries the mandated "Q: ... / A: ..." line format first, then a looser
// marker scan for responses that drifted from the format, and finally
// chops the response into sentence chunks so an episode can still be built
// from a completely malformed reply. Returns nil only for blank input.
func ParseQAResponse(response string) []script.QA {
	var lines []string
	for _, line := range strings.Split(response, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	items := parseStandardFormat(lines)
	if len(items) == 0 {
		items = parseAlternativeFormats(response)
	}
	if len(items) == 0 && strings.TrimSpace(response) != "" {
		items = emergencyQAPairs(response)
	}
	return items
}

func isQuestionLine(line string) bool {
	return strings.HasPrefix(line, "Q:") || questionLineRe.MatchString(line)
}

func isAnswerLine(line string) bool {
	return strings.HasPrefix(line, "A:") || strings.HasPrefix(line, "Answer:")
}

// parseStandardFormat walks the response line by line. A question line
// starts a new pair, an answer line starts its answer, and anything else
// continues whichever side is open.
func parseStandardFormat(lines []string) []script.QA {
	var items []script.QA
	var currentQ, currentA string
	inAnswer := false

	flush := func() {
		q := strings.TrimSpace(questionPrefixRe.ReplaceAllString(currentQ, ""))
		a := strings.TrimSpace(answerPrefixRe.ReplaceAllString(currentA, ""))
		if q != "" && a != "" {
			items = append(items, script.QA{Question: q, Answer: a})
		}
	}

	for _, line := range lines {
		switch {
		case isQuestionLine(line):
			if currentQ != "" && currentA != "" {
				flush()
			}
			currentQ = line
			currentA = ""
			inAnswer = false

		case isAnswerLine(line):
			currentA = line
			inAnswer = true

		case inAnswer:
			currentA += " " + line

		case currentQ != "":
			currentQ += " " + line
		}
	}

	if currentQ != "" && currentA != "" {
		flush()
	}

	return items
}

// parseAlternativeFormats scans for question/answer markers at any
// position and pairs each question with the answer text that follows it.
func parseAlternativeFormats(response string) []script.QA {
	locs := altMarkerRe.FindAllStringIndex(response, -1)
	if len(locs) == 0 {
		return nil
	}

	var items []script.QA
	var pendingQ string

	for i, loc := range locs {
		marker := response[loc[0]:loc[1]]
		end := len(response)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := collapseSpace(response[loc[1]:end])

		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(marker)), "q") {
			pendingQ = text
		} else if pendingQ != "" && text != "" {
			items = append(items, script.QA{Question: pendingQ, Answer: text})
			pendingQ = ""
		}
	}

	return items
}

// emergencyQAPairs builds generic pairs from sentence chunks when no
// recognizable structure survived.
func emergencyQAPairs(response string) []script.QA {
	var sentences []string
	for _, s := range strings.Split(response, ".") {
		if s = strings.TrimSpace(s); len(s) > 20 {
			sentences = append(sentences, s)
		}
	}

	var items []script.QA
	for i := 0; i < len(sentences); i += 3 {
		end := i + 3
		if end > len(sentences) {
			end = len(sentences)
		}
		chunk := strings.Join(sentences[i:end], ". ") + "."
		if len(chunk) > 30 {
			items = append(items, script.QA{
				Question: "Can you explain more about this topic?",
				Answer:   chunk,
			})
		}
	}
	return items
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
