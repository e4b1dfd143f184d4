package script

import (
	"strings"
	"testing"
)

func TestParseDialogue(t *testing.T) {
	dialogue := `ALEX: Welcome to the show!
This is going to be great.

SAM: Thanks Alex.
[BOTH LAUGH]
sam: Another point from Sam.`

	segments := ParseDialogue(dialogue)

	want := []Segment{
		{Speaker: "alex", Text: "Welcome to the show! This is going to be great."},
		{Speaker: "both", Text: "[BOTH LAUGH]"},
		{Speaker: "sam", Text: "Thanks Alex."},
		{Speaker: "sam", Text: "Another point from Sam."},
	}

	if len(segments) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segments), segments)
	}
	for i := range want {
		if segments[i].Speaker != want[i].Speaker {
			t.Errorf("segment %d speaker = %q, expected %q", i, segments[i].Speaker, want[i].Speaker)
		}
		if segments[i].Text != want[i].Text {
			t.Errorf("segment %d text = %q, expected %q", i, segments[i].Text, want[i].Text)
		}
	}
}

func TestParseDialogue_CueRouting(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantSpeaker string
	}{
		{name: "laugh cue goes to both", line: "[EVERYONE LAUGHS]", wantSpeaker: "both"},
		{name: "both cue goes to both", line: "[BOTH NOD]", wantSpeaker: "both"},
		{name: "pause cue goes to narrator", line: "[PAUSE]", wantSpeaker: "narrator"},
		{name: "excited cue goes to narrator", line: "[EXCITED]", wantSpeaker: "narrator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := ParseDialogue(tt.line)
			if len(segments) != 1 {
				t.Fatalf("expected 1 segment, got %d", len(segments))
			}
			if segments[0].Speaker != tt.wantSpeaker {
				t.Errorf("cue speaker = %q, expected %q", segments[0].Speaker, tt.wantSpeaker)
			}
			if segments[0].Text != tt.line {
				t.Errorf("cue text = %q, expected raw line %q", segments[0].Text, tt.line)
			}
		})
	}
}

func TestParseDialogue_NoSpeakerLines(t *testing.T) {
	segments := ParseDialogue("Just some prose\nwith no labels at all.")
	if len(segments) != 0 {
		t.Errorf("expected no segments for unlabeled prose, got %d", len(segments))
	}
}

func TestParseDialogue_Empty(t *testing.T) {
	if got := ParseDialogue(""); len(got) != 0 {
		t.Errorf("expected no segments for empty input, got %d", len(got))
	}
}

func TestParseScript_LabeledTurns(t *testing.T) {
	text := `NARRATOR: Today we talk about deploys.
ALEX: Welcome to the show!
Glad you are here.
SAM: Thanks Alex.`

	segments := ParseScript(text)

	want := []Segment{
		{Speaker: "narrator", Text: "Today we talk about deploys."},
		{Speaker: "alex", Text: "Welcome to the show! Glad you are here."},
		{Speaker: "sam", Text: "Thanks Alex."},
	}
	if len(segments) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segments), segments)
	}
	for i := range want {
		if segments[i].Speaker != want[i].Speaker || segments[i].Text != want[i].Text {
			t.Errorf("segment %d = %+v, expected %+v", i, segments[i], want[i])
		}
	}
}

func TestParseScript_LeadingProseIsNarrated(t *testing.T) {
	text := "An intro line without a label.\nALEX: Hello.\nSAM: Hi."

	segments := ParseScript(text)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].Speaker != "narrator" || segments[0].Text != "An intro line without a label." {
		t.Errorf("unexpected leading segment: %+v", segments[0])
	}
}

func TestParseScript_UnlabeledAlternatesHosts(t *testing.T) {
	segments := ParseScript("First sentence here. Second one follows! Third wraps up?")

	want := []Segment{
		{Speaker: "alex", Text: "First sentence here."},
		{Speaker: "sam", Text: "Second one follows!"},
		{Speaker: "alex", Text: "Third wraps up?"},
	}
	if len(segments) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segments), segments)
	}
	for i := range want {
		if segments[i].Speaker != want[i].Speaker || segments[i].Text != want[i].Text {
			t.Errorf("segment %d = %+v, expected %+v", i, segments[i], want[i])
		}
	}
}

func TestParseScript_SingleTurnAlternates(t *testing.T) {
	// One labeled turn is not a conversation; the label is dropped and the
	// sentences are shared between the hosts.
	segments := ParseScript("ALEX: One turn only. With two sentences.")

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].Speaker != "alex" || segments[0].Text != "One turn only." {
		t.Errorf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Speaker != "sam" || segments[1].Text != "With two sentences." {
		t.Errorf("unexpected second segment: %+v", segments[1])
	}
}

func TestParseScript_Empty(t *testing.T) {
	if got := ParseScript(""); len(got) != 0 {
		t.Errorf("expected no segments for empty input, got %d", len(got))
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"three sentences", "One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"no terminator", "No terminator at all", []string{"No terminator at all"}},
		{"trailing space", "Trailing space. ", []string{"Trailing space."}},
		{"stacked punctuation", "Hi!? Ok.", []string{"Hi!?", "Ok."}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d pieces, got %d: %q", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("piece %d = %q, expected %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildQASegments(t *testing.T) {
	items := []QA{
		{Question: "What is the deploy process?", Answer: "We ship through CI."},
		{Question: "Who owns the pipeline?", Answer: "The platform team."},
	}

	segments := BuildQASegments(items)

	// Intro, two Q&A exchanges, outro.
	if len(segments) != 6 {
		t.Fatalf("expected 6 segments, got %d", len(segments))
	}
	if segments[0].Speaker != "alex" || !strings.Contains(segments[0].Text, "Welcome everyone") {
		t.Errorf("unexpected intro segment: %+v", segments[0])
	}
	if segments[1].Speaker != "alex" || !strings.Contains(segments[1].Text, "Question 1:") {
		t.Errorf("unexpected question segment: %+v", segments[1])
	}
	if segments[2].Speaker != "sam" || segments[2].Text != "We ship through CI." {
		t.Errorf("unexpected answer segment: %+v", segments[2])
	}
	if segments[3].Speaker != "alex" || !strings.Contains(segments[3].Text, "Question 2:") {
		t.Errorf("unexpected second question segment: %+v", segments[3])
	}
	last := segments[len(segments)-1]
	if last.Speaker != "alex" || !strings.Contains(last.Text, "Thanks everyone for listening") {
		t.Errorf("unexpected outro segment: %+v", last)
	}
}

func TestBuildQASegments_Empty(t *testing.T) {
	segments := BuildQASegments(nil)

	// Intro, minimal exchange, outro.
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}
	if segments[1].Speaker != "alex" || segments[2].Speaker != "sam" {
		t.Errorf("minimal exchange speakers wrong: %q then %q", segments[1].Speaker, segments[2].Speaker)
	}
}

func TestFormatQAScript(t *testing.T) {
	items := []QA{{Question: "How do we start?", Answer: "Read the runbook."}}
	got := FormatQAScript("Platform Onboarding", []string{"Runbook", "FAQ"}, items)

	for _, want := range []string{
		"Welcome to the Platform Onboarding onboarding episode.",
		"Runbook, FAQ",
		"Question 1: How do we start?",
		"Answer: Read the runbook.",
		"That concludes our overview of Platform Onboarding.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("script missing %q:\n%s", want, got)
		}
	}
}

func TestFormatQAScript_NoSources(t *testing.T) {
	got := FormatQAScript("Topic", nil, nil)
	if strings.Contains(got, "documentation pages") {
		t.Errorf("script should not mention source pages when none given:\n%s", got)
	}
}

func TestFormatScript(t *testing.T) {
	segments := []Segment{
		{Speaker: SpeakerAlex, Text: "So what changed this quarter?"},
		{Speaker: SpeakerSam, Text: "Mostly the deployment flow."},
	}
	got := FormatScript(segments)
	want := "ALEX: So what changed this quarter?\n\nSAM: Mostly the deployment flow."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if FormatScript(nil) != "" {
		t.Fatal("empty segments should render to an empty script")
	}
}

func TestFormatScriptRoundTrip(t *testing.T) {
	in := []Segment{
		{Speaker: SpeakerNarrator, Text: "A quick update from the team."},
		{Speaker: SpeakerAlex, Text: "What did we ship?"},
		{Speaker: SpeakerSam, Text: "The new ingest path."},
	}
	out := ParseScript(FormatScript(in))
	if len(out) != len(in) {
		t.Fatalf("expected %d segments back, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].Speaker != in[i].Speaker || out[i].Text != in[i].Text {
			t.Errorf("segment %d: got %s %q, want %s %q",
				i, out[i].Speaker, out[i].Text, in[i].Speaker, in[i].Text)
		}
	}
}
