package tts

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"terminal punctuation",
			"Hello world. How are you? Great!",
			[]string{"Hello world.", "How are you?", "Great!"},
		},
		{
			"decimal point is not a boundary",
			"Pi is 3.14 roughly. True.",
			[]string{"Pi is 3.14 roughly.", "True."},
		},
		{
			"unterminated tail",
			"First. and then some",
			[]string{"First.", "and then some"},
		},
		{
			"single sentence",
			"Just one.",
			[]string{"Just one."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitSentences(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSplitForSynthesis(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		chunks := splitForSynthesis("short enough", 100)
		if len(chunks) != 1 || chunks[0] != "short enough" {
			t.Fatalf("expected single untouched chunk, got %q", chunks)
		}
	})

	t.Run("splits on sentence boundaries", func(t *testing.T) {
		text := "One two three. Four five six. Seven eight nine."
		chunks := splitForSynthesis(text, 20)
		if len(chunks) != 3 {
			t.Fatalf("expected 3 chunks, got %q", chunks)
		}
		for _, c := range chunks {
			if len(c) > 20 {
				t.Fatalf("chunk %q exceeds limit", c)
			}
		}
	})

	t.Run("packs sentences up to the limit", func(t *testing.T) {
		text := "Aa bb. Cc dd. Ee ff."
		chunks := splitForSynthesis(text, 15)
		want := []string{"Aa bb. Cc dd.", "Ee ff."}
		if !reflect.DeepEqual(chunks, want) {
			t.Fatalf("expected %q, got %q", want, chunks)
		}
	})

	t.Run("oversized sentence splits at spaces", func(t *testing.T) {
		text := strings.Repeat("word ", 40) + "end."
		chunks := splitForSynthesis(text, 50)
		for _, c := range chunks {
			if len(c) > 50 {
				t.Fatalf("chunk %q exceeds limit", c)
			}
		}
	})

	t.Run("no words are lost", func(t *testing.T) {
		text := "Alpha bravo charlie. Delta echo? Foxtrot golf hotel india juliett."
		chunks := splitForSynthesis(text, 25)
		joined := strings.Fields(strings.Join(chunks, " "))
		original := strings.Fields(text)
		if !reflect.DeepEqual(joined, original) {
			t.Fatalf("words changed across split: %q vs %q", joined, original)
		}
	})
}

func TestSplitAtSpaces(t *testing.T) {
	t.Run("cuts at spaces", func(t *testing.T) {
		got := splitAtSpaces("aaa bbb ccc ddd", 7)
		want := []string{"aaa bbb", "ccc ddd"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("unbroken run cuts hard", func(t *testing.T) {
		got := splitAtSpaces(strings.Repeat("x", 25), 10)
		if len(got) != 3 {
			t.Fatalf("expected 3 pieces, got %q", got)
		}
		for _, piece := range got[:2] {
			if len(piece) != 10 {
				t.Fatalf("expected 10-byte pieces, got %q", got)
			}
		}
	})
}
