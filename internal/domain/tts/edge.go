package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"convocast-go/internal/domain/audio"
	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"

	"github.com/wujunwei928/edge-tts-go/edge_tts"
)

const (
	edgeTimeout = 120 * time.Second

	// The service rejects oversized requests; longer scripts are split on
	// sentence boundaries and the chunk artifacts merged afterwards.
	edgeMaxChars = 5000
)

func init() {
	Register(EngineEdge, func(cfg *config.Config, logger *logging.Logger) (Provider, error) {
		return &edgeProvider{
			combiner: audio.NewCombiner(cfg.Audio, logger),
			logger:   logger,
		}, nil
	})
}

// edgeProvider synthesizes through Microsoft's Edge TTS cloud service. No
// external binary is needed, but it is the only engine that requires
// network access, which keeps it last in every fallback order.
type edgeProvider struct {
	combiner *audio.Combiner
	logger   *logging.Logger
}

func (p *edgeProvider) Name() string { return EngineEdge }

// Available always reports ready: the client is an in-process library and
// network failures only show up once a request is made.
func (p *edgeProvider) Available() error { return nil }

func (p *edgeProvider) Synthesize(ctx context.Context, req SynthesisRequest) (string, error) {
	const op = "tts.edge"

	voiceID := req.Profile.Voice
	if voiceID == "" {
		voiceID = "en-US-AriaNeural"
	}
	out := nativePath(req.OutputPath, ".mp3")

	chunks := splitForSynthesis(req.Text, edgeMaxChars)
	if len(chunks) == 1 {
		data, err := p.synthesizeChunk(ctx, voiceID, chunks[0])
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return "", errors.Wrap(errors.KindUnknown, op, "write audio file", err)
		}
		return out, nil
	}

	p.logger.InfoTag("TTS", "edge: splitting %d chars into %d chunks", len(req.Text), len(chunks))

	base := strings.TrimSuffix(out, filepath.Ext(out))
	chunkPaths := make([]string, 0, len(chunks))
	defer func() {
		for _, chunkPath := range chunkPaths {
			os.Remove(chunkPath)
		}
	}()

	for i, chunk := range chunks {
		data, err := p.synthesizeChunk(ctx, voiceID, chunk)
		if err != nil {
			return "", err
		}
		chunkPath := fmt.Sprintf("%s_chunk_%03d.mp3", base, i)
		if err := os.WriteFile(chunkPath, data, 0644); err != nil {
			return "", errors.Wrap(errors.KindUnknown, op, "write chunk file", err)
		}
		chunkPaths = append(chunkPaths, chunkPath)
	}

	if err := p.combiner.Combine(ctx, chunkPaths, out); err != nil {
		return "", err
	}
	return out, nil
}

// synthesizeChunk runs one service call under the per-chunk timeout. The
// client library does not take a context, so the call runs in a goroutine
// that is abandoned on timeout.
func (p *edgeProvider) synthesizeChunk(ctx context.Context, voiceID, text string) ([]byte, error) {
	const op = "tts.edge"
	ctx, cancel := context.WithTimeout(ctx, edgeTimeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		comm, err := edge_tts.NewCommunicate(text, edge_tts.SetVoice(voiceID))
		if err != nil {
			done <- result{nil, fmt.Errorf("create communicator: %w", err)}
			return
		}
		data, err := comm.Stream()
		done <- result{data, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, errors.Wrap(errors.KindUnknown, op, "edge synthesis failed", r.err)
		}
		if len(r.data) == 0 {
			return nil, errors.New(errors.KindEmptyOutput, op, "edge returned no audio data")
		}
		return r.data, nil
	case <-ctx.Done():
		return nil, errors.Wrap(errors.KindTimeout, op,
			fmt.Sprintf("edge synthesis timed out after %s", edgeTimeout), ctx.Err())
	}
}

// splitForSynthesis cuts text into chunks of at most max bytes, preferring
// sentence boundaries and falling back to spaces inside oversized
// sentences.
func splitForSynthesis(text string, max int) []string {
	if len(text) <= max {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range splitSentences(text) {
		if len(sentence) > max {
			flush()
			chunks = append(chunks, splitAtSpaces(sentence, max)...)
			continue
		}
		if current.Len() > 0 && current.Len()+len(sentence)+1 > max {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	flush()
	return chunks
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\n' {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// splitAtSpaces hard-splits a single oversized sentence, cutting at the
// last space inside the limit or, failing that, at a rune boundary.
func splitAtSpaces(s string, max int) []string {
	var out []string
	for len(s) > max {
		// max+1 so a space sitting exactly on the limit still counts.
		cut := strings.LastIndexByte(s[:max+1], ' ')
		if cut <= 0 {
			cut = max
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
		}
		if piece := strings.TrimSpace(s[:cut]); piece != "" {
			out = append(out, piece)
		}
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
