// Package content turns fetched documentation pages into podcast
// episodes: pages are grouped by topic, each group is converted to Q&A
// material through the llm collaborator, and every episode leaves with an
// ordered list of speaker segments ready for synthesis.
package content

import (
	"context"
	"fmt"
	"strings"

	"convocast-go/internal/domain/confluence"
	"convocast-go/internal/domain/llm"
	"convocast-go/internal/domain/script"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

// Episode is one generated podcast episode. AudioPath is filled in by the
// audio stage after synthesis.
type Episode struct {
	Title          string           `json:"title"`
	QA             []script.QA      `json:"qa"`
	SourcePages    []string         `json:"source_pages,omitempty"`
	DialogueScript string           `json:"dialogue_script,omitempty"`
	Segments       []script.Segment `json:"segments"`
	Style          script.Style     `json:"style"`
	AudioPath      string           `json:"audio_path,omitempty"`
}

// CompletionClient is the slice of the llm client the processor needs.
type CompletionClient interface {
	ConvertGroupToQA(ctx context.Context, combinedContent, groupName string, pageTitles []string) (string, error)
	ConvertQAToConversation(ctx context.Context, items []script.QA, episodeTitle string, style script.Style) (string, error)
}

// Processor builds episodes from page trees.
type Processor struct {
	llm      CompletionClient
	dialogue bool
	logger   *logging.Logger
}

// NewProcessor returns a processor. With dialogue enabled each episode is
// rewritten as a two host conversation; otherwise episodes use the plain
// question/answer segment structure.
func NewProcessor(client CompletionClient, dialogue bool, logger *logging.Logger) *Processor {
	return &Processor{llm: client, dialogue: dialogue, logger: logger}
}

// ProcessPages filters, groups and converts pages into episodes. Groups
// that fail conversion are logged and skipped; an error is returned only
// when nothing usable comes out at all.
func (p *Processor) ProcessPages(ctx context.Context, pages []confluence.Page) ([]Episode, error) {
	op := "content.process"

	var valid []confluence.Page
	for _, page := range pages {
		if page.HasContent() {
			valid = append(valid, page)
		}
	}
	p.logger.InfoTag("CONTENT", "%d of %d pages have usable content", len(valid), len(pages))

	if len(valid) == 0 {
		return nil, errors.New(errors.KindContent, op, "no pages with usable content")
	}

	groups := groupPages(valid)
	p.logger.InfoTag("CONTENT", "created %d content groups", len(groups))

	var episodes []Episode
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.KindTimeout, op, "processing canceled", err)
		}

		episode, err := p.processGroup(ctx, group)
		if err != nil {
			p.logger.ErrorTag("CONTENT", "group %q failed: %v", group.Name, err)
			continue
		}
		episodes = append(episodes, *episode)
		p.logger.InfoTag("CONTENT", "episode %q ready, %d q&a pairs, %d segments",
			episode.Title, len(episode.QA), len(episode.Segments))
	}

	if len(episodes) == 0 {
		return nil, errors.New(errors.KindContent, op, "no episodes produced")
	}
	return episodes, nil
}

func (p *Processor) processGroup(ctx context.Context, group PageGroup) (*Episode, error) {
	op := "content.group"

	titles := make([]string, 0, len(group.Pages))
	for _, page := range group.Pages {
		titles = append(titles, page.Title)
	}

	var items []script.QA
	combined := strings.TrimSpace(group.Combined)
	if len(combined) < 30 {
		// Too little material to be worth a model call.
		items = []script.QA{{
			Question: fmt.Sprintf("What can you tell me about %s?", strings.ToLower(group.Name)),
			Answer:   fmt.Sprintf("Based on the documentation in %s: %s", strings.Join(titles, ", "), combined),
		}}
	} else {
		response, err := p.llm.ConvertGroupToQA(ctx, group.Combined, group.Name, titles)
		if err != nil {
			return nil, err
		}
		items = llm.ParseQAResponse(response)
	}

	if len(items) == 0 {
		return nil, errors.New(errors.KindContent, op, "no q&a content extracted")
	}

	episode := &Episode{
		Title:       group.Name,
		QA:          items,
		SourcePages: titles,
		Style:       script.StyleInterview,
	}
	p.attachSegments(ctx, episode)
	return episode, nil
}

// attachSegments fills in the speaker segments, preferring a generated
// dialogue script and falling back to the plain Q&A structure whenever
// generation or parsing comes back empty.
func (p *Processor) attachSegments(ctx context.Context, episode *Episode) {
	if p.dialogue {
		dialogue, err := p.llm.ConvertQAToConversation(ctx, episode.QA, episode.Title, episode.Style)
		if err != nil {
			p.logger.WarnTag("CONTENT", "dialogue generation for %q failed: %v, using plain q&a", episode.Title, err)
		} else if segments := script.ParseDialogue(dialogue); len(segments) > 0 {
			episode.DialogueScript = dialogue
			episode.Segments = segments
			return
		} else {
			p.logger.WarnTag("CONTENT", "dialogue for %q had no speaker lines, using plain q&a", episode.Title)
		}
	}

	episode.Segments = script.BuildQASegments(episode.QA)
}
