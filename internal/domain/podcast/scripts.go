package podcast

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"convocast-go/internal/domain/content"
	"convocast-go/internal/domain/script"
	"convocast-go/internal/platform/errors"
)

// EpisodeScript renders the text an episode speaks: the dialogue script
// when one was written, otherwise the narrated question and answer form.
func EpisodeScript(episode *content.Episode) string {
	if episode.DialogueScript != "" && len(episode.Segments) > 0 {
		return episode.DialogueScript
	}
	return script.FormatQAScript(episode.Title, episode.SourcePages, episode.QA)
}

// SaveScripts writes each episode's script under <output>/scripts: a plain
// .txt of the spoken text and, for conversational episodes, a .json with
// the structured segments.
func (g *Generator) SaveScripts(episodes []content.Episode) error {
	const op = "podcast.scripts"

	dir := filepath.Join(g.outputDir, "scripts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.KindStorage, op, "cannot create scripts directory", err)
	}

	for i := range episodes {
		episode := &episodes[i]
		base := strings.ReplaceAll(episode.Title, " ", "-")

		txt := filepath.Join(dir, base+".txt")
		if err := os.WriteFile(txt, []byte(EpisodeScript(episode)), 0644); err != nil {
			return errors.Wrap(errors.KindStorage, op, "cannot write script file", err)
		}
		g.logger.InfoTag("CONTENT", "script saved: %s", txt)

		if len(episode.Segments) == 0 {
			continue
		}
		payload, err := sonic.MarshalIndent(episode.Segments, "", "  ")
		if err != nil {
			return errors.Wrap(errors.KindStorage, op, "cannot encode segments", err)
		}
		if err := os.WriteFile(filepath.Join(dir, base+".json"), payload, 0644); err != nil {
			return errors.Wrap(errors.KindStorage, op, "cannot write segments file", err)
		}
	}
	return nil
}

// WriteSummary persists the final episode set, audio paths included, as
// pretty-printed JSON.
func WriteSummary(episodes []content.Episode, path string) error {
	const op = "podcast.summary"

	payload, err := sonic.MarshalIndent(episodes, "", "  ")
	if err != nil {
		return errors.Wrap(errors.KindStorage, op, "cannot encode summary", err)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return errors.Wrap(errors.KindStorage, op, "cannot write summary", err)
	}
	return nil
}
