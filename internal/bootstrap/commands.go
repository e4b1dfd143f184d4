package bootstrap

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"convocast-go/internal/domain/confluence"
	"convocast-go/internal/domain/content"
	"convocast-go/internal/domain/llm"
	"convocast-go/internal/domain/podcast"
	"convocast-go/internal/domain/voice"
	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
)

const usageText = `convocast turns Confluence page trees into podcast episodes.

Usage:
  convocast <command> [flags]

Commands:
  generate   Fetch pages, write scripts and synthesize episode audio
  voices     List the built-in voice profiles
  doctor     Check which engines and audio tools this host provides
  serve      Run the HTTP API for on-demand synthesis

Flags for generate:
  -page <id>       page ID to start from (default: configured root page)
  -output <dir>    directory for scripts and audio (default: configured)
  -max-pages <n>   cap on the number of pages to traverse
  -text-only       write scripts only, skip audio synthesis

Flags for serve:
  -port <n>        listen port (default: configured server port)
`

// Run dispatches one CLI invocation. The first argument selects the verb
// and the remainder is handed to that verb's flag set.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New(errors.KindConfig, "cli", "no command given")
	}

	switch args[0] {
	case "generate":
		return runGenerate(ctx, args[1:])
	case "voices":
		return runVoices(args[1:])
	case "doctor":
		return runDoctor(ctx, args[1:])
	case "serve":
		return runServe(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return errors.New(errors.KindConfig, "cli",
			fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

// flagError normalizes flag.Parse failures. -h makes the flag set print
// its own usage and is not an error.
func flagError(verb string, err error) error {
	if stderrors.Is(err, flag.ErrHelp) {
		return nil
	}
	return errors.Wrap(errors.KindConfig, verb, "invalid flags", err)
}

// runGenerate walks the page tree, turns every page group into a dialogue
// script and synthesizes one audio artifact per episode. With -text-only
// the audio stage is skipped and only scripts plus the summary are written.
func runGenerate(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("generate", flag.ContinueOnError)
	page := flags.String("page", "", "page ID to start from")
	output := flags.String("output", "", "directory for scripts and audio")
	maxPages := flags.Int("max-pages", 0, "cap on the number of pages to traverse")
	textOnly := flags.Bool("text-only", false, "write scripts only, skip audio synthesis")
	if err := flags.Parse(args); err != nil {
		return flagError("generate", err)
	}

	state, err := loadFull(ctx, func(cfg *config.Config) {
		if *output != "" {
			cfg.TTS.OutputDir = *output
		}
		if *maxPages > 0 {
			cfg.Confluence.MaxPages = *maxPages
		}
	})
	if err != nil {
		return err
	}
	defer state.Close()

	cfg := state.config
	logger := state.logger

	pageID := *page
	if pageID == "" {
		pageID = cfg.Confluence.RootPageID
	}
	if pageID == "" {
		return errors.New(errors.KindConfig, "generate",
			"no page ID: pass -page or set confluence.root_page_id")
	}

	wiki, err := confluence.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	pages, err := wiki.TraversePages(ctx, pageID)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return errors.New(errors.KindContent, "generate",
			fmt.Sprintf("no pages found under %s", pageID))
	}

	brain, err := llm.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	processor := content.NewProcessor(brain, true, logger)
	episodes, err := processor.ProcessPages(ctx, pages)
	if err != nil {
		return err
	}

	if err := state.generator.SaveScripts(episodes); err != nil {
		return err
	}

	if !*textOnly {
		batch := podcast.NewBatch(state.generator, state.records, logger)
		batch.RootPageID = pageID
		episodes = batch.Run(ctx, episodes)
	}

	summaryPath := filepath.Join(cfg.TTS.OutputDir, "podcast_summary.json")
	if err := podcast.WriteSummary(episodes, summaryPath); err != nil {
		return err
	}
	logger.InfoTag("boot", "generate finished: %d episodes, summary at %s",
		len(episodes), summaryPath)
	return nil
}

// runVoices prints the profile catalog. The registry is static, so this
// verb deliberately skips the init graph and works without a config file.
func runVoices(args []string) error {
	flags := flag.NewFlagSet("voices", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return flagError("voices", err)
	}

	registry := voice.NewRegistry()
	profiles := registry.All()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tENGINE\tVOICE\tLANGUAGE\tSPEED")
	for _, key := range registry.Names() {
		p := profiles[key]
		voiceID := p.Voice
		if voiceID == "" {
			voiceID = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			key, p.Name, p.Engine, voiceID, p.Language, p.Speed)
	}
	return tw.Flush()
}
