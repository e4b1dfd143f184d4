package podcast

import (
	"context"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	"convocast-go/internal/domain/content"
	"convocast-go/internal/domain/eventbus"
	"convocast-go/internal/platform/logging"
	"convocast-go/internal/platform/storage"
)

// EpisodeGenerator is the slice of the generator the batch runner needs.
type EpisodeGenerator interface {
	GenerateEpisode(ctx context.Context, episode *content.Episode) (*Result, error)
}

// Batch runs audio generation over a whole episode set with per-episode
// failure isolation: a failed episode is recorded and skipped while the
// rest keep going.
type Batch struct {
	gen     EpisodeGenerator
	records *storage.EpisodeRepository
	logger  *logging.Logger

	// RootPageID, when set, is stamped on every ledger row of the run.
	RootPageID string
}

// NewBatch wires the runner. records may be nil when no ledger is
// configured.
func NewBatch(gen EpisodeGenerator, records *storage.EpisodeRepository, logger *logging.Logger) *Batch {
	return &Batch{gen: gen, records: records, logger: logger}
}

// Run generates audio for every episode and returns the set with audio
// paths filled in where generation succeeded. Cancellation stops the run
// after the episode in flight; untouched episodes come back unchanged.
func (b *Batch) Run(ctx context.Context, episodes []content.Episode) []content.Episode {
	results := make([]content.Episode, 0, len(episodes))

	for i := range episodes {
		episode := episodes[i]
		progress := eventbus.EpisodeEventData{Title: episode.Title, Index: i + 1, Total: len(episodes)}

		b.logger.InfoTag("AUDIO", "generating audio for %q", episode.Title)
		eventbus.Publish(eventbus.EventEpisodeStarted, progress)
		record := b.startRecord(ctx, &episode)

		result, err := b.gen.GenerateEpisode(ctx, &episode)
		if err != nil {
			b.logger.WarnTag("AUDIO", "skipping audio generation for %q: %v", episode.Title, err)
			// The ledger close must survive cancellation of the run.
			b.finishRecord(context.WithoutCancel(ctx), record, result, err)
			progress.Error = err.Error()
			eventbus.Publish(eventbus.EventEpisodeFailed, progress)
			results = append(results, episode)

			if ctx.Err() != nil {
				results = append(results, episodes[i+1:]...)
				return results
			}
			continue
		}

		episode.AudioPath = result.OutputPath
		b.finishRecord(ctx, record, result, nil)
		progress.AudioPath = result.OutputPath
		eventbus.Publish(eventbus.EventEpisodeCompleted, progress)
		results = append(results, episode)
	}

	return results
}

// startRecord opens the ledger row for an episode run, reusing the row
// left by a previous run of the same episode.
func (b *Batch) startRecord(ctx context.Context, episode *content.Episode) *storage.EpisodeRecord {
	if b.records == nil {
		return nil
	}

	slug := Slug(episode.Title)
	record, err := b.records.FindBySlug(ctx, slug)
	if err != nil {
		record = &storage.EpisodeRecord{Slug: slug, Title: episode.Title}
	}
	record.SourcePageID = b.RootPageID
	record.Status = storage.EpisodeStatusPending
	record.SegmentCount = len(episode.Segments)
	record.Engine = ""
	record.OutputPath = ""
	record.DurationSeconds = 0
	record.SizeBytes = 0
	record.Attempts = nil

	if record.ID == 0 {
		err = b.records.Save(ctx, record)
	} else {
		err = b.records.Update(ctx, record)
	}
	if err != nil {
		b.logger.WarnTag("STORE", "cannot open ledger row for %q: %v", episode.Title, err)
		return nil
	}
	return record
}

// finishRecord closes the ledger row with the outcome of the run.
func (b *Batch) finishRecord(ctx context.Context, record *storage.EpisodeRecord, result *Result, genErr error) {
	if b.records == nil || record == nil {
		return
	}

	if result != nil {
		record.Engine = result.Engine
		record.OutputPath = result.OutputPath
		record.DurationSeconds = result.DurationSeconds
		record.SizeBytes = result.SizeBytes
		if result.SegmentCount > 0 {
			record.SegmentCount = result.SegmentCount
		}
		if len(result.Attempts) > 0 {
			if payload, err := sonic.Marshal(result.Attempts); err == nil {
				record.Attempts = datatypes.JSON(payload)
			}
		}
	}

	record.Status = storage.EpisodeStatusCompleted
	if genErr != nil {
		record.Status = storage.EpisodeStatusFailed
		record.OutputPath = ""
	}

	if err := b.records.Update(ctx, record); err != nil {
		b.logger.WarnTag("STORE", "cannot close ledger row for %q: %v", record.Title, err)
	}
}
