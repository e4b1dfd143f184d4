package storage

import (
	"context"

	"gorm.io/gorm"

	"convocast-go/internal/platform/errors"
)

// EpisodeRepository persists episode ledger entries.
type EpisodeRepository struct {
	db *gorm.DB
}

// NewEpisodeRepository creates a repository bound to the given database.
func NewEpisodeRepository(db *gorm.DB) *EpisodeRepository {
	return &EpisodeRepository{
		db: db,
	}
}

// Save inserts a new episode record.
func (r *EpisodeRepository) Save(ctx context.Context, record *EpisodeRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "episode.save", "failed to save episode", err)
	}
	return nil
}

// Update writes back changes to an existing episode record.
func (r *EpisodeRepository) Update(ctx context.Context, record *EpisodeRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "episode.update", "failed to update episode", err)
	}
	return nil
}

// FindBySlug looks up an episode by its filename slug.
func (r *EpisodeRepository) FindBySlug(ctx context.Context, slug string) (*EpisodeRecord, error) {
	var record EpisodeRecord
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.KindStorage, "episode.find_by_slug", "episode not found")
		}
		return nil, errors.Wrap(errors.KindStorage, "episode.find_by_slug", "failed to find episode", err)
	}
	return &record, nil
}

// ListRecent returns the newest episodes first, capped at limit.
func (r *EpisodeRepository) ListRecent(ctx context.Context, limit int) ([]EpisodeRecord, error) {
	var records []EpisodeRecord
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "episode.list_recent", "failed to list episodes", err)
	}
	return records, nil
}

// CountByStatus reports how many episodes sit in the given status.
func (r *EpisodeRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&EpisodeRecord{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, errors.Wrap(errors.KindStorage, "episode.count", "failed to count episodes", err)
	}
	return count, nil
}
