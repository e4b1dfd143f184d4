package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"convocast-go/internal/platform/storage/migrations"
)

// Global database instance shared by the episode ledger.
var db *gorm.DB

// Init opens the SQLite episode ledger and runs pending migrations.
func Init(dataDir, dbFile string) error {
	if db != nil {
		return nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	var err error
	db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&EpisodeRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	migrationManager := NewMigrationManager(db)
	migrationManager.AddMigration(&migrations.Migration001Initial{})

	if err := migrationManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// GetDB returns the global database instance.
func GetDB() *gorm.DB {
	if db == nil {
		panic("database not initialized, call Init() first")
	}
	return db
}

// Episode statuses recorded in the ledger.
const (
	EpisodeStatusPending   = "pending"
	EpisodeStatusCompleted = "completed"
	EpisodeStatusFailed    = "failed"
)

// EpisodeRecord is one generated episode in the ledger. Attempts carries the
// per-engine synthesis history as JSON so failed runs stay inspectable.
type EpisodeRecord struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Slug            string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Title           string         `gorm:"not null" json:"title"`
	SourcePageID    string         `gorm:"index" json:"source_page_id,omitempty"`
	Status          string         `gorm:"index;not null" json:"status"`
	Engine          string         `json:"engine,omitempty"`
	OutputPath      string         `json:"output_path,omitempty"`
	DurationSeconds float64        `json:"duration_seconds,omitempty"`
	SizeBytes       int64          `json:"size_bytes,omitempty"`
	SegmentCount    int            `json:"segment_count,omitempty"`
	Attempts        datatypes.JSON `json:"attempts,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName pins the ledger table name.
func (EpisodeRecord) TableName() string {
	return "episodes"
}
