package migrations

import (
	"gorm.io/gorm"
)

// Migration001Initial creates the episode ledger schema.
type Migration001Initial struct{}

func (m *Migration001Initial) Version() string {
	return "001_initial"
}

func (m *Migration001Initial) Description() string {
	return "Create episode ledger table and indexes"
}

func (m *Migration001Initial) Up(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug VARCHAR(255) NOT NULL UNIQUE,
			title VARCHAR(255) NOT NULL,
			source_page_id VARCHAR(255),
			status VARCHAR(32) NOT NULL,
			engine VARCHAR(32),
			output_path TEXT,
			duration_seconds REAL,
			size_bytes INTEGER,
			segment_count INTEGER,
			attempts JSON,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_episodes_status ON episodes(status)`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_episodes_source_page_id ON episodes(source_page_id)`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_episodes_created_at ON episodes(created_at)`).Error; err != nil {
		return err
	}

	return nil
}

func (m *Migration001Initial) Down(db *gorm.DB) error {
	if err := db.Exec(`DROP TABLE IF EXISTS episodes`).Error; err != nil {
		return err
	}

	return nil
}
