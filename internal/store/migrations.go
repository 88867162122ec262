package store

import "fmt"

var tables = []string{"classes", "class_landmarks", "class_samples", "settings"}

func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per classifier output index.
		`CREATE TABLE IF NOT EXISTS classes (
			id TEXT PRIMARY KEY,
			class_index INTEGER NOT NULL UNIQUE CHECK(class_index >= 0),
			name TEXT NOT NULL,
			samples INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Averaged normalized template, 21 rows per class.
		`CREATE TABLE IF NOT EXISTS class_landmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			class_id TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
			landmark_index INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			UNIQUE(class_id, landmark_index)
		)`,

		// Raw recorded samples, kept so templates can be retrained.
		`CREATE TABLE IF NOT EXISTS class_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			class_id TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
			sample_index INTEGER NOT NULL,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_class_landmarks_class_id ON class_landmarks(class_id)`,
		`CREATE INDEX IF NOT EXISTS idx_class_samples_class_id ON class_samples(class_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// checkSchema verifies a read-only artifact has every table.
func (s *Store) checkSchema() error {
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			return fmt.Errorf("missing table %s: %w", table, err)
		}
	}
	return nil
}
