package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Sample is a raw recorded pose kept for retraining.
type Sample struct {
	ID          int64           `json:"id"`
	ClassID     string          `json:"class_id"`
	SampleIndex int             `json:"sample_index"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SampleRepository stores raw samples per class.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Append adds samples after the existing ones for classID and updates the
// class sample count. It returns the new total.
func (r *SampleRepository) Append(classID string, samples []json.RawMessage) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM class_samples WHERE class_id = ?`, classID).Scan(&existing); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO class_samples (class_id, sample_index, data) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, data := range samples {
		if _, err := stmt.Exec(classID, existing+i, string(data)); err != nil {
			return 0, err
		}
	}

	total := existing + len(samples)
	result, err := tx.Exec(`UPDATE classes SET samples = ?, updated_at = ? WHERE id = ?`,
		total, time.Now(), classID)
	if err != nil {
		return 0, err
	}
	if err := expectOneRow(result); err != nil {
		return 0, err
	}

	return total, tx.Commit()
}

// GetByClassID retrieves all samples for a class in recording order.
func (r *SampleRepository) GetByClassID(classID string) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, class_id, sample_index, data, created_at
		 FROM class_samples
		 WHERE class_id = ?
		 ORDER BY sample_index`,
		classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		var data string
		if err := rows.Scan(&s.ID, &s.ClassID, &s.SampleIndex, &data, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Data = json.RawMessage(data)
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// Data returns just the raw payloads of samples.
func Data(samples []Sample) []json.RawMessage {
	out := make([]json.RawMessage, len(samples))
	for i, s := range samples {
		out[i] = s.Data
	}
	return out
}

// DeleteByClassID removes all samples for a class.
func (r *SampleRepository) DeleteByClassID(classID string) error {
	_, err := r.db.Exec(`DELETE FROM class_samples WHERE class_id = ?`, classID)
	return err
}
