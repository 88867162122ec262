package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Class is one classifier output.
type Class struct {
	ID        string
	Index     int
	Name      string
	Samples   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Landmark is one point of a class template.
type Landmark struct {
	Index int
	X     float64
	Y     float64
	Z     float64
}

// ClassRepository provides CRUD operations for classes and their templates.
type ClassRepository struct {
	db *sql.DB
}

// Classes returns the class repository for this store.
func (s *Store) Classes() *ClassRepository {
	return &ClassRepository{db: s.db}
}

// Create inserts c, assigning a new ID when c.ID is empty.
func (r *ClassRepository) Create(c *Class) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO classes (id, class_index, name, samples, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Index, c.Name, c.Samples, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

const classColumns = `id, class_index, name, samples, created_at, updated_at`

func scanClass(row interface{ Scan(...any) error }) (*Class, error) {
	c := &Class{}
	if err := row.Scan(&c.ID, &c.Index, &c.Name, &c.Samples, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(id string) (*Class, error) {
	return scanClass(r.db.QueryRow(`SELECT `+classColumns+` FROM classes WHERE id = ?`, id))
}

// GetByIndex retrieves a class by its classifier output index.
func (r *ClassRepository) GetByIndex(index int) (*Class, error) {
	return scanClass(r.db.QueryRow(`SELECT `+classColumns+` FROM classes WHERE class_index = ?`, index))
}

// List returns every class ordered by index.
func (r *ClassRepository) List() ([]*Class, error) {
	rows, err := r.db.Query(`SELECT ` + classColumns + ` FROM classes ORDER BY class_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

// Update renames c and records its sample count.
func (r *ClassRepository) Update(c *Class) error {
	c.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE classes SET name = ?, samples = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Samples, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// Delete removes a class together with its template and samples.
func (r *ClassRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM classes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// SaveLandmarks replaces the template of class id.
func (r *ClassRepository) SaveLandmarks(id string, landmarks []Landmark) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM class_landmarks WHERE class_id = ?`, id); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO class_landmarks (class_id, landmark_index, x, y, z) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, lm := range landmarks {
		if _, err := stmt.Exec(id, lm.Index, lm.X, lm.Y, lm.Z); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE classes SET updated_at = ? WHERE id = ?`, time.Now(), id); err != nil {
		return err
	}

	return tx.Commit()
}

// GetLandmarks returns the template of class id ordered by landmark index.
func (r *ClassRepository) GetLandmarks(id string) ([]Landmark, error) {
	rows, err := r.db.Query(
		`SELECT landmark_index, x, y, z FROM class_landmarks
		 WHERE class_id = ? ORDER BY landmark_index`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var landmarks []Landmark
	for rows.Next() {
		var lm Landmark
		if err := rows.Scan(&lm.Index, &lm.X, &lm.Y, &lm.Z); err != nil {
			return nil, err
		}
		landmarks = append(landmarks, lm)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return landmarks, nil
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
