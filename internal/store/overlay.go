package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Overlay is a catalogued mask image. Width and Height of zero keep the
// image's native size.
type Overlay struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// OverlayRepository provides CRUD operations for overlays.
type OverlayRepository struct {
	db *sql.DB
}

// Overlays returns the overlay repository for this store.
func (s *Store) Overlays() *OverlayRepository {
	return &OverlayRepository{db: s.db}
}

// Create inserts a new overlay, assigning an ID when o.ID is empty.
func (r *OverlayRepository) Create(o *Overlay) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	o.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO overlays (id, name, path, width, height, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Path, o.Width, o.Height, o.CreatedAt,
	)
	return err
}

// GetByID retrieves an overlay by its ID.
func (r *OverlayRepository) GetByID(id string) (*Overlay, error) {
	o := &Overlay{}
	err := r.db.QueryRow(
		`SELECT id, name, path, width, height, created_at
		 FROM overlays WHERE id = ?`,
		id,
	).Scan(&o.ID, &o.Name, &o.Path, &o.Width, &o.Height, &o.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// List retrieves all overlays, oldest first.
func (r *OverlayRepository) List() ([]*Overlay, error) {
	rows, err := r.db.Query(
		`SELECT id, name, path, width, height, created_at
		 FROM overlays ORDER BY created_at, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overlays []*Overlay
	for rows.Next() {
		o := &Overlay{}
		if err := rows.Scan(&o.ID, &o.Name, &o.Path, &o.Width, &o.Height, &o.CreatedAt); err != nil {
			return nil, err
		}
		overlays = append(overlays, o)
	}

	return overlays, rows.Err()
}

// Delete removes an overlay by its ID.
func (r *OverlayRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM overlays WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
