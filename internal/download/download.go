// Package download tracks acquisitions handed to external download clients.
//
// The clients themselves are black boxes; this package only persists what
// they report: an output path and a status. The import orchestrators consume
// completed records from here.
package download

import (
	"database/sql"
	"fmt"
	"time"
)

// Status tracks download state.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusImporting   Status = "importing"
	StatusImported    Status = "imported"
)

// Download represents one in-flight or completed acquisition. At most one of
// AlbumID/EpisodeID/MovieID/BookID is set; all nil means the download was
// grabbed without a library target and must go through path-based inference.
type Download struct {
	ID               int64
	OutputPath       string // as reported by the client; may need remote path mapping
	Status           Status
	ReleaseName      string
	AlbumID          *int64
	EpisodeID        *int64
	MovieID          *int64
	BookID           *int64
	AddedAt          time.Time
	LastTransitionAt time.Time
}

// Store persists download records.
type Store struct {
	db *sql.DB
}

// NewStore creates a download store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const downloadColumns = `id, output_path, status, release_name, album_id, episode_id, movie_id, book_id, added_at, last_transition_at`

// Add records a new download. Sets ID and timestamps on the struct.
func (s *Store) Add(d *Download) error {
	if d.Status == "" {
		d.Status = StatusQueued
	}
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO downloads (output_path, status, release_name, album_id, episode_id, movie_id, book_id, added_at, last_transition_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.OutputPath, d.Status, d.ReleaseName, d.AlbumID, d.EpisodeID, d.MovieID, d.BookID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert download: %w", err)
	}
	d.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	d.AddedAt = now
	d.LastTransitionAt = now
	return nil
}

// Get retrieves a download by ID.
// Returns ErrNotFound if the download does not exist.
func (s *Store) Get(id int64) (*Download, error) {
	d := &Download{}
	err := s.db.QueryRow(`SELECT `+downloadColumns+` FROM downloads WHERE id = ?`, id).
		Scan(&d.ID, &d.OutputPath, &d.Status, &d.ReleaseName,
			&d.AlbumID, &d.EpisodeID, &d.MovieID, &d.BookID, &d.AddedAt, &d.LastTransitionAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get download %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get download %d: %w", id, err)
	}
	return d, nil
}

// Transition moves a download to a new status, enforcing the state machine.
func (s *Store) Transition(d *Download, to Status) error {
	if !d.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
	}
	now := time.Now()
	if _, err := s.db.Exec(`UPDATE downloads SET status = ?, last_transition_at = ? WHERE id = ?`,
		to, now, d.ID); err != nil {
		return fmt.Errorf("update download status: %w", err)
	}
	d.Status = to
	d.LastTransitionAt = now
	return nil
}

// SetOutputPath records the path the download client reported.
func (s *Store) SetOutputPath(d *Download, path string) error {
	if _, err := s.db.Exec(`UPDATE downloads SET output_path = ? WHERE id = ?`, path, d.ID); err != nil {
		return fmt.Errorf("set output path: %w", err)
	}
	d.OutputPath = path
	return nil
}

// ListByStatus returns downloads in the given status, oldest first.
func (s *Store) ListByStatus(status Status) ([]*Download, error) {
	rows, err := s.db.Query(`SELECT `+downloadColumns+` FROM downloads WHERE status = ? ORDER BY added_at`, status)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Download
	for rows.Next() {
		d := &Download{}
		if err := rows.Scan(&d.ID, &d.OutputPath, &d.Status, &d.ReleaseName,
			&d.AlbumID, &d.EpisodeID, &d.MovieID, &d.BookID, &d.AddedAt, &d.LastTransitionAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}
