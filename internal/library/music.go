package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func addArtist(q querier, a *Artist) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO artists (root_folder_id, name, musicbrainz_id, needs_review, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.RootFolderID, a.Name, a.MusicBrainzID, a.NeedsReview, now,
	)
	if err != nil {
		return fmt.Errorf("insert artist: %w", mapSQLiteError(err))
	}
	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.AddedAt = now
	return nil
}

// AddArtist inserts a new artist. Sets ID and AddedAt on the struct.
func (s *Store) AddArtist(a *Artist) error { return addArtist(s.db, a) }

// AddArtist inserts a new artist within a transaction.
func (t *Tx) AddArtist(a *Artist) error { return addArtist(t.tx, a) }

func getArtist(q querier, id int64) (*Artist, error) {
	a := &Artist{}
	err := q.QueryRow(`
		SELECT id, root_folder_id, name, musicbrainz_id, needs_review, added_at
		FROM artists WHERE id = ?`, id,
	).Scan(&a.ID, &a.RootFolderID, &a.Name, &a.MusicBrainzID, &a.NeedsReview, &a.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get artist %d: %w", id, mapSQLiteError(err))
	}
	return a, nil
}

// GetArtist retrieves an artist by ID.
// Returns ErrNotFound if the artist does not exist.
func (s *Store) GetArtist(id int64) (*Artist, error) { return getArtist(s.db, id) }

// GetArtistByName finds an artist by exact name within a root folder.
// Returns nil, nil when not found.
func (s *Store) GetArtistByName(rootFolderID int64, name string) (*Artist, error) {
	a := &Artist{}
	err := s.db.QueryRow(`
		SELECT id, root_folder_id, name, musicbrainz_id, needs_review, added_at
		FROM artists WHERE root_folder_id = ? AND name = ?`, rootFolderID, name,
	).Scan(&a.ID, &a.RootFolderID, &a.Name, &a.MusicBrainzID, &a.NeedsReview, &a.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artist by name: %w", err)
	}
	return a, nil
}

// ListArtists returns all artists in a root folder.
func (s *Store) ListArtists(rootFolderID int64) ([]*Artist, error) {
	rows, err := s.db.Query(`
		SELECT id, root_folder_id, name, musicbrainz_id, needs_review, added_at
		FROM artists WHERE root_folder_id = ? ORDER BY id`, rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Artist
	for rows.Next() {
		a := &Artist{}
		if err := rows.Scan(&a.ID, &a.RootFolderID, &a.Name, &a.MusicBrainzID, &a.NeedsReview, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func addAlbum(q querier, a *Album) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO albums (artist_id, title, year, release_group_id, monitored, needs_review, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ArtistID, a.Title, a.Year, a.ReleaseGroupID, a.Monitored, a.NeedsReview, now,
	)
	if err != nil {
		return fmt.Errorf("insert album: %w", mapSQLiteError(err))
	}
	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.AddedAt = now
	return nil
}

// AddAlbum inserts a new album. Sets ID and AddedAt on the struct.
func (s *Store) AddAlbum(a *Album) error { return addAlbum(s.db, a) }

// AddAlbum inserts a new album within a transaction.
func (t *Tx) AddAlbum(a *Album) error { return addAlbum(t.tx, a) }

func getAlbum(q querier, id int64) (*Album, error) {
	a := &Album{}
	err := q.QueryRow(`
		SELECT id, artist_id, title, year, release_group_id, monitored, needs_review, added_at
		FROM albums WHERE id = ?`, id,
	).Scan(&a.ID, &a.ArtistID, &a.Title, &a.Year, &a.ReleaseGroupID, &a.Monitored, &a.NeedsReview, &a.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get album %d: %w", id, mapSQLiteError(err))
	}
	return a, nil
}

// GetAlbum retrieves an album by ID.
// Returns ErrNotFound if the album does not exist.
func (s *Store) GetAlbum(id int64) (*Album, error) { return getAlbum(s.db, id) }

// GetAlbumByTitle finds an album by exact title (and year when year > 0)
// under an artist. Returns nil, nil when not found.
func (s *Store) GetAlbumByTitle(artistID int64, title string, year int) (*Album, error) {
	query := `
		SELECT id, artist_id, title, year, release_group_id, monitored, needs_review, added_at
		FROM albums WHERE artist_id = ? AND title = ?`
	args := []any{artistID, title}
	if year > 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}

	a := &Album{}
	err := s.db.QueryRow(query, args...).
		Scan(&a.ID, &a.ArtistID, &a.Title, &a.Year, &a.ReleaseGroupID, &a.Monitored, &a.NeedsReview, &a.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get album by title: %w", err)
	}
	return a, nil
}

// ListAlbums returns all albums under an artist.
func (s *Store) ListAlbums(artistID int64) ([]*Album, error) {
	rows, err := s.db.Query(`
		SELECT id, artist_id, title, year, release_group_id, monitored, needs_review, added_at
		FROM albums WHERE artist_id = ? ORDER BY id`, artistID)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Album
	for rows.Next() {
		a := &Album{}
		if err := rows.Scan(&a.ID, &a.ArtistID, &a.Title, &a.Year, &a.ReleaseGroupID, &a.Monitored, &a.NeedsReview, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func addTrack(q querier, t *Track) error {
	if t.DiscNumber == 0 {
		t.DiscNumber = 1
	}
	result, err := q.Exec(`
		INSERT INTO tracks (album_id, disc_number, track_number, title, has_file)
		VALUES (?, ?, ?, ?, ?)`,
		t.AlbumID, t.DiscNumber, t.TrackNumber, t.Title, t.HasFile,
	)
	if err != nil {
		return fmt.Errorf("insert track: %w", mapSQLiteError(err))
	}
	t.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	return nil
}

// AddTrack inserts a new track. Sets ID on the struct.
func (s *Store) AddTrack(t *Track) error { return addTrack(s.db, t) }

// AddTrack inserts a new track within a transaction.
func (t *Tx) AddTrack(tr *Track) error { return addTrack(t.tx, tr) }

// GetTrack retrieves a track by ID.
// Returns ErrNotFound if the track does not exist.
func (s *Store) GetTrack(id int64) (*Track, error) {
	t := &Track{}
	err := s.db.QueryRow(`
		SELECT id, album_id, disc_number, track_number, title, has_file
		FROM tracks WHERE id = ?`, id,
	).Scan(&t.ID, &t.AlbumID, &t.DiscNumber, &t.TrackNumber, &t.Title, &t.HasFile)
	if err != nil {
		return nil, fmt.Errorf("get track %d: %w", id, mapSQLiteError(err))
	}
	return t, nil
}

// ListTracks returns all tracks on an album ordered by disc then number.
func (s *Store) ListTracks(albumID int64) ([]*Track, error) {
	rows, err := s.db.Query(`
		SELECT id, album_id, disc_number, track_number, title, has_file
		FROM tracks WHERE album_id = ? ORDER BY disc_number, track_number`, albumID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Track
	for rows.Next() {
		t := &Track{}
		if err := rows.Scan(&t.ID, &t.AlbumID, &t.DiscNumber, &t.TrackNumber, &t.Title, &t.HasFile); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// SetTrackHasFile updates a track's has_file flag.
func (s *Store) SetTrackHasFile(id int64, hasFile bool) error {
	if _, err := s.db.Exec(`UPDATE tracks SET has_file = ? WHERE id = ?`, hasFile, id); err != nil {
		return fmt.Errorf("set track has_file: %w", mapSQLiteError(err))
	}
	return nil
}
