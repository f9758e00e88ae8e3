package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const fileColumns = `id, root_folder_id, track_id, episode_id, movie_id, book_id,
	relative_path, size_bytes, quality, codec, bitrate, sample_rate, channels, bit_depth, date_added`

func scanFile(row interface{ Scan(...any) error }) (*MediaFile, error) {
	f := &MediaFile{}
	err := row.Scan(&f.ID, &f.RootFolderID, &f.TrackID, &f.EpisodeID, &f.MovieID, &f.BookID,
		&f.RelativePath, &f.SizeBytes, &f.Quality,
		&f.MediaInfo.Codec, &f.MediaInfo.Bitrate, &f.MediaInfo.SampleRate,
		&f.MediaInfo.Channels, &f.MediaInfo.BitDepth, &f.DateAdded)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// UpsertFile replaces the file record for the entity the file belongs to.
// One active file per track/episode/movie/book: an existing row for the same
// entity (or the same path) is deleted before the insert.
func (s *Store) UpsertFile(f *MediaFile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Clear any stale row for this entity and any row already claiming the
	// destination path.
	switch {
	case f.TrackID != nil:
		_, err = tx.Exec(`DELETE FROM media_files WHERE track_id = ?`, *f.TrackID)
	case f.EpisodeID != nil:
		_, err = tx.Exec(`DELETE FROM media_files WHERE episode_id = ?`, *f.EpisodeID)
	case f.MovieID != nil:
		_, err = tx.Exec(`DELETE FROM media_files WHERE movie_id = ?`, *f.MovieID)
	case f.BookID != nil:
		_, err = tx.Exec(`DELETE FROM media_files WHERE book_id = ?`, *f.BookID)
	default:
		return fmt.Errorf("upsert file: no entity reference set")
	}
	if err != nil {
		return fmt.Errorf("clear stale file record: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM media_files WHERE root_folder_id = ? AND relative_path = ?`,
		f.RootFolderID, f.RelativePath); err != nil {
		return fmt.Errorf("clear path conflict: %w", err)
	}

	now := time.Now()
	result, err := tx.Exec(`
		INSERT INTO media_files (root_folder_id, track_id, episode_id, movie_id, book_id,
			relative_path, size_bytes, quality, codec, bitrate, sample_rate, channels, bit_depth, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.RootFolderID, f.TrackID, f.EpisodeID, f.MovieID, f.BookID,
		f.RelativePath, f.SizeBytes, f.Quality,
		f.MediaInfo.Codec, f.MediaInfo.Bitrate, f.MediaInfo.SampleRate,
		f.MediaInfo.Channels, f.MediaInfo.BitDepth, now,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", mapSQLiteError(err))
	}
	f.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	f.DateAdded = now
	return tx.Commit()
}

func (s *Store) getFileBy(column string, id int64) (*MediaFile, error) {
	f, err := scanFile(s.db.QueryRow(
		`SELECT `+fileColumns+` FROM media_files WHERE `+column+` = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get file by %s: %w", column, err)
	}
	return f, nil
}

// GetFileByTrack returns the active file for a track, or nil, nil.
func (s *Store) GetFileByTrack(trackID int64) (*MediaFile, error) {
	return s.getFileBy("track_id", trackID)
}

// GetFileByEpisode returns the active file for an episode, or nil, nil.
func (s *Store) GetFileByEpisode(episodeID int64) (*MediaFile, error) {
	return s.getFileBy("episode_id", episodeID)
}

// GetFileByMovie returns the active file for a movie, or nil, nil.
func (s *Store) GetFileByMovie(movieID int64) (*MediaFile, error) {
	return s.getFileBy("movie_id", movieID)
}

// GetFileByBook returns the active file for a book, or nil, nil.
func (s *Store) GetFileByBook(bookID int64) (*MediaFile, error) {
	return s.getFileBy("book_id", bookID)
}

// GetFileByPath returns the file record at a relative path within a root
// folder, or nil, nil.
func (s *Store) GetFileByPath(rootFolderID int64, relativePath string) (*MediaFile, error) {
	f, err := scanFile(s.db.QueryRow(
		`SELECT `+fileColumns+` FROM media_files WHERE root_folder_id = ? AND relative_path = ?`,
		rootFolderID, relativePath))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get file by path: %w", err)
	}
	return f, nil
}

// UpdateFileSize updates the size and media info of an existing file record.
// Used by the scanner when a file changed in place.
func (s *Store) UpdateFileSize(id int64, sizeBytes int64, quality string, info MediaInfo) error {
	_, err := s.db.Exec(`
		UPDATE media_files
		SET size_bytes = ?, quality = ?, codec = ?, bitrate = ?, sample_rate = ?, channels = ?, bit_depth = ?
		WHERE id = ?`,
		sizeBytes, quality, info.Codec, info.Bitrate, info.SampleRate, info.Channels, info.BitDepth, id)
	if err != nil {
		return fmt.Errorf("update file size: %w", mapSQLiteError(err))
	}
	return nil
}

// DeleteFile removes a file record.
func (s *Store) DeleteFile(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM media_files WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete file: %w", mapSQLiteError(err))
	}
	return nil
}

// CountFiles returns the number of file records in a root folder.
func (s *Store) CountFiles(rootFolderID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM media_files WHERE root_folder_id = ?`, rootFolderID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return n, nil
}

// SyncHasFile resynchronizes every derived has_file flag from the
// media_files table. This is the explicit reconciliation the flags rely on;
// nothing maintains them by trigger.
func (s *Store) SyncHasFile() error {
	stmts := []string{
		`UPDATE tracks SET has_file = EXISTS (SELECT 1 FROM media_files WHERE track_id = tracks.id)`,
		`UPDATE episodes SET has_file = EXISTS (SELECT 1 FROM media_files WHERE episode_id = episodes.id)`,
		`UPDATE movies SET has_file = EXISTS (SELECT 1 FROM media_files WHERE movie_id = movies.id)`,
		`UPDATE books SET has_file = EXISTS (SELECT 1 FROM media_files WHERE book_id = books.id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sync has_file: %w", err)
		}
	}
	return nil
}
