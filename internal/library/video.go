package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func addShow(q querier, sh *Show) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO shows (root_folder_id, title, year, tvdb_id, needs_review, added_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sh.RootFolderID, sh.Title, sh.Year, sh.TVDBID, sh.NeedsReview, now,
	)
	if err != nil {
		return fmt.Errorf("insert show: %w", mapSQLiteError(err))
	}
	sh.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	sh.AddedAt = now
	return nil
}

// AddShow inserts a new show. Sets ID and AddedAt on the struct.
func (s *Store) AddShow(sh *Show) error { return addShow(s.db, sh) }

// GetShow retrieves a show by ID.
// Returns ErrNotFound if the show does not exist.
func (s *Store) GetShow(id int64) (*Show, error) {
	sh := &Show{}
	err := s.db.QueryRow(`
		SELECT id, root_folder_id, title, year, tvdb_id, needs_review, added_at
		FROM shows WHERE id = ?`, id,
	).Scan(&sh.ID, &sh.RootFolderID, &sh.Title, &sh.Year, &sh.TVDBID, &sh.NeedsReview, &sh.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get show %d: %w", id, mapSQLiteError(err))
	}
	return sh, nil
}

// ListShows returns all shows in a root folder.
func (s *Store) ListShows(rootFolderID int64) ([]*Show, error) {
	rows, err := s.db.Query(`
		SELECT id, root_folder_id, title, year, tvdb_id, needs_review, added_at
		FROM shows WHERE root_folder_id = ? ORDER BY id`, rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Show
	for rows.Next() {
		sh := &Show{}
		if err := rows.Scan(&sh.ID, &sh.RootFolderID, &sh.Title, &sh.Year, &sh.TVDBID, &sh.NeedsReview, &sh.AddedAt); err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		results = append(results, sh)
	}
	return results, rows.Err()
}

// FindOrCreateEpisode returns the episode with the given numbers, creating
// it when absent. Reports whether a new row was created.
func (s *Store) FindOrCreateEpisode(showID int64, season, episode int) (*Episode, bool, error) {
	e := &Episode{}
	err := s.db.QueryRow(`
		SELECT id, show_id, season_number, episode_number, title, has_file
		FROM episodes WHERE show_id = ? AND season_number = ? AND episode_number = ?`,
		showID, season, episode,
	).Scan(&e.ID, &e.ShowID, &e.SeasonNumber, &e.EpisodeNumber, &e.Title, &e.HasFile)
	if err == nil {
		return e, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("find episode: %w", err)
	}

	e = &Episode{ShowID: showID, SeasonNumber: season, EpisodeNumber: episode}
	result, err := s.db.Exec(`
		INSERT INTO episodes (show_id, season_number, episode_number, title, has_file)
		VALUES (?, ?, ?, '', 0)`,
		showID, season, episode,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	e.ID, err = result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("get last insert id: %w", err)
	}
	return e, true, nil
}

// GetEpisode retrieves an episode by ID.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) GetEpisode(id int64) (*Episode, error) {
	e := &Episode{}
	err := s.db.QueryRow(`
		SELECT id, show_id, season_number, episode_number, title, has_file
		FROM episodes WHERE id = ?`, id,
	).Scan(&e.ID, &e.ShowID, &e.SeasonNumber, &e.EpisodeNumber, &e.Title, &e.HasFile)
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, mapSQLiteError(err))
	}
	return e, nil
}

// ListEpisodes returns all episodes of a show ordered by season then number.
func (s *Store) ListEpisodes(showID int64) ([]*Episode, error) {
	rows, err := s.db.Query(`
		SELECT id, show_id, season_number, episode_number, title, has_file
		FROM episodes WHERE show_id = ? ORDER BY season_number, episode_number`, showID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e := &Episode{}
		if err := rows.Scan(&e.ID, &e.ShowID, &e.SeasonNumber, &e.EpisodeNumber, &e.Title, &e.HasFile); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// SetEpisodeHasFile updates an episode's has_file flag.
func (s *Store) SetEpisodeHasFile(id int64, hasFile bool) error {
	if _, err := s.db.Exec(`UPDATE episodes SET has_file = ? WHERE id = ?`, hasFile, id); err != nil {
		return fmt.Errorf("set episode has_file: %w", mapSQLiteError(err))
	}
	return nil
}

// RecountSeasons rebuilds the cached season aggregates for a show from the
// episodes table. Always a full recount, never incremental, so cached counts
// cannot drift from the source of truth.
func (s *Store) RecountSeasons(showID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin recount: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM seasons WHERE show_id = ?`, showID); err != nil {
		return fmt.Errorf("clear seasons: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO seasons (show_id, season_number, episode_count)
		SELECT show_id, season_number, COUNT(*)
		FROM episodes WHERE show_id = ?
		GROUP BY season_number`, showID); err != nil {
		return fmt.Errorf("recount seasons: %w", err)
	}
	return tx.Commit()
}

// ListSeasons returns the cached season aggregates for a show.
func (s *Store) ListSeasons(showID int64) ([]*Season, error) {
	rows, err := s.db.Query(`
		SELECT id, show_id, season_number, episode_count
		FROM seasons WHERE show_id = ? ORDER BY season_number`, showID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Season
	for rows.Next() {
		se := &Season{}
		if err := rows.Scan(&se.ID, &se.ShowID, &se.SeasonNumber, &se.EpisodeCount); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		results = append(results, se)
	}
	return results, rows.Err()
}

func addMovie(q querier, m *Movie) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO movies (root_folder_id, title, year, tmdb_id, needs_review, has_file, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.RootFolderID, m.Title, m.Year, m.TMDBID, m.NeedsReview, m.HasFile, now,
	)
	if err != nil {
		return fmt.Errorf("insert movie: %w", mapSQLiteError(err))
	}
	m.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	m.AddedAt = now
	return nil
}

// AddMovie inserts a new movie. Sets ID and AddedAt on the struct.
func (s *Store) AddMovie(m *Movie) error { return addMovie(s.db, m) }

// GetMovie retrieves a movie by ID.
// Returns ErrNotFound if the movie does not exist.
func (s *Store) GetMovie(id int64) (*Movie, error) {
	m := &Movie{}
	err := s.db.QueryRow(`
		SELECT id, root_folder_id, title, year, tmdb_id, needs_review, has_file, added_at
		FROM movies WHERE id = ?`, id,
	).Scan(&m.ID, &m.RootFolderID, &m.Title, &m.Year, &m.TMDBID, &m.NeedsReview, &m.HasFile, &m.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, mapSQLiteError(err))
	}
	return m, nil
}

// ListMovies returns all movies in a root folder.
func (s *Store) ListMovies(rootFolderID int64) ([]*Movie, error) {
	rows, err := s.db.Query(`
		SELECT id, root_folder_id, title, year, tmdb_id, needs_review, has_file, added_at
		FROM movies WHERE root_folder_id = ? ORDER BY id`, rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Movie
	for rows.Next() {
		m := &Movie{}
		if err := rows.Scan(&m.ID, &m.RootFolderID, &m.Title, &m.Year, &m.TMDBID, &m.NeedsReview, &m.HasFile, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// SetMovieHasFile updates a movie's has_file flag.
func (s *Store) SetMovieHasFile(id int64, hasFile bool) error {
	if _, err := s.db.Exec(`UPDATE movies SET has_file = ? WHERE id = ?`, hasFile, id); err != nil {
		return fmt.Errorf("set movie has_file: %w", mapSQLiteError(err))
	}
	return nil
}
