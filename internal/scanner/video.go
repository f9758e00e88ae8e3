package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/importer"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/match"
	"github.com/vmunix/shelfarr/internal/mediaparse"
	"github.com/vmunix/shelfarr/internal/quality"
)

// showGroup collects the files under one show folder.
type showGroup struct {
	title string
	year  int
	files []string
}

func (s *Scanner) scanTV(ctx context.Context, root *library.RootFolder) (*Result, error) {
	files, err := walkFiles(s.lister, root.Path, importer.ExtensionsFor(library.MediaTypeTV))
	if err != nil {
		return nil, err
	}

	result := &Result{FilesSeen: len(files)}

	groups := make(map[string]*showGroup)
	var order []string
	for _, f := range files {
		name := topDir(root.Path, f)
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		}
		title, year := splitTitleYear(name)
		key := match.GroupKey(title, year)
		g, ok := groups[key]
		if !ok {
			g = &showGroup{title: title, year: year}
			groups[key] = g
			order = append(order, key)
		}
		g.files = append(g.files, f)
	}

	for _, key := range order {
		g := groups[key]
		show, err := s.resolveShow(ctx, root, g.title, g.year)
		if err != nil {
			result.addError("%s: %v", g.title, err)
			continue
		}

		imported := false
		for _, f := range g.files {
			if err := s.scanEpisodeFile(root, show, f, result); err != nil {
				result.addError("%s: %v", filepath.Base(f), err)
				continue
			}
			imported = true
		}

		// Aggregates are rebuilt from the episodes table, never adjusted
		// incrementally.
		if imported {
			if err := s.library.RecountSeasons(show.ID); err != nil {
				result.addError("%s: recount seasons: %v", g.title, err)
			}
		}
	}

	if err := s.library.SyncHasFile(); err != nil {
		return nil, fmt.Errorf("sync has_file: %w", err)
	}
	return result, nil
}

func (s *Scanner) resolveShow(ctx context.Context, root *library.RootFolder, title string, year int) (*library.Show, error) {
	shows, err := s.library.ListShows(root.ID)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}

	for _, sh := range shows {
		if sh.Title == title && (year == 0 || sh.Year == 0 || sh.Year == year) {
			return sh, nil
		}
	}
	want := match.NormalizeTitle(title)
	for _, sh := range shows {
		if match.NormalizeTitle(sh.Title) == want && (year == 0 || sh.Year == 0 || sh.Year == year) {
			return sh, nil
		}
	}

	for _, c := range s.search(ctx, library.MediaTypeTV, title, year) {
		if match.NormalizeTitle(c.Title) != want {
			continue
		}
		if rec := s.details(ctx, library.MediaTypeTV, c.ExternalID); rec != nil {
			show := &library.Show{RootFolderID: root.ID, Title: rec.Title, Year: rec.Year, TVDBID: &rec.ExternalID}
			if err := s.library.AddShow(show); err != nil {
				return nil, fmt.Errorf("create show: %w", err)
			}
			s.log.Info("created show from provider", "title", rec.Title, "external_id", rec.ExternalID)
			return show, nil
		}
	}

	show := &library.Show{RootFolderID: root.ID, Title: title, Year: year, NeedsReview: true}
	if err := s.library.AddShow(show); err != nil {
		return nil, fmt.Errorf("create show: %w", err)
	}
	s.log.Info("created needs-review show", "title", title, "year", year)
	return show, nil
}

func (s *Scanner) scanEpisodeFile(root *library.RootFolder, show *library.Show, path string, result *Result) error {
	season, epNums, ok := mediaparse.ParseMultiEpisode(path)
	if !ok {
		return fmt.Errorf("cannot parse season/episode")
	}
	if season == 0 {
		// EpNN names carry no season; the enclosing folder has to say.
		season, ok = mediaparse.ParseSeasonFolder(filepath.Base(filepath.Dir(path)))
		if !ok {
			return fmt.Errorf("episode number without a season")
		}
	}

	var episode *library.Episode
	for idx, epNum := range epNums {
		ep, _, err := s.library.FindOrCreateEpisode(show.ID, season, epNum)
		if err != nil {
			return fmt.Errorf("find/create episode: %w", err)
		}
		// The file record hangs off the first episode; the rest of a
		// multi-episode file only get catalog rows.
		if idx == 0 {
			episode = ep
		}
	}

	file := &library.MediaFile{
		EpisodeID: &episode.ID,
		Quality:   videoLabel(path),
	}
	return s.reconcileFile(root, path, file, result)
}

func (s *Scanner) scanMovies(ctx context.Context, root *library.RootFolder) (*Result, error) {
	files, err := walkFiles(s.lister, root.Path, importer.ExtensionsFor(library.MediaTypeMovies))
	if err != nil {
		return nil, err
	}

	result := &Result{FilesSeen: len(files)}

	for _, f := range files {
		name := topDir(root.Path, f)
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		}
		title, year := splitTitleYear(name)

		movie, err := s.resolveMovie(ctx, root, title, year)
		if err != nil {
			result.addError("%s: %v", title, err)
			continue
		}

		file := &library.MediaFile{
			MovieID: &movie.ID,
			Quality: videoLabel(f),
		}
		if err := s.reconcileFile(root, f, file, result); err != nil {
			result.addError("%s: %v", filepath.Base(f), err)
		}
	}

	if err := s.library.SyncHasFile(); err != nil {
		return nil, fmt.Errorf("sync has_file: %w", err)
	}
	return result, nil
}

func (s *Scanner) resolveMovie(ctx context.Context, root *library.RootFolder, title string, year int) (*library.Movie, error) {
	movies, err := s.library.ListMovies(root.ID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	for _, m := range movies {
		if m.Title == title && (year == 0 || m.Year == 0 || m.Year == year) {
			return m, nil
		}
	}
	want := match.NormalizeTitle(title)
	for _, m := range movies {
		if match.NormalizeTitle(m.Title) == want && (year == 0 || m.Year == 0 || m.Year == year) {
			return m, nil
		}
	}

	for _, c := range s.search(ctx, library.MediaTypeMovies, title, year) {
		if match.NormalizeTitle(c.Title) != want {
			continue
		}
		if rec := s.details(ctx, library.MediaTypeMovies, c.ExternalID); rec != nil {
			movie := &library.Movie{RootFolderID: root.ID, Title: rec.Title, Year: rec.Year, TMDBID: &rec.ExternalID}
			if err := s.library.AddMovie(movie); err != nil {
				return nil, fmt.Errorf("create movie: %w", err)
			}
			return movie, nil
		}
	}

	movie := &library.Movie{RootFolderID: root.ID, Title: title, Year: year, NeedsReview: true}
	if err := s.library.AddMovie(movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	s.log.Info("created needs-review movie", "title", title, "year", year)
	return movie, nil
}

// videoLabel classifies from file name tokens, then the parent folder's.
// The extension never contributes tokens; a .ts container is not telesync.
func videoLabel(path string) string {
	base := filepath.Base(path)
	hints := mediaparse.QualityHints(strings.TrimSuffix(base, filepath.Ext(base)))
	if len(hints) == 0 {
		hints = mediaparse.QualityHints(filepath.Base(filepath.Dir(path)))
	}
	if q := quality.ClassifyVideo(quality.VideoSignals{Hints: hints}); q != nil {
		return q.Name
	}
	return "Unknown"
}
