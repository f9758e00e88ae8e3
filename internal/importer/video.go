package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/mediaparse"
	"github.com/vmunix/shelfarr/internal/naming"
	"github.com/vmunix/shelfarr/internal/quality"
)

// videoQualityLabel classifies a video file from its name tokens. Falls
// back to the source directory name when the file name carries nothing.
// The extension is dropped first so a .ts container doesn't read as a
// telesync source token.
func videoQualityLabel(path string) string {
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

// importMovie imports a download targeting a known movie. The largest
// video file is the feature; everything else is skipped.
func (i *Importer) importMovie(ctx context.Context, movieID int64, srcRoot string) (*Result, error) {
	movie, err := i.library.GetMovie(movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	root, err := i.library.GetRootFolder(movie.RootFolderID)
	if err != nil {
		return nil, fmt.Errorf("get root folder: %w", err)
	}

	files, err := Discover(srcRoot, videoExtensions, DefaultSkipDir(library.MediaTypeMovies))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, srcRoot, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no video files under %s", ErrNoFilesFound, srcRoot)
	}
	i.report(Progress{Phase: PhaseScanning, FilesFound: len(files)})

	src := findLargest(files)
	if src == "" {
		return nil, fmt.Errorf("%w: no readable video files under %s", ErrNoFilesFound, srcRoot)
	}
	result := &Result{FilesSkipped: len(files) - 1}
	i.report(Progress{Phase: PhaseImporting, FilesFound: len(files)})

	label := videoQualityLabel(src)
	relPath := naming.MoviePath(movie.Title, movie.Year, filepath.Ext(src))
	destAbs := filepath.Join(root.Path, relPath)
	if err := ValidatePath(destAbs, root.Path); err != nil {
		return nil, err
	}

	srcInfo, err := statPath(src)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	existing, err := i.library.GetFileByMovie(movie.ID)
	if err != nil {
		return nil, fmt.Errorf("get file record: %w", err)
	}
	if existing != nil && existing.RelativePath == relPath && existing.SizeBytes == srcInfo.Size() {
		result.FilesSkipped++
		return result, nil
	}

	size := srcInfo.Size()
	if destAbs != src {
		if size, err = MoveFile(src, destAbs); err != nil {
			return nil, err
		}
	}

	file := &library.MediaFile{
		RootFolderID: root.ID,
		MovieID:      &movie.ID,
		RelativePath: relPath,
		SizeBytes:    size,
		Quality:      label,
	}
	if err := i.library.UpsertFile(file); err != nil {
		return nil, fmt.Errorf("record file: %w", err)
	}
	if err := i.library.SetMovieHasFile(movie.ID, true); err != nil {
		return nil, fmt.Errorf("set has_file: %w", err)
	}

	result.FilesImported = 1
	return result, nil
}

// importEpisodes imports a download grabbed for an episode. The download
// directory may be a season pack; each video file is matched to its own
// episode by parsed season/episode numbers, creating episode rows on the
// fly. A single unparseable file falls back to the download's target
// episode.
func (i *Importer) importEpisodes(ctx context.Context, episodeID int64, srcRoot string) (*Result, error) {
	target, err := i.library.GetEpisode(episodeID)
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	show, err := i.library.GetShow(target.ShowID)
	if err != nil {
		return nil, fmt.Errorf("get show: %w", err)
	}
	root, err := i.library.GetRootFolder(show.RootFolderID)
	if err != nil {
		return nil, fmt.Errorf("get root folder: %w", err)
	}

	files, err := Discover(srcRoot, videoExtensions, DefaultSkipDir(library.MediaTypeTV))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, srcRoot, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no video files under %s", ErrNoFilesFound, srcRoot)
	}
	i.report(Progress{Phase: PhaseScanning, FilesFound: len(files)})

	result := &Result{}
	for _, f := range files {
		imported, err := i.importEpisodeFile(f, target, show, root, len(files) == 1)
		switch {
		case err != nil:
			result.FilesSkipped++
			result.addError("%s: %v", filepath.Base(f), err)
			i.log.Warn("episode import failed", "file", f, "error", err)
		case imported:
			result.FilesImported++
		default:
			result.FilesSkipped++
		}
		i.report(Progress{Phase: PhaseImporting, FilesFound: len(files),
			FilesImported: result.FilesImported, FilesSkipped: result.FilesSkipped})
	}

	if result.FilesImported > 0 {
		if err := i.library.RecountSeasons(show.ID); err != nil {
			i.log.Warn("recount seasons", "show_id", show.ID, "error", err)
		}
	}

	return result, nil
}

func (i *Importer) importEpisodeFile(path string, target *library.Episode, show *library.Show, root *library.RootFolder, soleFile bool) (bool, error) {
	episode := target
	season, epNums, ok := mediaparse.ParseMultiEpisode(path)
	switch {
	case ok:
		if season == 0 {
			// EpNN names carry no season. The grab was for a specific
			// episode, so its season is the only sensible home.
			season = target.SeasonNumber
		}
		for idx, epNum := range epNums {
			ep, created, err := i.library.FindOrCreateEpisode(show.ID, season, epNum)
			if err != nil {
				return false, fmt.Errorf("find/create episode: %w", err)
			}
			if created {
				i.log.Info("created episode", "show_id", show.ID, "season", season, "episode", epNum)
			}
			// The file record hangs off the first episode; the rest of a
			// multi-episode file only get catalog rows.
			if idx == 0 {
				episode = ep
			}
		}
	case !soleFile:
		return false, fmt.Errorf("%w: cannot parse season/episode", ErrNoMatch)
	}

	label := videoQualityLabel(path)
	relPath := naming.EpisodePath(show.Title, episode.SeasonNumber, episode.EpisodeNumber, episode.Title, filepath.Ext(path))
	destAbs := filepath.Join(root.Path, relPath)
	if err := ValidatePath(destAbs, root.Path); err != nil {
		return false, err
	}

	srcInfo, err := statPath(path)
	if err != nil {
		return false, fmt.Errorf("stat source: %w", err)
	}

	existing, err := i.library.GetFileByEpisode(episode.ID)
	if err != nil {
		return false, fmt.Errorf("get file record: %w", err)
	}
	if existing != nil && existing.RelativePath == relPath && existing.SizeBytes == srcInfo.Size() {
		return false, nil
	}

	size := srcInfo.Size()
	if destAbs != path {
		if size, err = MoveFile(path, destAbs); err != nil {
			return false, err
		}
	}

	file := &library.MediaFile{
		RootFolderID: root.ID,
		EpisodeID:    &episode.ID,
		RelativePath: relPath,
		SizeBytes:    size,
		Quality:      label,
	}
	if err := i.library.UpsertFile(file); err != nil {
		return false, fmt.Errorf("record file: %w", err)
	}
	if err := i.library.SetEpisodeHasFile(episode.ID, true); err != nil {
		return false, fmt.Errorf("set has_file: %w", err)
	}

	return true, nil
}
