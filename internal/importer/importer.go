// Package importer turns completed downloads and loose folders into
// organized, recorded library files.
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/probe"
)

const defaultProbeTimeout = 5 * time.Second

// Importer processes completed downloads and arbitrary paths into the
// library.
type Importer struct {
	downloads    *download.Store
	library      *library.Store
	prober       probe.Prober
	bus          *events.Bus // nil disables event publication
	mappings     []PathMapping
	probeTimeout time.Duration
	onProgress   ProgressFunc
	log          *slog.Logger
}

// Config for the importer.
type Config struct {
	ProbeTimeout time.Duration // accessibility probe bound, default 5s
	PathMappings []PathMapping
	OnProgress   ProgressFunc
}

// New creates an importer. The bus is optional.
func New(db *sql.DB, prober probe.Prober, bus *events.Bus, cfg Config, log *slog.Logger) *Importer {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		downloads:    download.NewStore(db),
		library:      library.NewStore(db),
		prober:       prober,
		bus:          bus,
		mappings:     cfg.PathMappings,
		probeTimeout: cfg.ProbeTimeout,
		onProgress:   cfg.OnProgress,
		log:          log,
	}
}

// Result is the outcome of one import run. Partial success is valid: some
// files imported, some skipped, errors accumulated per file.
type Result struct {
	FilesImported int
	FilesSkipped  int
	Errors        []string
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Import processes a completed download by ID. The download must carry a
// library target; path-based inference is only for ImportPath.
func (i *Importer) Import(ctx context.Context, downloadID int64) (*Result, error) {
	dl, err := i.downloads.Get(downloadID)
	if err != nil {
		if errors.Is(err, download.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrDownloadNotFound, downloadID)
		}
		return nil, fmt.Errorf("get download: %w", err)
	}

	if dl.Status != download.StatusCompleted && dl.Status != download.StatusImporting {
		return nil, fmt.Errorf("%w: status is %s", ErrDownloadNotReady, dl.Status)
	}

	if dl.OutputPath == "" {
		return nil, fmt.Errorf("%w: download %d (%s)", ErrNoOutputPath, dl.ID, dl.ReleaseName)
	}

	srcRoot := ApplyMappings(dl.OutputPath, i.mappings)
	if err := ProbePath(ctx, srcRoot, i.probeTimeout); err != nil {
		if errors.Is(err, ErrPathInaccessible) && len(i.mappings) == 0 {
			err = fmt.Errorf("%w; if the download client runs remotely, configure a remote path mapping", err)
		}
		return nil, err
	}

	if dl.Status == download.StatusCompleted {
		if terr := i.downloads.Transition(dl, download.StatusImporting); terr != nil {
			return nil, fmt.Errorf("mark importing: %w", terr)
		}
	}

	i.log.Info("import started", "download_id", dl.ID, "path", srcRoot, "release", dl.ReleaseName)
	i.publish(ctx, events.NewImportStarted(dl.ID, srcRoot, string(i.targetMediaType(dl))))

	result, err := i.runImport(ctx, dl, srcRoot)
	if err != nil {
		i.publish(ctx, events.NewImportFailed(dl.ID, srcRoot, string(i.targetMediaType(dl)), err.Error()))
		if terr := i.downloads.Transition(dl, download.StatusFailed); terr != nil {
			i.log.Warn("mark download failed", "download_id", dl.ID, "error", terr)
		}
		return nil, err
	}

	// Imported when anything landed; back to completed for a no-op run so
	// the caller can inspect and retry.
	target := download.StatusImported
	if result.FilesImported == 0 {
		target = download.StatusCompleted
	}
	if terr := i.downloads.Transition(dl, target); terr != nil {
		i.log.Warn("update download status", "download_id", dl.ID, "error", terr)
	}

	i.publish(ctx, events.NewImportCompleted(dl.ID, srcRoot, string(i.targetMediaType(dl)),
		result.FilesImported, result.FilesSkipped, result.Errors))
	i.log.Info("import complete", "download_id", dl.ID,
		"imported", result.FilesImported, "skipped", result.FilesSkipped, "errors", len(result.Errors))
	return result, nil
}

// runImport routes the download to its per-media-type orchestrator and
// cleans the source when anything was imported.
func (i *Importer) runImport(ctx context.Context, dl *download.Download, srcRoot string) (*Result, error) {
	var result *Result
	var err error

	switch {
	case dl.AlbumID != nil:
		result, err = i.importAlbum(ctx, *dl.AlbumID, srcRoot)
	case dl.BookID != nil:
		result, err = i.importBook(ctx, *dl.BookID, srcRoot)
	case dl.MovieID != nil:
		result, err = i.importMovie(ctx, *dl.MovieID, srcRoot)
	case dl.EpisodeID != nil:
		result, err = i.importEpisodes(ctx, *dl.EpisodeID, srcRoot)
	default:
		return nil, fmt.Errorf("%w: download %d has no library target", ErrNoMatch, dl.ID)
	}
	if err != nil {
		return nil, err
	}

	if result.FilesImported > 0 {
		i.report(Progress{Phase: PhaseCleaning, FilesImported: result.FilesImported, FilesSkipped: result.FilesSkipped})
		if cerr := CleanSource(srcRoot); cerr != nil {
			i.log.Warn("source cleanup", "path", srcRoot, "error", cerr)
		}
	}
	i.report(Progress{Phase: PhaseComplete, FilesImported: result.FilesImported, FilesSkipped: result.FilesSkipped})

	return result, nil
}

// targetMediaType reports the media type a download was grabbed for.
func (i *Importer) targetMediaType(dl *download.Download) library.MediaType {
	switch {
	case dl.AlbumID != nil:
		return library.MediaTypeMusic
	case dl.BookID != nil:
		return library.MediaTypeBooks
	case dl.MovieID != nil:
		return library.MediaTypeMovies
	case dl.EpisodeID != nil:
		return library.MediaTypeTV
	default:
		return ""
	}
}

// ImportPath imports from an arbitrary folder with no download record. The
// target artist and album are inferred: embedded tags first, then the
// "Artist - Album (Year)" folder convention. Inference failure is explicit;
// nothing is ever imported into a guessed-wrong entity.
func (i *Importer) ImportPath(ctx context.Context, path string, rootFolderID int64) (*Result, error) {
	root, err := i.library.GetRootFolder(rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("get root folder: %w", err)
	}
	if root.MediaType != library.MediaTypeMusic {
		return nil, fmt.Errorf("%w: path import infers artist/album and requires a music root, got %s", ErrNoMatch, root.MediaType)
	}

	if err := ProbePath(ctx, path, i.probeTimeout); err != nil {
		return nil, err
	}

	i.log.Info("path import started", "path", path, "root_folder_id", rootFolderID)
	i.publish(ctx, events.NewImportStarted(0, path, string(root.MediaType)))

	album, err := i.inferAlbum(path, root)
	if err != nil {
		i.publish(ctx, events.NewImportFailed(0, path, string(root.MediaType), err.Error()))
		return nil, err
	}

	result, err := i.importAlbumFiles(ctx, album, root, path)
	if err != nil {
		i.publish(ctx, events.NewImportFailed(0, path, string(root.MediaType), err.Error()))
		return nil, err
	}

	if result.FilesImported > 0 && !strings.HasPrefix(path, root.Path) {
		i.report(Progress{Phase: PhaseCleaning, FilesImported: result.FilesImported, FilesSkipped: result.FilesSkipped})
		if cerr := CleanSource(path); cerr != nil {
			i.log.Warn("source cleanup", "path", path, "error", cerr)
		}
	}
	i.report(Progress{Phase: PhaseComplete, FilesImported: result.FilesImported, FilesSkipped: result.FilesSkipped})

	i.publish(ctx, events.NewImportCompleted(0, path, string(root.MediaType),
		result.FilesImported, result.FilesSkipped, result.Errors))
	return result, nil
}

func (i *Importer) report(p Progress) {
	if i.onProgress != nil {
		i.onProgress(p)
	}
}

// publish is fire-and-forget; event sink failures never fail an import.
func (i *Importer) publish(ctx context.Context, e events.Event) {
	if i.bus == nil {
		return
	}
	if err := i.bus.Publish(ctx, e); err != nil {
		i.log.Warn("publish event", "type", e.EventType(), "error", err)
	}
}
