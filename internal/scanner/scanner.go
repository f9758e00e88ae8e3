// Package scanner reconciles on-disk library files against the catalog.
//
// Unlike the importer, the scanner never moves files: it discovers what is
// already in place, creates the entities the catalog is missing, and
// records or refreshes file rows. Unknown content degrades to needs-review
// entities so a scan never fails outright on unrecognized folders.
package scanner

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/metadata"
	"github.com/vmunix/shelfarr/internal/probe"
)

// Scanner walks root folders and reconciles their files.
type Scanner struct {
	library   *library.Store
	prober    probe.Prober
	providers map[library.MediaType]metadata.Provider
	lister    Lister
	log       *slog.Logger
}

// New creates a scanner. Providers may be nil or missing entries; a missing
// provider just means unknown content goes straight to needs-review.
func New(db *sql.DB, prober probe.Prober, providers map[library.MediaType]metadata.Provider, lister Lister, log *slog.Logger) *Scanner {
	if lister == nil {
		lister = OSLister{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{
		library:   library.NewStore(db),
		prober:    prober,
		providers: providers,
		lister:    lister,
		log:       log,
	}
}

// Result is the outcome of scanning one root folder.
type Result struct {
	FilesSeen    int // discovered media files
	FilesAdded   int // new file records
	FilesUpdated int // size-changed records refreshed in place
	Errors       []string
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Scan routes the root folder to its per-media-type scanner.
func (s *Scanner) Scan(ctx context.Context, root *library.RootFolder) (*Result, error) {
	switch root.MediaType {
	case library.MediaTypeMusic:
		return s.scanMusic(ctx, root)
	case library.MediaTypeTV:
		return s.scanTV(ctx, root)
	case library.MediaTypeMovies:
		return s.scanMovies(ctx, root)
	case library.MediaTypeBooks:
		return s.scanBooks(ctx, root)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMediaType, root.MediaType)
	}
}

func (s *Scanner) provider(mt library.MediaType) metadata.Provider {
	if s.providers == nil {
		return nil
	}
	return s.providers[mt]
}

// search queries the provider and degrades every failure to no-match.
func (s *Scanner) search(ctx context.Context, mt library.MediaType, title string, year int) []metadata.Candidate {
	p := s.provider(mt)
	if p == nil {
		return nil
	}
	cands, err := p.SearchByTitle(ctx, title, year)
	if err != nil {
		s.log.Warn("provider search failed", "media_type", mt, "title", title, "error", err)
		return nil
	}
	return cands
}

func (s *Scanner) details(ctx context.Context, mt library.MediaType, id string) *metadata.Record {
	p := s.provider(mt)
	if p == nil {
		return nil
	}
	rec, err := p.GetDetailsByID(ctx, id)
	if err != nil {
		s.log.Warn("provider details failed", "media_type", mt, "id", id, "error", err)
		return nil
	}
	return rec
}

// reconcileFile records one on-disk file. Files already recorded with an
// unchanged size are untouched; a changed size refreshes the record in
// place. The scanner assumes files are where they belong and never moves
// them.
func (s *Scanner) reconcileFile(root *library.RootFolder, path string, file *library.MediaFile, result *Result) error {
	relPath, err := filepath.Rel(root.Path, path)
	if err != nil {
		return fmt.Errorf("relative path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	existing, err := s.library.GetFileByPath(root.ID, relPath)
	if err != nil {
		return fmt.Errorf("get file record: %w", err)
	}
	if existing != nil {
		if existing.SizeBytes == info.Size() {
			return nil // unchanged, nothing to do
		}
		if err := s.library.UpdateFileSize(existing.ID, info.Size(), file.Quality, file.MediaInfo); err != nil {
			return fmt.Errorf("update file record: %w", err)
		}
		result.FilesUpdated++
		return nil
	}

	file.RootFolderID = root.ID
	file.RelativePath = relPath
	file.SizeBytes = info.Size()
	if err := s.library.UpsertFile(file); err != nil {
		return fmt.Errorf("record file: %w", err)
	}
	result.FilesAdded++
	return nil
}

// titleYearPattern matches "Title (2020)" folder and file names.
var titleYearPattern = regexp.MustCompile(`^(.+?) \((\d{4})\)$`)

func splitTitleYear(name string) (string, int) {
	if m := titleYearPattern.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[2])
		return strings.TrimSpace(m[1]), year
	}
	return strings.TrimSpace(name), 0
}

// topDir returns the first path segment of path relative to root, or ""
// for files sitting directly in the root.
func topDir(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}
