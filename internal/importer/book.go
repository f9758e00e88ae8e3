package importer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/naming"
)

// formatRank orders book formats by preference. A download often carries
// the same book in several formats; exactly one is imported.
var formatRank = map[string]int{
	".epub": 9,
	".mobi": 8,
	".azw3": 7,
	".azw":  6,
	".pdf":  5,
	".fb2":  4,
	".djvu": 3,
	".cbz":  2,
	".cbr":  1,
}

// bookCandidate is one discovered book file with its detected format.
type bookCandidate struct {
	Path   string
	Format string // extension with leading dot
}

// discoverBooks finds book files under root. Extensionless files are
// content-sniffed; an unrecognizable file is not a candidate.
func discoverBooks(root string, skipDir SkipDirFunc) ([]bookCandidate, error) {
	var books []bookCandidate

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir != nil && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if bookExtensions[ext] {
			books = append(books, bookCandidate{Path: path, Format: ext})
			return nil
		}
		if ext == "" {
			if mime, merr := mimetype.DetectFile(path); merr == nil {
				if sniffed := strings.ToLower(mime.Extension()); bookExtensions[sniffed] {
					books = append(books, bookCandidate{Path: path, Format: sniffed})
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return books, nil
}

// selectPreferred picks the best-ranked format out of the candidates.
func selectPreferred(books []bookCandidate) bookCandidate {
	best := books[0]
	for _, b := range books[1:] {
		if formatRank[b.Format] > formatRank[best.Format] {
			best = b
		}
	}
	return best
}

// importBook imports a download targeting a known book. Books are
// whole-unit media: one preferred file is imported, the rest are skipped.
func (i *Importer) importBook(ctx context.Context, bookID int64, srcRoot string) (*Result, error) {
	book, err := i.library.GetBook(bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	author, err := i.library.GetAuthor(book.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	root, err := i.library.GetRootFolder(author.RootFolderID)
	if err != nil {
		return nil, fmt.Errorf("get root folder: %w", err)
	}

	books, err := discoverBooks(srcRoot, DefaultSkipDir(library.MediaTypeBooks))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, srcRoot, err)
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("%w: no book files under %s", ErrNoFilesFound, srcRoot)
	}
	i.report(Progress{Phase: PhaseScanning, FilesFound: len(books)})

	chosen := selectPreferred(books)
	i.log.Debug("selected book format", "file", chosen.Path, "format", chosen.Format, "candidates", len(books))

	result := &Result{FilesSkipped: len(books) - 1}
	i.report(Progress{Phase: PhaseImporting, FilesFound: len(books)})

	relPath := naming.BookPath(author.Name, book.Title, book.Year, chosen.Format)
	destAbs := filepath.Join(root.Path, relPath)
	if err := ValidatePath(destAbs, root.Path); err != nil {
		return nil, err
	}

	srcInfo, err := statPath(chosen.Path)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	existing, err := i.library.GetFileByBook(book.ID)
	if err != nil {
		return nil, fmt.Errorf("get file record: %w", err)
	}
	if existing != nil && existing.RelativePath == relPath && existing.SizeBytes == srcInfo.Size() {
		result.FilesSkipped++
		return result, nil
	}

	size := srcInfo.Size()
	if destAbs != chosen.Path {
		if size, err = MoveFile(chosen.Path, destAbs); err != nil {
			return nil, err
		}
	}

	file := &library.MediaFile{
		RootFolderID: root.ID,
		BookID:       &book.ID,
		RelativePath: relPath,
		SizeBytes:    size,
		Quality:      strings.ToUpper(strings.TrimPrefix(chosen.Format, ".")),
	}
	if err := i.library.UpsertFile(file); err != nil {
		return nil, fmt.Errorf("record file: %w", err)
	}
	if err := i.library.SetBookHasFile(book.ID, true); err != nil {
		return nil, fmt.Errorf("set has_file: %w", err)
	}

	result.FilesImported = 1
	return result, nil
}
