package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/importer"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/match"
)

func (s *Scanner) scanBooks(ctx context.Context, root *library.RootFolder) (*Result, error) {
	files, err := walkFiles(s.lister, root.Path, importer.ExtensionsFor(library.MediaTypeBooks))
	if err != nil {
		return nil, err
	}

	result := &Result{FilesSeen: len(files)}

	for _, f := range files {
		authorName := topDir(root.Path, f)
		if authorName == "" {
			authorName = "Unknown Author"
		}
		title, year := splitTitleYear(strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)))

		book, err := s.resolveBook(ctx, root, authorName, title, year)
		if err != nil {
			result.addError("%s: %v", title, err)
			continue
		}

		file := &library.MediaFile{
			BookID:  &book.ID,
			Quality: strings.ToUpper(strings.TrimPrefix(filepath.Ext(f), ".")),
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

func (s *Scanner) resolveBook(ctx context.Context, root *library.RootFolder, authorName, title string, year int) (*library.Book, error) {
	author, err := s.findAuthor(root.ID, authorName)
	if err != nil {
		return nil, err
	}

	if author != nil {
		book, err := s.findBook(author.ID, title, year)
		if err != nil {
			return nil, err
		}
		if book != nil {
			return book, nil
		}
	}

	want := match.NormalizeTitle(title)
	for _, c := range s.search(ctx, library.MediaTypeBooks, title, year) {
		if match.NormalizeTitle(c.Title) != want {
			continue
		}
		if match.NormalizeTitle(c.Artist) != match.NormalizeTitle(authorName) {
			continue
		}
		if rec := s.details(ctx, library.MediaTypeBooks, c.ExternalID); rec != nil {
			if author == nil {
				author = &library.Author{RootFolderID: root.ID, Name: rec.Artist}
				if err := s.library.AddAuthor(author); err != nil {
					return nil, fmt.Errorf("create author: %w", err)
				}
			}
			book := &library.Book{AuthorID: author.ID, Title: rec.Title, Year: rec.Year, OpenLibraryID: &rec.ExternalID}
			if err := s.library.AddBook(book); err != nil {
				return nil, fmt.Errorf("create book: %w", err)
			}
			return book, nil
		}
	}

	if author == nil {
		author = &library.Author{RootFolderID: root.ID, Name: authorName, NeedsReview: true}
		if err := s.library.AddAuthor(author); err != nil {
			return nil, fmt.Errorf("create author: %w", err)
		}
	}
	book := &library.Book{AuthorID: author.ID, Title: title, Year: year, NeedsReview: true}
	if err := s.library.AddBook(book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	s.log.Info("created needs-review book", "author", authorName, "title", title)
	return book, nil
}

func (s *Scanner) findAuthor(rootFolderID int64, name string) (*library.Author, error) {
	author, err := s.library.GetAuthorByName(rootFolderID, name)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if author != nil {
		return author, nil
	}

	all, err := s.library.ListAuthors(rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	want := match.NormalizeTitle(name)
	for _, a := range all {
		if match.NormalizeTitle(a.Name) == want {
			return a, nil
		}
	}
	return nil, nil
}

func (s *Scanner) findBook(authorID int64, title string, year int) (*library.Book, error) {
	book, err := s.library.GetBookByTitle(authorID, title, year)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book != nil {
		return book, nil
	}

	all, err := s.library.ListBooks(authorID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	want := match.NormalizeTitle(title)
	for _, b := range all {
		if match.NormalizeTitle(b.Title) != want {
			continue
		}
		if year != 0 && b.Year != 0 && b.Year != year {
			continue
		}
		return b, nil
	}
	return nil, nil
}
