package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Lister is the directory-listing capability the walker runs on. Tests use
// synthetic trees; production uses OSLister.
type Lister interface {
	List(dir string) ([]fs.DirEntry, error)
}

// OSLister lists real directories.
type OSLister struct{}

func (OSLister) List(dir string) ([]fs.DirEntry, error) {
	return os.ReadDir(dir)
}

// walkFiles returns every file under root whose extension is in exts,
// skipping hidden directories and files. An unreadable subdirectory is
// skipped; an unreadable root is an error.
func walkFiles(l Lister, root string, exts map[string]bool) ([]string, error) {
	var files []string

	var visit func(dir string) error
	visit = func(dir string) error {
		entries, err := l.List(dir)
		if err != nil {
			if dir == root {
				return fmt.Errorf("list %s: %w", dir, err)
			}
			return nil
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			full := filepath.Join(dir, name)
			if e.IsDir() {
				if err := visit(full); err != nil {
					return err
				}
				continue
			}
			if exts[strings.ToLower(filepath.Ext(name))] {
				files = append(files, full)
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return files, nil
}
