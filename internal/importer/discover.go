package importer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/library"
)

var audioExtensions = map[string]bool{
	".flac": true,
	".mp3":  true,
	".m4a":  true,
	".m4b":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".ape":  true,
	".wv":   true,
	".alac": true,
}

var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".wmv":  true,
	".mov":  true,
	".ts":   true,
	".webm": true,
}

var bookExtensions = map[string]bool{
	".epub": true,
	".mobi": true,
	".azw3": true,
	".azw":  true,
	".pdf":  true,
	".fb2":  true,
	".djvu": true,
	".cbz":  true,
	".cbr":  true,
}

// videoJunkDirs are subdirectories skipped during video discovery.
var videoJunkDirs = map[string]bool{
	"sample":    true,
	"subs":      true,
	"subtitles": true,
	"proof":     true,
	"extras":    true,
}

// ExtensionsFor returns the media file extension set for a media type.
func ExtensionsFor(mediaType library.MediaType) map[string]bool {
	switch mediaType {
	case library.MediaTypeMusic:
		return audioExtensions
	case library.MediaTypeMovies, library.MediaTypeTV:
		return videoExtensions
	case library.MediaTypeBooks:
		return bookExtensions
	default:
		return nil
	}
}

// SkipDirFunc decides whether a directory (by base name) is skipped during
// discovery. Injectable so tests and callers can tighten or relax the
// policy.
type SkipDirFunc func(name string) bool

// DefaultSkipDir returns the skip policy for a media type: hidden
// directories always, known junk directories for video. Audio has no junk
// directory convention (multi-disc folders like CD1 are content).
func DefaultSkipDir(mediaType library.MediaType) SkipDirFunc {
	junk := mediaType == library.MediaTypeMovies || mediaType == library.MediaTypeTV
	return func(name string) bool {
		if strings.HasPrefix(name, ".") {
			return true
		}
		return junk && videoJunkDirs[strings.ToLower(name)]
	}
}

// Discover walks root recursively and returns every file whose extension is
// in exts, honoring the skip policy. Enumeration order is filesystem order
// and not guaranteed stable.
func Discover(root string, exts map[string]bool, skipDir SkipDirFunc) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // unreadable subtree, keep walking
		}
		if d.IsDir() {
			if path != root && skipDir != nil && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// findLargest returns the path with the greatest size, used to pick the
// main feature out of a movie download that may carry extras.
func findLargest(files []string) string {
	var best string
	var bestSize int64
	for _, f := range files {
		info, err := statPath(f)
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			bestSize = info.Size()
			best = f
		}
	}
	return best
}
