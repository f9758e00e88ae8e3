// Package probe reads embedded metadata from media files.
package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Tags is the embedded metadata extracted from one file. Zero values mean
// the tag was absent.
type Tags struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Track       int
	Disc        int
	Year        int
	Codec       string // flac, mp3, aac, alac, ogg, ...
	Bitrate     int    // kbps, 0 when the container doesn't expose it
	SampleRate  int    // Hz
	Channels    int
	BitDepth    int
}

// Prober reads embedded tags from a file. Implementations must degrade:
// a file with no readable tags yields (nil, nil), not an error.
type Prober interface {
	ReadTags(path string) (*Tags, error)
}

// FileProber reads ID3/Vorbis/MP4 tags directly from files.
type FileProber struct{}

// ReadTags opens the file and parses whatever tag format it carries.
// Unreadable or tag-less files return (nil, nil); only I/O failures on the
// file itself are errors.
func (FileProber) ReadTags(path string) (*Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open for tag read: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// No recognizable tags. Filename parsing takes over.
		return nil, nil
	}

	t := &Tags{
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Year:        m.Year(),
		Codec:       codecFromFileType(m.FileType(), path),
	}
	t.Track, _ = m.Track()
	t.Disc, _ = m.Disc()

	if fi, err := f.Stat(); err == nil {
		readStreamInfo(f, fi.Size(), t)
	}
	return t, nil
}

// codecFromFileType maps the tag library's file type to a codec name,
// falling back to the extension when the type is ambiguous.
func codecFromFileType(ft tag.FileType, path string) string {
	switch ft {
	case tag.FLAC:
		return "flac"
	case tag.MP3:
		return "mp3"
	case tag.OGG:
		return "ogg"
	case tag.ALAC:
		return "alac"
	case tag.M4A, tag.M4B, tag.M4P:
		return "aac"
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
