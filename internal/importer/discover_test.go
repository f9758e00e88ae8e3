package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/shelfarr/internal/library"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func TestDiscover_ExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"01 - Song.flac",
		"02 - Song.FLAC", // case-insensitive
		"cover.jpg",
		"album.nfo",
		"CD2/01 - Other.mp3",
	)

	files, err := Discover(root, audioExtensions, DefaultSkipDir(library.MediaTypeMusic))
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestDiscover_SkipsJunkDirsForVideo(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"Movie.2020.1080p.mkv",
		"Sample/movie-sample.mkv",
		"Subs/movie.mkv",
		".hidden/stash.mkv",
	)

	files, err := Discover(root, videoExtensions, DefaultSkipDir(library.MediaTypeMovies))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Movie.2020.1080p.mkv", filepath.Base(files[0]))
}

func TestDiscover_AudioKeepsDiscFolders(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"CD1/01 - A.flac",
		"CD2/01 - B.flac",
		".hidden/x.flac",
	)

	files, err := Discover(root, audioExtensions, DefaultSkipDir(library.MediaTypeMusic))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "gone"), audioExtensions, nil)
	assert.Error(t, err)
}

func TestSelectPreferred(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		want    string
	}{
		{"epub beats pdf", []string{".pdf", ".epub"}, ".epub"},
		{"mobi beats azw3", []string{".azw3", ".mobi", ".cbr"}, ".mobi"},
		{"single candidate", []string{".djvu"}, ".djvu"},
		{"pdf beats comic formats", []string{".cbz", ".cbr", ".pdf"}, ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := make([]bookCandidate, len(tt.formats))
			for i, f := range tt.formats {
				books[i] = bookCandidate{Path: "book" + f, Format: f}
			}
			assert.Equal(t, tt.want, selectPreferred(books).Format)
		})
	}
}

func TestApplyMappings(t *testing.T) {
	mappings := []PathMapping{
		{RemotePrefix: "/remote/downloads", LocalPrefix: "/mnt/downloads"},
		{RemotePrefix: "/data", LocalPrefix: "/srv/data"},
	}

	assert.Equal(t, "/mnt/downloads/album", ApplyMappings("/remote/downloads/album", mappings))
	assert.Equal(t, "/srv/data/x", ApplyMappings("/data/x", mappings))
	assert.Equal(t, "/untouched/path", ApplyMappings("/untouched/path", mappings))
	assert.Equal(t, "/any/path", ApplyMappings("/any/path", nil))
}

func TestExtensionsFor(t *testing.T) {
	assert.True(t, ExtensionsFor(library.MediaTypeMusic)[".flac"])
	assert.True(t, ExtensionsFor(library.MediaTypeMovies)[".mkv"])
	assert.True(t, ExtensionsFor(library.MediaTypeTV)[".mp4"])
	assert.True(t, ExtensionsFor(library.MediaTypeBooks)[".epub"])
	assert.Nil(t, ExtensionsFor("unknown"))
}
