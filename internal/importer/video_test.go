package importer

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/library"
)

// seedEpisode creates a tv root folder, show, and one target episode.
func seedEpisode(t *testing.T, db *sql.DB, rootPath string, season, episode int) (*library.Episode, *library.Show) {
	t.Helper()
	lib := library.NewStore(db)

	root := &library.RootFolder{Path: rootPath, MediaType: library.MediaTypeTV, Accessible: true}
	require.NoError(t, lib.AddRootFolder(root))
	show := &library.Show{RootFolderID: root.ID, Title: "Show", Year: 2021}
	require.NoError(t, lib.AddShow(show))
	ep, _, err := lib.FindOrCreateEpisode(show.ID, season, episode)
	require.NoError(t, err)
	return ep, show
}

func TestImport_EpisodeNumberOnlyUsesTargetSeason(t *testing.T) {
	libRoot := t.TempDir()
	srcDir := filepath.Join(t.TempDir(), "Show.Ep03.720p.HDTV")
	writeFiles(t, srcDir, "Show Ep03.mkv")

	imp, db := setupImporter(t, stubProber{}, Config{})
	target, show := seedEpisode(t, db, libRoot, 2, 3)
	lib := library.NewStore(db)

	dls := download.NewStore(db)
	dl := &download.Download{OutputPath: srcDir, Status: download.StatusCompleted,
		ReleaseName: "Show.Ep03.720p.HDTV", EpisodeID: &target.ID}
	require.NoError(t, dls.Add(dl))

	result, err := imp.Import(context.Background(), dl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesImported)

	// The file lands on the grabbed episode, not on a phantom season 0.
	episodes, err := lib.ListEpisodes(show.ID)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, 2, episodes[0].SeasonNumber)
	assert.Equal(t, 3, episodes[0].EpisodeNumber)
	assert.True(t, episodes[0].HasFile)

	dest := filepath.Join(libRoot, "Show", "Season 02", "Show - S02E03.mkv")
	_, err = os.Stat(dest)
	require.NoError(t, err)
}

func TestImport_MultiEpisodeFileCreatesSiblings(t *testing.T) {
	libRoot := t.TempDir()
	srcDir := filepath.Join(t.TempDir(), "Show.S01E05E06.1080p.WEB-DL")
	writeFiles(t, srcDir, "Show.S01E05E06.1080p.WEB-DL.mkv")

	imp, db := setupImporter(t, stubProber{}, Config{})
	target, show := seedEpisode(t, db, libRoot, 1, 5)
	lib := library.NewStore(db)

	dls := download.NewStore(db)
	dl := &download.Download{OutputPath: srcDir, Status: download.StatusCompleted,
		ReleaseName: "Show.S01E05E06.1080p.WEB-DL", EpisodeID: &target.ID}
	require.NoError(t, dls.Add(dl))

	result, err := imp.Import(context.Background(), dl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesImported)

	// Both episodes exist; the file record hangs off the first.
	episodes, err := lib.ListEpisodes(show.ID)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, 5, episodes[0].EpisodeNumber)
	assert.Equal(t, 6, episodes[1].EpisodeNumber)
	assert.True(t, episodes[0].HasFile)

	file, err := lib.GetFileByEpisode(episodes[0].ID)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "WEBDL-1080p", file.Quality)
}

func TestVideoQualityLabel_ExtensionIsNotAToken(t *testing.T) {
	// A transport-stream container must not read as a telesync source.
	assert.Equal(t, "HDTV-720p", videoQualityLabel("/dl/Show.S01E01.720p.ts"))
}
