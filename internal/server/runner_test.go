package server

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/metadata"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := library.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunner_SyncRootFolders(t *testing.T) {
	db := setupTestDB(t)
	lib := library.NewStore(db)

	musicDir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "unmounted")

	// A previously registered root whose directory has gone away.
	stale := &library.RootFolder{Path: missing, MediaType: library.MediaTypeTV, Accessible: true}
	require.NoError(t, lib.AddRootFolder(stale))

	r := NewRunner(db, Config{
		RootFolders: []RootFolder{{Path: musicDir, MediaType: library.MediaTypeMusic}},
	}, testLogger())

	require.NoError(t, r.syncRootFolders())

	roots, err := lib.ListRootFolders()
	require.NoError(t, err)
	require.Len(t, roots, 2)

	byPath := make(map[string]*library.RootFolder)
	for _, root := range roots {
		byPath[root.Path] = root
	}
	require.Contains(t, byPath, musicDir)
	assert.True(t, byPath[musicDir].Accessible)
	assert.Equal(t, library.MediaTypeMusic, byPath[musicDir].MediaType)
	assert.False(t, byPath[missing].Accessible, "vanished directory marked inaccessible")
}

func TestRunner_SyncRootFolders_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	lib := library.NewStore(db)
	dir := t.TempDir()

	r := NewRunner(db, Config{
		RootFolders: []RootFolder{{Path: dir, MediaType: library.MediaTypeBooks}},
	}, testLogger())

	require.NoError(t, r.syncRootFolders())
	require.NoError(t, r.syncRootFolders())

	roots, err := lib.ListRootFolders()
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

func TestRunner_StartupScanAndShutdown(t *testing.T) {
	db := setupTestDB(t)
	lib := library.NewStore(db)

	dir := t.TempDir()
	path := filepath.Join(dir, "Artist - Album (2020)", "01 - Song.flac")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	r := NewRunner(db, Config{
		ScanInterval: time.Hour,
		PollInterval: time.Hour,
		RootFolders:  []RootFolder{{Path: dir, MediaType: library.MediaTypeMusic}},
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Wait for the startup scan to land the file.
	require.Eventually(t, func() bool {
		roots, err := lib.ListRootFolders()
		if err != nil || len(roots) != 1 {
			return false
		}
		n, err := lib.CountFiles(roots[0].ID)
		return err == nil && n == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.True(t, err == nil || errors.Is(err, context.Canceled), "unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
}

func TestRunner_ImportsCompletedDownloads(t *testing.T) {
	db := setupTestDB(t)
	lib := library.NewStore(db)
	downloads := download.NewStore(db)

	libDir := t.TempDir()
	root := &library.RootFolder{Path: libDir, MediaType: library.MediaTypeMusic, Accessible: true}
	require.NoError(t, lib.AddRootFolder(root))

	artist := &library.Artist{RootFolderID: root.ID, Name: "Artist"}
	require.NoError(t, lib.AddArtist(artist))
	album := &library.Album{ArtistID: artist.ID, Title: "Album", Year: 2020}
	require.NoError(t, lib.AddAlbum(album))
	require.NoError(t, lib.AddTrack(&library.Track{AlbumID: album.ID, DiscNumber: 1, TrackNumber: 1, Title: "Song"}))

	srcDir := filepath.Join(t.TempDir(), "Artist - Album (2020)")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "01 - Song.flac"), []byte("audio"), 0o644))

	dl := &download.Download{
		OutputPath:  srcDir,
		Status:      download.StatusCompleted,
		ReleaseName: "Artist - Album (2020) FLAC",
		AlbumID:     &album.ID,
	}
	require.NoError(t, downloads.Add(dl))

	r := NewRunner(db, Config{
		ScanInterval: time.Hour,
		PollInterval: 20 * time.Millisecond,
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		got, err := downloads.Get(dl.ID)
		return err == nil && got.Status == download.StatusImported
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.True(t, err == nil || errors.Is(err, context.Canceled), "unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}

	// File moved into the library at its canonical path.
	dest := filepath.Join(libDir, "Artist", "[2020] Album", "01 - Song.flac")
	_, err := os.Stat(dest)
	require.NoError(t, err)
}

func TestNewRunner_Defaults(t *testing.T) {
	db := setupTestDB(t)
	r := NewRunner(db, Config{}, nil)
	require.NotNil(t, r.logger)
	assert.Equal(t, time.Hour, r.config.ScanInterval)
	assert.Equal(t, 15*time.Second, r.config.PollInterval)
}

// countingProvider counts upstream calls so cache hits are observable.
type countingProvider struct {
	searches int
}

func (p *countingProvider) SearchByTitle(ctx context.Context, title string, year int) ([]metadata.Candidate, error) {
	p.searches++
	return []metadata.Candidate{{ExternalID: "x-1", Title: title, Year: year}}, nil
}

func (p *countingProvider) GetDetailsByID(ctx context.Context, id string) (*metadata.Record, error) {
	return &metadata.Record{ExternalID: id, Title: "Title"}, nil
}

func TestCachedProviders_SecondLookupServedFromCache(t *testing.T) {
	db := setupTestDB(t)
	upstream := &countingProvider{}

	wrapped := CachedProviders(db, map[library.MediaType]metadata.Provider{
		library.MediaTypeMusic: upstream,
	}, time.Hour, testLogger())
	require.Len(t, wrapped, 1)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		cands, err := wrapped[library.MediaTypeMusic].SearchByTitle(ctx, "Album", 2020)
		require.NoError(t, err)
		require.Len(t, cands, 1)
	}
	assert.Equal(t, 1, upstream.searches)
}

func TestCachedProviders_NoneConfigured(t *testing.T) {
	db := setupTestDB(t)
	assert.Nil(t, CachedProviders(db, nil, time.Hour, testLogger()))
}
