package scanner

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/library"
)

// blockingLister parks the first List call until released, so a scan can be
// held in flight from a test.
type blockingLister struct {
	entered  chan struct{}
	release  chan struct{}
	delegate Lister
}

func newBlockingLister() *blockingLister {
	return &blockingLister{
		entered:  make(chan struct{}, 1),
		release:  make(chan struct{}),
		delegate: OSLister{},
	}
}

func (l *blockingLister) List(dir string) ([]fs.DirEntry, error) {
	select {
	case l.entered <- struct{}{}:
	default:
	}
	<-l.release
	return l.delegate.List(dir)
}

func TestCoordinator_ScanLifecycle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Artist - Album (2020)/01 - Song.flac")

	db := openDB(t)
	lib := library.NewStore(db)
	root := addRoot(t, db, dir, library.MediaTypeMusic)

	bus := events.NewBus(nil, testLogger())
	defer bus.Close()
	ch := bus.SubscribeAll(8)

	s := New(db, stubProber{}, nil, nil, testLogger())
	c := NewCoordinator(db, s, bus, testLogger())

	result, err := c.ScanRootFolder(context.Background(), root.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesAdded)

	updated, err := lib.GetRootFolder(root.ID)
	require.NoError(t, err)
	assert.Equal(t, library.ScanCompleted, updated.ScanStatus)
	require.NotNil(t, updated.LastScannedAt)

	types := collectEventTypes(t, ch, 2)
	assert.Equal(t, []string{events.EventScanStarted, events.EventScanCompleted}, types)
}

func collectEventTypes(t *testing.T, ch <-chan events.Event, n int) []string {
	t.Helper()
	var types []string
	for len(types) < n {
		select {
		case e := <-ch:
			types = append(types, e.EventType())
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", len(types)+1, n)
		}
	}
	return types
}

func TestCoordinator_RejectsConcurrentScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Artist - Album (2020)/01 - Song.flac")

	db := openDB(t)
	root := addRoot(t, db, dir, library.MediaTypeMusic)

	lister := newBlockingLister()
	s := New(db, stubProber{}, nil, lister, testLogger())
	c := NewCoordinator(db, s, nil, testLogger())

	done := make(chan error, 1)
	go func() {
		_, err := c.ScanRootFolder(context.Background(), root.ID)
		done <- err
	}()

	select {
	case <-lister.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first scan never started walking")
	}

	// Second request for the same root is rejected immediately, not queued.
	_, err := c.ScanRootFolder(context.Background(), root.ID)
	assert.ErrorIs(t, err, ErrScanInProgress)

	close(lister.release)
	require.NoError(t, <-done)

	// The slot is freed once the first scan finishes.
	_, err = c.ScanRootFolder(context.Background(), root.ID)
	require.NoError(t, err)
}

func TestCoordinator_PerFileErrorsMarkFailed(t *testing.T) {
	dir := t.TempDir()
	// No track number anywhere, so the file cannot be identified.
	writeFiles(t, dir, "Artist - Album (2020)/garbage.flac")

	db := openDB(t)
	lib := library.NewStore(db)
	root := addRoot(t, db, dir, library.MediaTypeMusic)

	s := New(db, stubProber{}, nil, nil, testLogger())
	c := NewCoordinator(db, s, nil, testLogger())

	result, err := c.ScanRootFolder(context.Background(), root.ID)
	require.NoError(t, err, "per-file errors complete the scan")
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, 0, result.FilesAdded)

	updated, err := lib.GetRootFolder(root.ID)
	require.NoError(t, err)
	assert.Equal(t, library.ScanFailed, updated.ScanStatus)
}

func TestCoordinator_UnknownRootFolder(t *testing.T) {
	db := openDB(t)
	s := New(db, stubProber{}, nil, nil, testLogger())
	c := NewCoordinator(db, s, nil, testLogger())

	_, err := c.ScanRootFolder(context.Background(), 999)
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func TestCoordinator_ScanAllSkipsInaccessible(t *testing.T) {
	musicDir := t.TempDir()
	writeFiles(t, musicDir, "Artist - Album (2020)/01 - Song.flac")
	movieDir := t.TempDir()
	writeFiles(t, movieDir, "Heat (1995)/Heat.1995.1080p.BluRay.mkv")

	db := openDB(t)
	lib := library.NewStore(db)
	musicRoot := addRoot(t, db, musicDir, library.MediaTypeMusic)
	movieRoot := addRoot(t, db, movieDir, library.MediaTypeMovies)
	offline := addRoot(t, db, "/mnt/unplugged", library.MediaTypeTV)
	require.NoError(t, lib.SetAccessible(offline.ID, false))

	s := New(db, stubProber{}, nil, nil, testLogger())
	c := NewCoordinator(db, s, nil, testLogger())

	results, err := c.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, musicRoot.ID, results[0].RootFolderID)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].Result.FilesAdded)

	assert.Equal(t, movieRoot.ID, results[1].RootFolderID)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 1, results[1].Result.FilesAdded)
}

func TestCoordinator_ScanFailureKeepsOthersGoing(t *testing.T) {
	goodDir := t.TempDir()
	writeFiles(t, goodDir, "Artist - Album (2020)/01 - Song.flac")

	db := openDB(t)
	badRoot := addRoot(t, db, "/nonexistent/path", library.MediaTypeMusic)
	goodRoot := addRoot(t, db, goodDir, library.MediaTypeMusic)

	s := New(db, stubProber{}, nil, nil, testLogger())
	c := NewCoordinator(db, s, nil, testLogger())

	results, err := c.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, badRoot.ID, results[0].RootFolderID)
	assert.Error(t, results[0].Err)

	assert.Equal(t, goodRoot.ID, results[1].RootFolderID)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 1, results[1].Result.FilesAdded)
}
