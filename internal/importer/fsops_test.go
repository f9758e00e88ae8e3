package importer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbePath_Exists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ProbePath(context.Background(), dir, time.Second))
}

func TestProbePath_Inaccessible(t *testing.T) {
	err := ProbePath(context.Background(), "/no/such/path/at/all", time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathInaccessible)
	assert.NotErrorIs(t, err, ErrPathTimeout)
	assert.Contains(t, err.Error(), "/no/such/path/at/all")
}

func TestProbePath_Timeout(t *testing.T) {
	orig := statPath
	statPath = func(string) (fs.FileInfo, error) {
		time.Sleep(500 * time.Millisecond)
		return nil, nil
	}
	t.Cleanup(func() { statPath = orig })

	err := ProbePath(context.Background(), "/mnt/hung-share", 20*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathTimeout)
	assert.NotErrorIs(t, err, ErrPathInaccessible)
}

func TestMoveFile_Rename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "a.flac")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("audio"), 0o644))

	dst := filepath.Join(dir, "dest", "nested", "a.flac")
	size, err := MoveFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone")
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))
}

func TestMoveFile_MissingSource(t *testing.T) {
	_, err := MoveFile(filepath.Join(t.TempDir(), "missing.flac"), filepath.Join(t.TempDir(), "out.flac"))
	assert.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mkv")
	require.NoError(t, os.WriteFile(src, []byte("video content"), 0o644))

	dst := filepath.Join(dir, "out.mkv")
	size, err := copyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(13), size)

	// Source survives a copy.
	_, err = os.Stat(src)
	require.NoError(t, err)
}

func TestValidatePath(t *testing.T) {
	require.NoError(t, ValidatePath("/library/Artist/song.flac", "/library"))
	require.NoError(t, ValidatePath("/library", "/library"))

	err := ValidatePath("/library/../etc/passwd", "/library")
	assert.ErrorIs(t, err, ErrPathTraversal)

	err = ValidatePath("/elsewhere/song.flac", "/library")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestCleanSource(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "Artist - Album (2020)")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "readme.nfo"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "checksums.sfv"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	require.NoError(t, CleanSource(root))

	_, err := os.Stat(root)
	assert.True(t, os.IsNotExist(err), "emptied root should be removed")
}

func TestCleanSource_KeepsNonJunk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "leftover.flac"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.nfo"), []byte("x"), 0o644))

	require.NoError(t, CleanSource(root))

	_, err := os.Stat(filepath.Join(root, "leftover.flac"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "notes.nfo"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(root)
	require.NoError(t, err, "root with remaining files stays")
}
