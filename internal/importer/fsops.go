package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// statPath is swapped out in tests to simulate hung network storage.
var statPath = os.Stat

// ProbePath checks that a path exists and responds within the timeout.
// A stat that never returns (unmounted NFS, dead SMB share) yields
// ErrPathTimeout; a missing or unreadable path yields ErrPathInaccessible.
// The two are distinguished because the fix differs: remount the share
// versus check the path.
func ProbePath(ctx context.Context, path string, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		_, err := statPath(path)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPathInaccessible, path, err)
		}
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("%w: %s did not respond within %s (network storage unmounted?)", ErrPathTimeout, path, timeout)
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %v", ErrPathInaccessible, path, ctx.Err())
	}
}

// MoveFile moves src to dst, creating parent directories. It attempts an
// atomic rename first and falls back to copy-then-delete when src and dst
// are on different filesystems. Returns the file size.
func MoveFile(src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	if err := os.Rename(src, dst); err == nil {
		return info.Size(), nil
	} else if !isCrossDevice(err) {
		return 0, fmt.Errorf("rename: %w", err)
	}

	size, err := copyFile(src, dst)
	if err != nil {
		return 0, err
	}
	if err := os.Remove(src); err != nil {
		return 0, fmt.Errorf("remove source after copy: %w", err)
	}
	return size, nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return errors.Is(err, syscall.EXDEV)
}

// copyFile copies src to dst and fsyncs before returning. A partial
// destination is removed on failure.
func copyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}

	size, err := io.Copy(dstFile, srcFile)
	if err != nil {
		_ = dstFile.Close()
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}

	if err := dstFile.Sync(); err != nil {
		_ = dstFile.Close()
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: sync: %v", ErrCopyFailed, err)
	}
	if err := dstFile.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: close: %v", ErrCopyFailed, err)
	}

	return size, nil
}

// ValidatePath ensures path resolves under root.
func ValidatePath(path, root string) error {
	cleanPath := filepath.Clean(path)
	cleanRoot := filepath.Clean(root)

	prefix := cleanRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	if cleanPath != cleanRoot && !strings.HasPrefix(cleanPath, prefix) {
		return fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, path, root)
	}
	return nil
}

// junkExtensions are sidecar files deleted during source cleanup.
var junkExtensions = map[string]bool{
	".nfo": true,
	".sfv": true,
	".txt": true,
	".url": true,
	".nzb": true,
	".m3u": true,
	".cue": true,
	".log": true,
	".srr": true,
}

// CleanSource removes known junk files under root, then removes empty
// directories bottom-up, then root itself if empty. Only called after at
// least one file was imported; a failed import leaves the source untouched
// for inspection.
func CleanSource(root string) error {
	var dirs []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if junkExtensions[strings.ToLower(filepath.Ext(path))] {
			_ = os.Remove(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clean source: %w", err)
	}

	// Deepest directories first so parents empty out as children go.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i]) // fails silently when non-empty
	}
	return nil
}
