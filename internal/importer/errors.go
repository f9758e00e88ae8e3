package importer

import "errors"

var (
	// ErrDownloadNotFound indicates the download record doesn't exist.
	ErrDownloadNotFound = errors.New("download not found")

	// ErrDownloadNotReady indicates the download is not in an importable status.
	ErrDownloadNotReady = errors.New("download not in completed status")

	// ErrNoOutputPath indicates the download record has no output path.
	ErrNoOutputPath = errors.New("download has no output path")

	// ErrPathInaccessible indicates the source path is missing or unreadable.
	ErrPathInaccessible = errors.New("path not accessible")

	// ErrPathTimeout indicates the accessibility probe exceeded its bound,
	// typically an unmounted network share.
	ErrPathTimeout = errors.New("path probe timed out")

	// ErrNoFilesFound indicates no matching media files were discovered.
	ErrNoFilesFound = errors.New("no media files found")

	// ErrNoMatch indicates no library entity could be identified for the
	// content. Ambiguous candidates also land here: a wrong match is worse
	// than no match.
	ErrNoMatch = errors.New("no matching library entity")

	// ErrCopyFailed indicates the cross-device copy fallback failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrPathTraversal indicates a computed destination would escape the
	// root folder.
	ErrPathTraversal = errors.New("path traversal detected")
)
