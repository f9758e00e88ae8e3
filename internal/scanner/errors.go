package scanner

import "errors"

var (
	// ErrScanInProgress indicates a scan is already running for the root
	// folder. The caller must retry later; scans are never queued.
	ErrScanInProgress = errors.New("scan already in progress")

	// ErrUnknownMediaType indicates the root folder's media type has no
	// scanner.
	ErrUnknownMediaType = errors.New("unknown media type")
)
