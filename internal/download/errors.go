package download

import "errors"

var (
	// ErrNotFound indicates the download record doesn't exist.
	ErrNotFound = errors.New("download not found")

	// ErrInvalidTransition indicates a disallowed status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)
