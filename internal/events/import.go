package events

// Import event type identifiers.
const (
	EventImportStarted   = "import.started"
	EventImportCompleted = "import.completed"
	EventImportFailed    = "import.failed"
)

// ImportStarted is emitted when an import begins.
type ImportStarted struct {
	BaseEvent
	DownloadID int64  `json:"download_id,omitempty"` // 0 for path-triggered imports
	SourcePath string `json:"source_path"`
	MediaType  string `json:"media_type"`
}

// ImportCompleted is emitted when an import finishes with at least one file
// imported. Partial success still emits this event; per-file failures ride
// along in Errors.
type ImportCompleted struct {
	BaseEvent
	DownloadID    int64    `json:"download_id,omitempty"`
	SourcePath    string   `json:"source_path"`
	MediaType     string   `json:"media_type"`
	FilesImported int      `json:"files_imported"`
	FilesSkipped  int      `json:"files_skipped"`
	Errors        []string `json:"errors,omitempty"`
}

// ImportFailed is emitted when an import aborts with nothing imported.
type ImportFailed struct {
	BaseEvent
	DownloadID int64  `json:"download_id,omitempty"`
	SourcePath string `json:"source_path"`
	MediaType  string `json:"media_type"`
	Reason     string `json:"reason"`
}

// NewImportStarted creates an ImportStarted event.
func NewImportStarted(downloadID int64, sourcePath, mediaType string) *ImportStarted {
	return &ImportStarted{
		BaseEvent:  NewBaseEvent(EventImportStarted, "download", downloadID),
		DownloadID: downloadID,
		SourcePath: sourcePath,
		MediaType:  mediaType,
	}
}

// NewImportCompleted creates an ImportCompleted event.
func NewImportCompleted(downloadID int64, sourcePath, mediaType string, imported, skipped int, errs []string) *ImportCompleted {
	return &ImportCompleted{
		BaseEvent:     NewBaseEvent(EventImportCompleted, "download", downloadID),
		DownloadID:    downloadID,
		SourcePath:    sourcePath,
		MediaType:     mediaType,
		FilesImported: imported,
		FilesSkipped:  skipped,
		Errors:        errs,
	}
}

// NewImportFailed creates an ImportFailed event.
func NewImportFailed(downloadID int64, sourcePath, mediaType, reason string) *ImportFailed {
	return &ImportFailed{
		BaseEvent:  NewBaseEvent(EventImportFailed, "download", downloadID),
		DownloadID: downloadID,
		SourcePath: sourcePath,
		MediaType:  mediaType,
		Reason:     reason,
	}
}
