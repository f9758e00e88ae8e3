package events

// Scan event type identifiers.
const (
	EventScanStarted   = "scan.started"
	EventScanCompleted = "scan.completed"
	EventScanFailed    = "scan.failed"
)

// ScanStarted is emitted when a library scan of a root folder begins.
type ScanStarted struct {
	BaseEvent
	RootFolderID int64  `json:"root_folder_id"`
	Path         string `json:"path"`
	MediaType    string `json:"media_type"`
}

// ScanCompleted is emitted when a scan finishes.
type ScanCompleted struct {
	BaseEvent
	RootFolderID int64  `json:"root_folder_id"`
	Path         string `json:"path"`
	MediaType    string `json:"media_type"`
	FilesSeen    int    `json:"files_seen"`
	FilesAdded   int    `json:"files_added"`
	FilesUpdated int    `json:"files_updated"`
}

// ScanFailed is emitted when a scan aborts.
type ScanFailed struct {
	BaseEvent
	RootFolderID int64  `json:"root_folder_id"`
	Path         string `json:"path"`
	MediaType    string `json:"media_type"`
	Reason       string `json:"reason"`
}

// NewScanStarted creates a ScanStarted event.
func NewScanStarted(rootFolderID int64, path, mediaType string) *ScanStarted {
	return &ScanStarted{
		BaseEvent:    NewBaseEvent(EventScanStarted, "root_folder", rootFolderID),
		RootFolderID: rootFolderID,
		Path:         path,
		MediaType:    mediaType,
	}
}

// NewScanCompleted creates a ScanCompleted event.
func NewScanCompleted(rootFolderID int64, path, mediaType string, seen, added, updated int) *ScanCompleted {
	return &ScanCompleted{
		BaseEvent:    NewBaseEvent(EventScanCompleted, "root_folder", rootFolderID),
		RootFolderID: rootFolderID,
		Path:         path,
		MediaType:    mediaType,
		FilesSeen:    seen,
		FilesAdded:   added,
		FilesUpdated: updated,
	}
}

// NewScanFailed creates a ScanFailed event.
func NewScanFailed(rootFolderID int64, path, mediaType, reason string) *ScanFailed {
	return &ScanFailed{
		BaseEvent:    NewBaseEvent(EventScanFailed, "root_folder", rootFolderID),
		RootFolderID: rootFolderID,
		Path:         path,
		MediaType:    mediaType,
		Reason:       reason,
	}
}
