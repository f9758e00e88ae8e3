package scanner

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/library"
)

// Coordinator serializes scans per root folder. The in-flight set is owned
// by the instance and lost on restart, which is fine: a restart means any
// in-flight scan is dead anyway. The persisted scan status on the root
// folder row is for observers, not for re-entrancy.
type Coordinator struct {
	scanner *Scanner
	library *library.Store
	bus     *events.Bus // nil disables event publication
	log     *slog.Logger

	mu       sync.Mutex
	inFlight map[int64]bool
}

// NewCoordinator creates a coordinator around a scanner.
func NewCoordinator(db *sql.DB, scanner *Scanner, bus *events.Bus, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		scanner:  scanner,
		library:  library.NewStore(db),
		bus:      bus,
		log:      log,
		inFlight: make(map[int64]bool),
	}
}

func (c *Coordinator) acquire(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[id] {
		return false
	}
	c.inFlight[id] = true
	return true
}

func (c *Coordinator) release(id int64) {
	c.mu.Lock()
	delete(c.inFlight, id)
	c.mu.Unlock()
}

// ScanRootFolder runs a scan for one root folder. A concurrent call for the
// same root returns ErrScanInProgress immediately; it never queues or
// blocks.
func (c *Coordinator) ScanRootFolder(ctx context.Context, id int64) (*Result, error) {
	if !c.acquire(id) {
		return nil, fmt.Errorf("%w: root folder %d", ErrScanInProgress, id)
	}
	defer c.release(id)

	root, err := c.library.GetRootFolder(id)
	if err != nil {
		return nil, fmt.Errorf("get root folder: %w", err)
	}

	if err := c.library.SetScanStatus(id, library.ScanScanning); err != nil {
		return nil, fmt.Errorf("mark scanning: %w", err)
	}
	c.publish(ctx, events.NewScanStarted(id, root.Path, string(root.MediaType)))
	c.log.Info("scan started", "root_folder_id", id, "path", root.Path, "media_type", root.MediaType)

	result, err := c.scanner.Scan(ctx, root)
	if err != nil {
		if serr := c.library.SetScanStatus(id, library.ScanFailed); serr != nil {
			c.log.Warn("mark scan failed", "root_folder_id", id, "error", serr)
		}
		c.publish(ctx, events.NewScanFailed(id, root.Path, string(root.MediaType), err.Error()))
		return nil, err
	}

	// Per-file errors still complete the scan; the status reflects whether
	// the run was clean.
	status := library.ScanCompleted
	if len(result.Errors) > 0 {
		status = library.ScanFailed
	}
	if serr := c.library.SetScanStatus(id, status); serr != nil {
		c.log.Warn("set scan status", "root_folder_id", id, "error", serr)
	}

	c.publish(ctx, events.NewScanCompleted(id, root.Path, string(root.MediaType),
		result.FilesSeen, result.FilesAdded, result.FilesUpdated))
	c.log.Info("scan complete", "root_folder_id", id,
		"seen", result.FilesSeen, "added", result.FilesAdded,
		"updated", result.FilesUpdated, "errors", len(result.Errors))
	return result, nil
}

// RootResult pairs a root folder with its scan outcome.
type RootResult struct {
	RootFolderID int64
	Result       *Result
	Err          error
}

// ScanAll scans every accessible root folder sequentially. Sequential is
// deliberate: it bounds filesystem and database load. One root failing does
// not stop the rest.
func (c *Coordinator) ScanAll(ctx context.Context) ([]RootResult, error) {
	roots, err := c.library.ListRootFolders()
	if err != nil {
		return nil, fmt.Errorf("list root folders: %w", err)
	}

	var results []RootResult
	for _, root := range roots {
		if !root.Accessible {
			c.log.Debug("skipping inaccessible root", "root_folder_id", root.ID, "path", root.Path)
			continue
		}
		result, err := c.ScanRootFolder(ctx, root.ID)
		results = append(results, RootResult{RootFolderID: root.ID, Result: result, Err: err})
	}
	return results, nil
}

func (c *Coordinator) publish(ctx context.Context, e events.Event) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(ctx, e); err != nil {
		c.log.Warn("publish event", "type", e.EventType(), "error", err)
	}
}
