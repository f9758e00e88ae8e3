package library

import (
	"fmt"
	"time"
)

func addRootFolder(q querier, r *RootFolder) error {
	if r.ScanStatus == "" {
		r.ScanStatus = ScanIdle
	}
	result, err := q.Exec(`
		INSERT INTO root_folders (path, media_type, accessible, scan_status, last_scanned_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.Path, r.MediaType, r.Accessible, r.ScanStatus, r.LastScannedAt,
	)
	if err != nil {
		return fmt.Errorf("insert root folder: %w", mapSQLiteError(err))
	}
	r.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	return nil
}

// AddRootFolder inserts a new root folder. Sets ID on the struct.
func (s *Store) AddRootFolder(r *RootFolder) error { return addRootFolder(s.db, r) }

func getRootFolder(q querier, id int64) (*RootFolder, error) {
	r := &RootFolder{}
	err := q.QueryRow(`
		SELECT id, path, media_type, accessible, scan_status, last_scanned_at
		FROM root_folders WHERE id = ?`, id,
	).Scan(&r.ID, &r.Path, &r.MediaType, &r.Accessible, &r.ScanStatus, &r.LastScannedAt)
	if err != nil {
		return nil, fmt.Errorf("get root folder %d: %w", id, mapSQLiteError(err))
	}
	return r, nil
}

// GetRootFolder retrieves a root folder by ID.
// Returns ErrNotFound if it does not exist.
func (s *Store) GetRootFolder(id int64) (*RootFolder, error) { return getRootFolder(s.db, id) }

// ListRootFolders returns all root folders, accessible or not.
func (s *Store) ListRootFolders() ([]*RootFolder, error) {
	rows, err := s.db.Query(`
		SELECT id, path, media_type, accessible, scan_status, last_scanned_at
		FROM root_folders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list root folders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*RootFolder
	for rows.Next() {
		r := &RootFolder{}
		if err := rows.Scan(&r.ID, &r.Path, &r.MediaType, &r.Accessible, &r.ScanStatus, &r.LastScannedAt); err != nil {
			return nil, fmt.Errorf("scan root folder: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SetScanStatus updates the persisted scan status. Completed and failed
// scans also record the scan time.
func (s *Store) SetScanStatus(id int64, status ScanStatus) error {
	var err error
	if status == ScanCompleted || status == ScanFailed {
		now := time.Now()
		_, err = s.db.Exec(`UPDATE root_folders SET scan_status = ?, last_scanned_at = ? WHERE id = ?`, status, now, id)
	} else {
		_, err = s.db.Exec(`UPDATE root_folders SET scan_status = ? WHERE id = ?`, status, id)
	}
	if err != nil {
		return fmt.Errorf("set scan status: %w", mapSQLiteError(err))
	}
	return nil
}

// SetAccessible updates the accessibility flag.
func (s *Store) SetAccessible(id int64, accessible bool) error {
	if _, err := s.db.Exec(`UPDATE root_folders SET accessible = ? WHERE id = ?`, accessible, id); err != nil {
		return fmt.Errorf("set accessible: %w", mapSQLiteError(err))
	}
	return nil
}
