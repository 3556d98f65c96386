// ABOUTME: Scan log database operations
// ABOUTME: Records per-card apply outcomes for auditing and the logs command
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/meishi/models"
)

// LogScan records the outcome of one processed card.
func LogScan(db *sql.DB, entry *models.ScanEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO scan_log (id, batch_id, file_name, action, status, reason, resource_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.BatchID, entry.FileName, entry.Action, entry.Status, entry.Reason, entry.ResourceName, entry.CreatedAt)

	return err
}

// ListScans returns recent scan log entries, newest first. An empty batchID
// lists across all batches.
func ListScans(db *sql.DB, batchID string, limit int) ([]models.ScanEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error

	if batchID != "" {
		rows, err = db.Query(`
			SELECT id, batch_id, COALESCE(file_name, ''), COALESCE(action, ''), status,
			       COALESCE(reason, ''), COALESCE(resource_name, ''), created_at
			FROM scan_log
			WHERE batch_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		`, batchID, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, batch_id, COALESCE(file_name, ''), COALESCE(action, ''), status,
			       COALESCE(reason, ''), COALESCE(resource_name, ''), created_at
			FROM scan_log
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScanEntry
	for rows.Next() {
		var e models.ScanEntry
		if err := rows.Scan(&e.ID, &e.BatchID, &e.FileName, &e.Action, &e.Status, &e.Reason, &e.ResourceName, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
