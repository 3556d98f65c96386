// ABOUTME: Per-batch CSV report writer
// ABOUTME: Collects apply outcome rows and saves them as a timestamped CSV
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/adrg/xdg"
)

// Session accumulates one row per processed card and writes them out as a
// single CSV when the batch finishes.
type Session struct {
	SessionID string
	rows      []map[string]string
}

// NewSession creates a report session stamped with the current time.
func NewSession() *Session {
	return &Session{SessionID: time.Now().Format("20060102-150405")}
}

// Append adds one outcome row.
func (s *Session) Append(row map[string]string) {
	s.rows = append(s.rows, row)
}

// Rows returns the accumulated rows.
func (s *Session) Rows() []map[string]string {
	return s.rows
}

// DefaultDir returns the XDG state path for CSV reports.
func DefaultDir() string {
	return filepath.Join(xdg.StateHome, "meishi", "logs")
}

// SaveCSV writes all rows to dir/log-<session>.csv. The header is the sorted
// union of row keys; a session with no rows still produces a file with the
// standard columns.
func (s *Session) SaveCSV(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	keys := make(map[string]struct{})
	for _, row := range s.rows {
		for k := range row {
			keys[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)
	if len(header) == 0 {
		header = []string{"timestamp", "action", "resourceName", "status", "reason"}
	}

	path := filepath.Join(dir, fmt.Sprintf("log-%s.csv", s.SessionID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, row := range s.rows {
		record := make([]string, len(header))
		for i, k := range header {
			record[i] = row[k]
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// ListReports returns CSV report file names in dir, newest name last.
func ListReports(dir string) ([]string, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".csv" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
