// ABOUTME: Draft batch persistence between scan and apply
// ABOUTME: Stores scan batches as JSON files under the XDG state directory
package drafts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/harperreed/meishi/models"
)

// Store keeps draft batches on disk so a scan can be reviewed and applied in
// separate invocations.
type Store struct {
	dir string
}

// DefaultDir returns the XDG state path for draft batches.
func DefaultDir() string {
	return filepath.Join(xdg.StateHome, "meishi", "batches")
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create batch directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) batchPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) activePath() string {
	return filepath.Join(s.dir, "active")
}

// Save writes the batch and marks it active.
func (s *Store) Save(batch *models.Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}
	if err := os.WriteFile(s.batchPath(batch.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}
	return os.WriteFile(s.activePath(), []byte(batch.ID), 0600)
}

// Load reads one batch by id. A missing or unreadable draft returns nil.
func (s *Store) Load(id string) (*models.Batch, error) {
	data, err := os.ReadFile(s.batchPath(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var batch models.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, nil
	}
	return &batch, nil
}

// ActiveID returns the id of the most recently saved batch, or "".
func (s *Store) ActiveID() string {
	data, err := os.ReadFile(s.activePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Delete removes a batch draft and clears the active marker when it points
// at the deleted batch.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.batchPath(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	if s.ActiveID() == id {
		_ = os.Remove(s.activePath())
	}
	return nil
}

// List returns the ids of all stored drafts.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}
