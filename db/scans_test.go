// ABOUTME: Tests for scan log operations
// ABOUTME: Covers logging apply outcomes and batch-filtered listing
package db

import (
	"testing"
	"time"

	"github.com/harperreed/meishi/models"
)

func TestLogScanAssignsIDAndTimestamp(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	entry := &models.ScanEntry{
		BatchID:  "batch-1",
		FileName: "card.jpg",
		Action:   models.ActionCreate,
		Status:   models.StatusSuccess,
	}
	if err := LogScan(database, entry); err != nil {
		t.Fatalf("LogScan failed: %v", err)
	}
	if entry.ID == "" {
		t.Error("Expected an ID to be assigned")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Expected a timestamp to be assigned")
	}
}

func TestListScansFiltersByBatch(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	entries := []*models.ScanEntry{
		{BatchID: "batch-1", FileName: "a.jpg", Action: models.ActionCreate, Status: models.StatusSuccess},
		{BatchID: "batch-1", FileName: "b.jpg", Action: models.ActionUpdate, Status: models.StatusSuccess, ResourceName: "people/c1"},
		{BatchID: "batch-2", FileName: "c.jpg", Action: models.ActionSkip, Status: models.StatusSkipped, Reason: "完全相同"},
	}
	for _, e := range entries {
		if err := LogScan(database, e); err != nil {
			t.Fatalf("LogScan failed: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	got, err := ListScans(database, "batch-1", 0)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries for batch-1, got %d", len(got))
	}
	// Newest first
	if got[0].FileName != "b.jpg" {
		t.Errorf("Expected b.jpg first, got %s", got[0].FileName)
	}
	if got[0].ResourceName != "people/c1" {
		t.Errorf("Expected resource name to round-trip, got %q", got[0].ResourceName)
	}

	all, err := ListScans(database, "", 0)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 entries across batches, got %d", len(all))
	}
	if all[0].Reason != "完全相同" {
		t.Errorf("Expected skip reason to round-trip, got %q", all[0].Reason)
	}
}

func TestListScansLimit(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	for i := 0; i < 5; i++ {
		entry := &models.ScanEntry{BatchID: "batch-1", Status: models.StatusSuccess}
		if err := LogScan(database, entry); err != nil {
			t.Fatalf("LogScan failed: %v", err)
		}
	}

	got, err := ListScans(database, "", 3)
	if err != nil {
		t.Fatalf("ListScans failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 entries with limit 3, got %d", len(got))
	}
}
