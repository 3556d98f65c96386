// ABOUTME: Batch reconciliation pipeline for scanned cards
// ABOUTME: Decides create/update/skip per record and applies it to Google Contacts
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"google.golang.org/api/people/v1"

	"github.com/harperreed/meishi/db"
	"github.com/harperreed/meishi/match"
	"github.com/harperreed/meishi/models"
	"github.com/harperreed/meishi/report"
)

// ContactsAPI is the remote contact store surface the reconciler drives.
// *People implements it against the Google People API.
type ContactsAPI interface {
	ListConnections(ctx context.Context) ([]*people.Person, error)
	CreateContact(ctx context.Context, record models.CardRecord) (*people.Person, error)
	UpdateContact(ctx context.Context, resourceName string, updates *match.Updates, etag string) (*people.Person, error)
	UpdateContactPhoto(ctx context.Context, resourceName, imagePath string) (*people.Person, error)
}

// Reconciler applies a draft batch against the user's contact list. Records
// are processed in upload order; per-record failures become failed rows and
// never abort the batch.
type Reconciler struct {
	api      ContactsAPI
	database *sql.DB
	userKey  string

	// DryRun stops after deciding: nothing is written remotely and no
	// quota is deducted.
	DryRun bool
}

// NewReconciler creates a reconciler. database may be nil when quota and
// scan-log persistence are not wanted (dry runs, tests).
func NewReconciler(api ContactsAPI, database *sql.DB, userKey string) *Reconciler {
	return &Reconciler{api: api, database: database, userKey: userKey}
}

// Run reconciles every record of the batch and returns one scan entry per
// card. Rows are also appended to session when non-nil.
func (r *Reconciler) Run(ctx context.Context, batch *models.Batch, session *report.Session) ([]models.ScanEntry, error) {
	existing, err := r.api.ListConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing contacts: %w", err)
	}

	entries := make([]models.ScanEntry, 0, len(batch.Records))
	for i, record := range batch.Records {
		entry := models.ScanEntry{
			BatchID:   batch.ID,
			CreatedAt: time.Now(),
		}
		if i < len(batch.FileNames) {
			entry.FileName = batch.FileNames[i]
		}
		imagePath := ""
		if i < len(batch.ImagePaths) {
			imagePath = batch.ImagePaths[i]
		}

		if i < len(batch.Skip) && batch.Skip[i] {
			entry.Action = models.ActionSkip
			entry.Status = models.StatusSkipped
			entry.Reason = "使用者略過"
			entries = append(entries, r.record(entry, session))
			continue
		}

		decision := match.Decide(record, existing)
		entry.Action = decision.Action

		if r.DryRun {
			entry.Status = models.StatusPlanned
			if decision.Matched != nil {
				entry.ResourceName = decision.Matched.ResourceName
			}
			entries = append(entries, r.record(entry, session))
			continue
		}

		existing = r.apply(ctx, record, imagePath, decision, existing, &entry)
		entries = append(entries, r.record(entry, session))
	}

	return entries, nil
}

// apply performs the decided action remotely and returns the refreshed
// existing-contacts snapshot so later cards in the batch see this one.
func (r *Reconciler) apply(ctx context.Context, record models.CardRecord, imagePath string, decision match.Decision, existing []*people.Person, entry *models.ScanEntry) []*people.Person {
	switch decision.Action {
	case models.ActionCreate:
		created, err := r.api.CreateContact(ctx, record)
		if err != nil {
			entry.Status = models.StatusFailed
			entry.Reason = err.Error()
			return existing
		}
		entry.Status = models.StatusSuccess
		entry.ResourceName = created.ResourceName
		if withPhoto, photoErr := r.api.UpdateContactPhoto(ctx, created.ResourceName, imagePath); photoErr == nil && withPhoto != nil {
			created = withPhoto
		}
		r.deduct(entry)
		return append(existing, created)

	case models.ActionUpdate:
		resourceName := decision.Matched.ResourceName
		if resourceName == "" {
			entry.Status = models.StatusFailed
			entry.Reason = "matched contact has no resourceName"
			return existing
		}
		updated, err := r.api.UpdateContact(ctx, resourceName, decision.Updates, EtagFor(decision.Matched))
		if err != nil {
			entry.Status = models.StatusFailed
			entry.Reason = err.Error()
			return existing
		}
		entry.Status = models.StatusSuccess
		entry.ResourceName = resourceName
		if withPhoto, photoErr := r.api.UpdateContactPhoto(ctx, resourceName, imagePath); photoErr == nil && withPhoto != nil {
			updated = withPhoto
		}
		r.deduct(entry)
		return replacePerson(existing, resourceName, updated)

	default: // skip: identical contact, nothing to change
		entry.Status = models.StatusUnchanged
		entry.Reason = "完全相同"
		if decision.Matched != nil {
			entry.ResourceName = decision.Matched.ResourceName
			if withPhoto, photoErr := r.api.UpdateContactPhoto(ctx, decision.Matched.ResourceName, imagePath); photoErr == nil && withPhoto != nil {
				existing = replacePerson(existing, decision.Matched.ResourceName, withPhoto)
			}
		}
		return existing
	}
}

func (r *Reconciler) deduct(entry *models.ScanEntry) {
	if r.database == nil || r.userKey == "" {
		return
	}
	if err := db.DeductQuota(r.database, r.userKey, 1); err != nil {
		// The card is already applied; record the accounting failure
		// without failing the row.
		entry.Reason = fmt.Sprintf("quota deduction failed: %v", err)
	}
}

func (r *Reconciler) record(entry models.ScanEntry, session *report.Session) models.ScanEntry {
	if session != nil {
		session.Append(map[string]string{
			"timestamp":    entry.CreatedAt.Format(time.RFC3339),
			"filename":     entry.FileName,
			"action":       entry.Action,
			"status":       entry.Status,
			"reason":       entry.Reason,
			"resourceName": entry.ResourceName,
		})
	}
	if r.database != nil {
		if err := db.LogScan(r.database, &entry); err != nil {
			fmt.Printf("  ✗ Failed to write scan log: %v\n", err)
		}
	}
	return entry
}

func replacePerson(existing []*people.Person, resourceName string, replacement *people.Person) []*people.Person {
	if replacement == nil {
		return existing
	}
	for i, person := range existing {
		if person != nil && person.ResourceName == resourceName {
			existing[i] = replacement
			return existing
		}
	}
	return append(existing, replacement)
}
