// ABOUTME: Apply CLI command
// ABOUTME: Reconciles the draft batch against Google Contacts and writes the report
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/meishi/db"
	"github.com/harperreed/meishi/drafts"
	"github.com/harperreed/meishi/models"
	"github.com/harperreed/meishi/report"
	"github.com/harperreed/meishi/sync"
)

// ApplyCommand reconciles a draft batch: each card becomes a create, an
// update, or a skip against the user's Google Contacts.
func ApplyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	userKey := fs.String("user", "", "Quota account key (required unless --dry-run)")
	batchID := fs.String("batch", "", "Batch ID (default: active batch)")
	dryRun := fs.Bool("dry-run", false, "Decide actions without writing anything")
	_ = fs.Parse(args)

	if *userKey == "" && !*dryRun {
		return fmt.Errorf("--user is required (or use --dry-run)")
	}

	store, err := drafts.NewStore("")
	if err != nil {
		return err
	}
	id := *batchID
	if id == "" {
		id = store.ActiveID()
	}
	if id == "" {
		return fmt.Errorf("no active batch. Run 'meishi scan' first")
	}
	batch, err := store.Load(id)
	if err != nil {
		return err
	}
	if batch == nil {
		return fmt.Errorf("batch %s not found", id)
	}

	needed := 0
	for i := range batch.Records {
		if i < len(batch.Skip) && batch.Skip[i] {
			continue
		}
		needed++
	}

	if !*dryRun && needed > 0 {
		ok, err := db.HasQuota(database, *userKey, needed)
		if err != nil {
			return fmt.Errorf("failed to check quota: %w", err)
		}
		if !ok {
			return fmt.Errorf("insufficient quota for %d card(s); run 'meishi quota add --user %s'", needed, *userKey)
		}
	}

	token, err := sync.LoadToken()
	if err != nil {
		return fmt.Errorf("not authenticated. Run 'meishi auth login' first")
	}
	service, err := sync.NewPeopleClient(token)
	if err != nil {
		return err
	}

	reconciler := sync.NewReconciler(sync.NewPeople(service), database, *userKey)
	reconciler.DryRun = *dryRun

	session := report.NewSession()

	fmt.Printf("Applying batch %s (%d card(s))...\n", batch.ID, len(batch.Records))

	entries, err := reconciler.Run(context.Background(), batch, session)
	if err != nil {
		return err
	}

	created, updated, unchanged, skipped, failed := 0, 0, 0, 0, 0
	for _, entry := range entries {
		glyph := "✓"
		switch entry.Status {
		case models.StatusFailed:
			glyph = "✗"
			failed++
		case models.StatusSkipped:
			glyph = "→"
			skipped++
		case models.StatusUnchanged:
			unchanged++
		default:
			switch entry.Action {
			case models.ActionCreate:
				created++
			case models.ActionUpdate:
				updated++
			}
		}
		line := fmt.Sprintf("  %s %s: %s", glyph, entry.FileName, entry.Action)
		if entry.Reason != "" {
			line += fmt.Sprintf(" (%s)", entry.Reason)
		}
		if entry.ResourceName != "" {
			line += fmt.Sprintf(" [%s]", entry.ResourceName)
		}
		fmt.Println(line)
	}

	if *dryRun {
		fmt.Printf("\n✓ Dry run: %d create, %d update, %d skip\n", countAction(entries, models.ActionCreate), countAction(entries, models.ActionUpdate), countAction(entries, models.ActionSkip))
		return nil
	}

	csvPath, err := session.SaveCSV("")
	if err != nil {
		fmt.Printf("  ✗ Failed to write CSV report: %v\n", err)
	} else {
		fmt.Printf("\n✓ Report saved to %s\n", csvPath)
	}

	// Batch is done: remove staged images and the draft.
	for _, path := range batch.ImagePaths {
		_ = os.Remove(path)
	}
	if err := store.Delete(batch.ID); err != nil {
		fmt.Printf("  ✗ Failed to remove draft: %v\n", err)
	}

	fmt.Printf("✓ Created %d, updated %d, unchanged %d, skipped %d, failed %d\n",
		created, updated, unchanged, skipped, failed)
	return nil
}

func countAction(entries []models.ScanEntry, action string) int {
	n := 0
	for _, entry := range entries {
		if entry.Action == action && entry.Status != models.StatusSkipped {
			n++
		}
	}
	return n
}
