// ABOUTME: Review CLI command
// ABOUTME: Shows and edits the active draft batch before apply
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/meishi/drafts"
	"github.com/harperreed/meishi/models"
)

// ReviewCommand displays the active draft batch and supports marking cards
// to skip or replacing a record from an edited JSON file.
func ReviewCommand(args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	batchID := fs.String("batch", "", "Batch ID (default: active batch)")
	skipIdx := fs.Int("skip", -1, "Mark card at index (1-based) as skipped")
	unskipIdx := fs.Int("unskip", -1, "Unmark card at index (1-based)")
	editIdx := fs.Int("edit", -1, "Replace record at index (1-based) from --json")
	jsonPath := fs.String("json", "", "JSON file with an edited record (used with --edit)")
	showOCR := fs.Bool("ocr", false, "Show raw OCR text per card")
	_ = fs.Parse(args)

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

	changed := false

	if *skipIdx > 0 || *unskipIdx > 0 {
		idx := *skipIdx
		mark := true
		if *unskipIdx > 0 {
			idx = *unskipIdx
			mark = false
		}
		if idx > len(batch.Records) {
			return fmt.Errorf("index %d out of range (batch has %d cards)", idx, len(batch.Records))
		}
		for len(batch.Skip) < len(batch.Records) {
			batch.Skip = append(batch.Skip, false)
		}
		batch.Skip[idx-1] = mark
		changed = true
	}

	if *editIdx > 0 {
		if *jsonPath == "" {
			return fmt.Errorf("--edit requires --json")
		}
		if *editIdx > len(batch.Records) {
			return fmt.Errorf("index %d out of range (batch has %d cards)", *editIdx, len(batch.Records))
		}
		data, err := os.ReadFile(*jsonPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", *jsonPath, err)
		}
		var record models.CardRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("failed to parse record JSON: %w", err)
		}
		batch.Records[*editIdx-1] = record
		changed = true
	}

	if changed {
		if err := store.Save(batch); err != nil {
			return fmt.Errorf("failed to save batch: %w", err)
		}
	}

	fmt.Printf("Batch %s (created %s)\n\n", batch.ID, batch.CreatedAt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tFILE\tNAME\tCOMPANY\tEMAILS\tPHONES\tSKIP")
	_, _ = fmt.Fprintln(w, "-\t----\t----\t-------\t------\t------\t----")
	for i, record := range batch.Records {
		file := "-"
		if i < len(batch.FileNames) {
			file = batch.FileNames[i]
		}
		skip := ""
		if i < len(batch.Skip) && batch.Skip[i] {
			skip = "yes"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, file,
			orDash(record.Name.FullName),
			orDash(record.Organization.Company),
			orDash(joinValues(record.Emails)),
			orDash(joinValues(record.Phones)),
			skip,
		)
	}
	_ = w.Flush()

	if *showOCR {
		for i, text := range batch.OCRTexts {
			fmt.Printf("\n--- OCR text for card %d ---\n%s\n", i+1, text)
		}
	}

	return nil
}

func joinValues(items []models.TypedValue) string {
	values := make([]string, 0, len(items))
	for _, it := range items {
		if it.Value != "" {
			values = append(values, it.Value)
		}
	}
	return strings.Join(values, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
