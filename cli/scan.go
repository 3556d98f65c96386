// ABOUTME: Scan CLI command
// ABOUTME: OCRs card images, parses them into records, and saves a draft batch
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/harperreed/meishi/drafts"
	"github.com/harperreed/meishi/models"
	"github.com/harperreed/meishi/ocr"
	_ "github.com/harperreed/meishi/ocr/tesseract"
	"github.com/harperreed/meishi/parse"
)

const (
	maxBatchSize = 5
	maxImageSize = 10 * 1024 * 1024
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// ScanCommand OCRs and parses card images into a draft batch, then prints
// the parsed records for review.
func ScanCommand(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	source := fs.String("source", "掃描", "Provenance label stamped into the contact note")
	_ = fs.Parse(args)

	images := fs.Args()
	if len(images) == 0 {
		return fmt.Errorf("at least one image is required")
	}
	if len(images) > maxBatchSize {
		return fmt.Errorf("a batch holds at most %d cards, got %d", maxBatchSize, len(images))
	}

	for _, img := range images {
		ext := strings.ToLower(filepath.Ext(img))
		if !allowedExtensions[ext] {
			return fmt.Errorf("%s: only JPG/PNG/PDF are supported", img)
		}
		info, err := os.Stat(img)
		if err != nil {
			return fmt.Errorf("%s: %w", img, err)
		}
		if info.Size() > maxImageSize {
			return fmt.Errorf("%s exceeds the 10MB limit", img)
		}
	}

	ctx := context.Background()
	engine := ocr.FromEnv(ctx)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	uploadDir := filepath.Join(xdg.StateHome, "meishi", "uploads")
	if err := os.MkdirAll(uploadDir, 0700); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	batch := &models.Batch{
		ID:        uuid.New().String(),
		CreatedAt: timestamp,
	}

	fmt.Printf("Scanning %d card(s) with %s...\n", len(images), engine.Name())

	for _, img := range images {
		stored := filepath.Join(uploadDir, uuid.NewString()+"_"+filepath.Base(img))
		if err := copyFile(img, stored); err != nil {
			return fmt.Errorf("failed to stage %s: %w", img, err)
		}

		text, err := engine.ExtractText(ctx, stored)
		if err != nil {
			// OCR failures degrade to an empty record; the card can
			// still be edited during review.
			fmt.Printf("  ✗ OCR failed for %s: %v\n", filepath.Base(img), err)
			text = ""
		}

		record := parse.ParseText(text)
		record.Notes = fmt.Sprintf("名片掃描於 %s，來源：%s（檔名：%s）", timestamp, *source, filepath.Base(img))

		batch.Records = append(batch.Records, record)
		batch.OCRTexts = append(batch.OCRTexts, text)
		batch.FileNames = append(batch.FileNames, filepath.Base(img))
		batch.ImagePaths = append(batch.ImagePaths, stored)
		batch.Skip = append(batch.Skip, false)

		fmt.Printf("  ✓ %s: %s\n", filepath.Base(img), recordSummary(record))
	}

	store, err := drafts.NewStore("")
	if err != nil {
		return err
	}
	if err := store.Save(batch); err != nil {
		return fmt.Errorf("failed to save draft batch: %w", err)
	}

	fmt.Printf("\n✓ Draft batch %s saved\n", batch.ID)
	fmt.Println("Run 'meishi review' to inspect it, or 'meishi apply --user <key>' to sync.")
	return nil
}

func recordSummary(record models.CardRecord) string {
	parts := []string{}
	if record.Name.FullName != "" {
		parts = append(parts, record.Name.FullName)
	}
	if record.Organization.Company != "" {
		parts = append(parts, record.Organization.Company)
	}
	if len(record.Emails) > 0 {
		parts = append(parts, record.Emails[0].Value)
	}
	if len(record.Phones) > 0 {
		parts = append(parts, record.Phones[0].Value)
	}
	if len(parts) == 0 {
		return "(no fields extracted)"
	}
	return strings.Join(parts, " / ")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, in)
	return err
}
